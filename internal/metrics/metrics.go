// Package metrics holds the OpenTelemetry instruments recorded per ingested game.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/zmaniacz/lfstats-chomper/internal/ingest"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Recorder counts games, actions and states, and times replays.
// A nil Recorder records nothing.
type Recorder struct {
	games          metric.Int64Counter
	actions        metric.Int64Counter
	states         metric.Int64Counter
	replayDuration metric.Float64Histogram
}

// New creates the instruments on the global meter provider.
func New() (*Recorder, error) {
	return NewWithMeter(meter())
}

// NewWithMeter creates the instruments on m.
func NewWithMeter(m metric.Meter) (*Recorder, error) {
	r := &Recorder{}
	var err error

	r.games, err = m.Int64Counter(
		"chomper.games",
		metric.WithDescription("Games processed, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create games counter: %w", err)
	}

	r.actions, err = m.Int64Counter(
		"chomper.actions",
		metric.WithDescription("Actions replayed, synthetic ones included"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create actions counter: %w", err)
	}

	r.states, err = m.Int64Counter(
		"chomper.states",
		metric.WithDescription("State history entries produced"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create states counter: %w", err)
	}

	r.replayDuration, err = m.Float64Histogram(
		"chomper.replay.duration",
		metric.WithDescription("Time from parse to replayed result"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay duration histogram: %w", err)
	}

	return r, nil
}

// RecordReplay records one finished replay.
func (r *Recorder) RecordReplay(ctx context.Context, actions, states int, d time.Duration) {
	if r == nil {
		return
	}
	r.actions.Add(ctx, int64(actions))
	r.states.Add(ctx, int64(states))
	r.replayDuration.Record(ctx, d.Seconds())
}

// RecordOutcome counts one game against its outcome.
func (r *Recorder) RecordOutcome(ctx context.Context, outcome string) {
	if r == nil {
		return
	}
	r.games.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
