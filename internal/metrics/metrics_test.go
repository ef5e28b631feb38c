package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.NotNil(t, r.games)
	assert.NotNil(t, r.replayDuration)
}

func TestRecorder_NoopMeter(t *testing.T) {
	r, err := NewWithMeter(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		r.RecordReplay(context.Background(), 120, 40, 15*time.Millisecond)
		r.RecordOutcome(context.Background(), "success")
	})
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordReplay(context.Background(), 1, 1, time.Second)
		r.RecordOutcome(context.Background(), "bad-input")
	})
}
