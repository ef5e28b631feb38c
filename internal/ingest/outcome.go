package ingest

import (
	"context"
	"errors"

	"github.com/zmaniacz/lfstats-chomper/internal/database"
	"github.com/zmaniacz/lfstats-chomper/internal/parser"
	"github.com/zmaniacz/lfstats-chomper/internal/registry"
	"github.com/zmaniacz/lfstats-chomper/internal/source"
	"github.com/zmaniacz/lfstats-chomper/internal/storage"
)

// Outcome is the user-visible result of chomping one TDF.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeDuplicateGame
	OutcomeBadInput
	OutcomeDependencyUnavailable
	OutcomeInternalError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeDuplicateGame:
		return "duplicate-game"
	case OutcomeBadInput:
		return "bad-input"
	case OutcomeDependencyUnavailable:
		return "dependency-unavailable"
	default:
		return "internal-error"
	}
}

// ExitCode is the process status reported for the outcome.
// A duplicate game is not a failure.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeSuccess, OutcomeDuplicateGame:
		return 0
	case OutcomeBadInput:
		return 2
	case OutcomeDependencyUnavailable:
		return 3
	default:
		return 1
	}
}

// Classify maps an error from Chomp to its outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, storage.ErrGameExists):
		return OutcomeDuplicateGame
	case errors.Is(err, parser.ErrMalformed),
		errors.Is(err, registry.ErrUnknownEntity),
		errors.Is(err, registry.ErrUnknownTeam),
		errors.Is(err, registry.ErrDuplicateEntity):
		return OutcomeBadInput
	case errors.Is(err, source.ErrUnavailable),
		errors.Is(err, database.ErrSecretUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return OutcomeDependencyUnavailable
	default:
		return OutcomeInternalError
	}
}

// severity ranks outcomes for Worst. It is independent of the exit codes:
// an internal error outranks every other failure.
var severity = map[Outcome]int{
	OutcomeSuccess:               0,
	OutcomeDuplicateGame:         1,
	OutcomeBadInput:              2,
	OutcomeDependencyUnavailable: 3,
	OutcomeInternalError:         4,
}

// Worst returns the most severe outcome of reports.
func Worst(reports []Report) Outcome {
	worst := OutcomeSuccess
	for _, r := range reports {
		if severity[r.Outcome] > severity[worst] {
			worst = r.Outcome
		}
	}
	return worst
}
