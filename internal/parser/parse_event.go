package parser

import (
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// ParseEvent parses a timed event: time, type, actor, action text and optional target.
// Mission start and end events carry only text.
func (p *Parser) ParseEvent(record []string, seq int) (core.GameAction, error) {
	var action core.GameAction
	if err := requireFields(record, 3, "event"); err != nil {
		return action, err
	}

	t, err := parseInt64(record[1], "event time")
	if err != nil {
		return action, err
	}

	action.Seq = seq
	action.Time = t
	action.Type = record[2]

	switch action.Type {
	case core.EventMissionStart, core.EventMissionEnd:
		action.Action = field(record, 3)
	default:
		action.Player = field(record, 3)
		action.Action = field(record, 4)
		action.Target = field(record, 5)
	}
	return action, nil
}
