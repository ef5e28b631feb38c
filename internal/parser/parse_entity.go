package parser

import (
	"github.com/zmaniacz/lfstats-chomper/internal/registry"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// ParseEntityStart parses an entity declaration:
// time, id, type, desc, team, level, category and an optional battlesuit.
func (p *Parser) ParseEntityStart(record []string) (*core.Entity, error) {
	if err := requireFields(record, 8, "entity-start"); err != nil {
		return nil, err
	}

	startTime, err := parseInt64(record[1], "entity start time")
	if err != nil {
		return nil, err
	}
	team, err := parseInt(record[5], "entity team")
	if err != nil {
		return nil, err
	}
	level, err := parseInt(record[6], "entity level")
	if err != nil {
		return nil, err
	}
	category, err := parseInt(record[7], "entity category")
	if err != nil {
		return nil, err
	}

	entity := core.NewEntity(record[2], record[3], record[4], team, level, category, startTime)
	entity.Battlesuit = field(record, 8)
	return entity, nil
}

// ParseEntityEnd applies an entity-end record (time, id, termination code) to reg.
func (p *Parser) ParseEntityEnd(record []string, reg *registry.Registry) error {
	if err := requireFields(record, 4, "entity-end"); err != nil {
		return err
	}
	endTime, err := parseInt64(record[1], "entity end time")
	if err != nil {
		return err
	}
	return reg.EndEntity(record[2], endTime, record[3])
}
