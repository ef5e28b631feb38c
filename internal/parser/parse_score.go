package parser

import (
	"github.com/zmaniacz/lfstats-chomper/internal/registry"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// ParseScoreDelta parses a score audit record: time, entity, old, delta, new.
func (p *Parser) ParseScoreDelta(record []string, reg *registry.Registry) (core.ScoreDelta, error) {
	var delta core.ScoreDelta
	if err := requireFields(record, 6, "score"); err != nil {
		return delta, err
	}

	var err error
	if delta.Time, err = parseInt64(record[1], "score time"); err != nil {
		return delta, err
	}
	entity, err := reg.Entity(record[2])
	if err != nil {
		return delta, err
	}
	delta.Entity = entity.ID
	delta.Team = entity.Team

	if delta.Old, err = parseInt(record[3], "old score"); err != nil {
		return delta, err
	}
	if delta.Delta, err = parseInt(record[4], "score delta"); err != nil {
		return delta, err
	}
	if delta.New, err = parseInt(record[5], "new score"); err != nil {
		return delta, err
	}
	return delta, nil
}
