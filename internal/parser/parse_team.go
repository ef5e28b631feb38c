package parser

import (
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// ParseTeam parses a team declaration.
func (p *Parser) ParseTeam(record []string) (*core.Team, error) {
	if err := requireFields(record, 5, "team"); err != nil {
		return nil, err
	}
	index, err := parseInt(record[1], "team index")
	if err != nil {
		return nil, err
	}
	colorEnum, err := parseInt(record[3], "colour enum")
	if err != nil {
		return nil, err
	}

	return &core.Team{
		Index:     index,
		Desc:      record[2],
		ColorEnum: colorEnum,
		ColorDesc: record[4],
		UIColor:   core.UIColor(colorEnum),
	}, nil
}
