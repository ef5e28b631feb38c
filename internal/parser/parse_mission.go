package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// ParseMission parses a mission record into game. Max duration and penalty are optional.
func (p *Parser) ParseMission(record []string, game *core.Game) error {
	if err := requireFields(record, 4, "mission"); err != nil {
		return err
	}

	start, err := parseInt64(record[3], "mission start")
	if err != nil {
		return err
	}
	startTime, err := time.ParseInLocation(core.MissionStartLayout, strings.TrimSpace(record[3]), time.UTC)
	if err != nil {
		return fmt.Errorf("%w: error parsing mission start: %v", ErrMalformed, err)
	}

	game.MissionType = record[1]
	game.MissionDesc = record[2]
	game.MissionStart = start
	game.MissionStartTime = startTime

	game.MissionMaxLengthMillis = core.DefaultMissionMaxLengthMillis
	if s := field(record, 4); s != "" {
		maxLength, err := parseInt64(s, "mission duration")
		if err != nil {
			return err
		}
		game.MissionMaxLengthMillis = maxLength
	}
	game.MissionMaxLength = roundSeconds(game.MissionMaxLengthMillis)

	game.PenaltyValue = nil
	if s := field(record, 5); s != "" {
		penalty, err := parseInt(s, "penalty")
		if err != nil {
			return err
		}
		game.PenaltyValue = &penalty
	}

	p.logger.Debug("Parsed mission",
		"type", game.MissionType,
		"start", game.MissionStartTime,
		"maxLength", game.MissionMaxLengthMillis)
	return nil
}
