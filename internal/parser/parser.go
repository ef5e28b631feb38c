package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/zmaniacz/lfstats-chomper/internal/registry"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// ErrMalformed marks a line that cannot be turned into a record.
var ErrMalformed = errors.New("malformed record")

// Record kind tags, the first field of every line.
const (
	tagInfo        = "0"
	tagMission     = "1"
	tagTeam        = "2"
	tagEntityStart = "3"
	tagEvent       = "4"
	tagScore       = "5"
	tagEntityEnd   = "6"
	tagReserved    = "7"
)

// maxLineSize bounds a single TDF line.
const maxLineSize = 1024 * 1024

// Log is the parsed content of one TDF file.
type Log struct {
	Meta        core.GameMetaData
	Game        core.Game
	Registry    *registry.Registry
	Actions     []core.GameAction
	ScoreDeltas []core.ScoreDelta
}

func newLog() *Log {
	return &Log{
		Registry: registry.New(),
		Game: core.Game{
			MissionMaxLength:       core.DefaultMissionMaxLengthMillis / 1000,
			MissionMaxLengthMillis: core.DefaultMissionMaxLengthMillis,
		},
	}
}

// Parser turns TDF lines into typed records. It holds no state between files.
type Parser struct {
	logger         *slog.Logger
	chomperVersion string
}

// NewParser creates a parser stamping chomperVersion into every game's metadata.
func NewParser(logger *slog.Logger, chomperVersion string) *Parser {
	return &Parser{
		logger:         logger,
		chomperVersion: chomperVersion,
	}
}

// Parse reads a whole TDF stream. Any malformed line aborts the parse.
// r must already be UTF-8.
func (p *Parser) Parse(r io.Reader, tdfKey string) (*Log, error) {
	log := newLog()
	log.Meta.TdfKey = tdfKey
	log.Meta.ChomperVersion = p.chomperVersion

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if err := p.parseLine(log, line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading tdf: %w", err)
	}

	p.finish(log)

	p.logger.Debug("Parsed tdf",
		"tdfKey", tdfKey,
		"lines", lineNo,
		"entities", len(log.Registry.Entities()),
		"actions", len(log.Actions))
	return log, nil
}

func (p *Parser) parseLine(log *Log, line string) error {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ";") {
		return nil
	}
	record := strings.Split(line, "\t")

	switch record[0] {
	case tagInfo:
		meta, err := p.ParseInfo(record)
		if err != nil {
			return err
		}
		meta.TdfKey = log.Meta.TdfKey
		meta.ChomperVersion = log.Meta.ChomperVersion
		log.Meta = meta
	case tagMission:
		return p.ParseMission(record, &log.Game)
	case tagTeam:
		team, err := p.ParseTeam(record)
		if err != nil {
			return err
		}
		log.Registry.AddTeam(team)
	case tagEntityStart:
		entity, err := p.ParseEntityStart(record)
		if err != nil {
			return err
		}
		return log.Registry.AddEntity(entity)
	case tagEvent:
		action, err := p.ParseEvent(record, len(log.Actions))
		if err != nil {
			return err
		}
		if action.Type == core.EventMissionEnd {
			log.Game.MissionLengthMillis = action.Time
			log.Game.MissionLength = roundSeconds(action.Time)
			log.Game.MissionEnded = true
		}
		log.Actions = append(log.Actions, action)
	case tagScore:
		delta, err := p.ParseScoreDelta(record, log.Registry)
		if err != nil {
			return err
		}
		log.ScoreDeltas = append(log.ScoreDeltas, delta)
	case tagEntityEnd:
		return p.ParseEntityEnd(record, log.Registry)
	case tagReserved:
		// reserved for validation records
	default:
		return fmt.Errorf("%w: unknown record kind %q", ErrMalformed, record[0])
	}
	return nil
}

// finish settles values that depend on the whole file.
func (p *Parser) finish(log *Log) {
	if !log.Game.MissionEnded {
		log.Game.MissionLengthMillis = log.Game.MissionMaxLengthMillis
		log.Game.MissionLength = log.Game.MissionMaxLength
	}
	log.Registry.Finalize()
}

// GameEnd is the fallback end time for entities without an entity-end record:
// the mission-end time, or the mission's maximum length when the log has none.
func (l *Log) GameEnd() int64 {
	return l.Game.MissionLengthMillis
}

func requireFields(record []string, n int, kind string) error {
	if len(record) < n {
		return fmt.Errorf("%w: %s record needs %d fields, got %d", ErrMalformed, kind, n, len(record))
	}
	return nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func parseInt(s, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: error converting %s to int: %v", ErrMalformed, name, err)
	}
	return v, nil
}

func parseInt64(s, name string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: error converting %s to int64: %v", ErrMalformed, name, err)
	}
	return v, nil
}

// roundSeconds converts milliseconds to whole seconds, rounding half up.
func roundSeconds(ms int64) int64 {
	return (ms + 500) / 1000
}
