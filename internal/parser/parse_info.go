package parser

import (
	"fmt"
	"strings"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// ParseInfo parses a header record: file version, program version and REGION-SITE centre code.
func (p *Parser) ParseInfo(record []string) (core.GameMetaData, error) {
	var meta core.GameMetaData
	if err := requireFields(record, 4, "info"); err != nil {
		return meta, err
	}

	location := strings.SplitN(record[3], "-", 2)
	if len(location) != 2 {
		return meta, fmt.Errorf("%w: centre code %q is not REGION-SITE", ErrMalformed, record[3])
	}

	meta.FileVersion = record[1]
	meta.ProgramVersion = record[2]
	meta.RegionCode = location[0]
	meta.SiteCode = location[1]
	return meta, nil
}
