package repositories

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Zones without a loadable IANA name (offsets parsed from RFC 3339 input,
// abbreviations like "PDT") are stored as "fixed:<offset seconds>:<name>".
const fixedZonePrefix = "fixed:"

// encodeZone returns the column value that restores t's location on read.
func encodeZone(t time.Time) string {
	name, offset := t.Zone()
	locName := t.Location().String()

	// "Local" depends on the host that reads the row.
	if locName != "" && locName != "Local" {
		if loc, err := time.LoadLocation(locName); err == nil {
			if _, o := t.In(loc).Zone(); o == offset {
				return locName
			}
		}
	}

	return fmt.Sprintf("%s%d:%s", fixedZonePrefix, offset, name)
}

// decodeZone reverses encodeZone. Unknown values fall back to UTC.
func decodeZone(s string) *time.Location {
	if rest, ok := strings.CutPrefix(s, fixedZonePrefix); ok {
		offsetStr, name, _ := strings.Cut(rest, ":")
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return time.UTC
		}
		return time.FixedZone(name, offset)
	}

	loc, err := time.LoadLocation(s)
	if err != nil {
		return time.UTC
	}
	return loc
}
