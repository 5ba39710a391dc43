// Package tle resolves two-line element sets for tracked satellites. Elements
// come from Celestrak, a local disk cache, or a simulated fallback so batch
// analysis still runs without network access.
package tle

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/passtrack/model"
)

const lineLength = 69

// Validate checks that the element set carries a structurally sound TLE pair:
// correct line lengths, line number prefixes, and mod-10 checksums.
func Validate(el model.OrbitalElements) error {
	if el.Name == "" {
		return fmt.Errorf("element set has no satellite name")
	}
	if err := validateLine(el.Line1, '1'); err != nil {
		return fmt.Errorf("line 1: %w", err)
	}
	if err := validateLine(el.Line2, '2'); err != nil {
		return fmt.Errorf("line 2: %w", err)
	}
	return nil
}

func validateLine(line string, lineNumber byte) error {
	if len(line) != lineLength {
		return fmt.Errorf("length %d, want %d", len(line), lineLength)
	}
	if line[0] != lineNumber || line[1] != ' ' {
		return fmt.Errorf("does not start with %q", string(lineNumber)+" ")
	}
	want := checksum(line[:lineLength-1])
	got := int(line[lineLength-1] - '0')
	if got != want {
		return fmt.Errorf("checksum %d, want %d", got, want)
	}
	return nil
}

// checksum computes the mod-10 TLE checksum: digits count as their value,
// minus signs count as 1, everything else counts as 0.
func checksum(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

// Simulated fabricates a plausible element set for a satellite when live data
// is unavailable: a 53 degree inclination LEO orbit at roughly 15 revolutions
// per day, with the epoch taken from the provided time.
func Simulated(noradID uint32, name string, epoch time.Time) model.OrbitalElements {
	epoch = epoch.UTC()
	epochField := fmt.Sprintf("%02d%03d.50000000", epoch.Year()%100, epoch.YearDay())

	line1 := fmt.Sprintf("1 %05dU 22059A   %s  .00000000  00000-0  00000-0 0  999", noradID, epochField)
	line2 := fmt.Sprintf("2 %05d  53.0000  95.0000 0001000  90.0000 270.0000 15.0000000000000", noradID)

	return model.OrbitalElements{
		Name:  name,
		Line1: fmt.Sprintf("%s%d", line1, checksum(line1)),
		Line2: fmt.Sprintf("%s%d", line2, checksum(line2)),
	}
}
