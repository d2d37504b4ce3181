package render

import (
	"fmt"
	"strings"
)

// Mode selects how the dashboard is drawn.
type Mode int

const (
	// ModeBars draws one progress bar per file.
	ModeBars Mode = iota
	// ModeTable draws a static table.
	ModeTable
)

// ParseMode parses a --view value. "animated" is accepted as an alias for bars.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bars", "animated":
		return ModeBars, nil
	case "table":
		return ModeTable, nil
	default:
		return ModeBars, fmt.Errorf("invalid view %q: must be 'bars' or 'table'", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeTable:
		return "table"
	default:
		return "bars"
	}
}
