// Package connector ships encoded statement arguments to a database and
// returns raw framed results, through one of two interchangeable backends:
// an in-process driver (native mode) or an external driver reached over a
// message bridge (bridged mode).
//
// The mode is chosen once, when a Dispatcher is built, and never changes.
// Both backends consume and produce the same wire values, so the value
// codec never needs to know which one is active.
package connector

import (
	"fmt"
	"strings"

	"github.com/nnnkkk7/typebridge/pkg/config"
)

// Mode is the execution backend a Dispatcher uses.
type Mode string

// Modes.
const (
	Native  Mode = config.ModeNative
	Bridged Mode = config.ModeBridged
)

func (m Mode) String() string { return string(m) }

// ParseMode parses "native" or "bridged", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Native, Bridged:
		return m, nil
	}
	return "", fmt.Errorf("unknown connector mode %q", s)
}
