package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Matrix geometry checked by Validate.
const (
	maxColumn   = 13
	maxRow      = 5
	localCols   = 7
	rowCount    = 6
	maxLEDCount = 8
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	switch cfg.Backend {
	case "", BackendVirtual, BackendLinux:
	default:
		return fmt.Errorf("backend %q: must be %q or %q", cfg.Backend, BackendVirtual, BackendLinux)
	}

	s := cfg.Scan
	for name, v := range map[string]int{
		"scan.settle_cycles":             s.SettleCycles,
		"scan.settle_us":                 s.SettleUs,
		"scan.idle_ms":                   s.IdleMs,
		"scan.halt_repeat_ms":            s.HaltRepeatMs,
		"indicator.flash_half_period_ms": cfg.Indicator.FlashHalfPeriodMs,
	} {
		if v < 0 {
			return fmt.Errorf("%s: must not be negative (got %d)", name, v)
		}
	}

	for i, k := range cfg.Virtual.Pressed {
		if _, _, err := ParseKey(k); err != nil {
			return fmt.Errorf("virtual.pressed[%d]: %w", i, err)
		}
	}
	for i, st := range cfg.Virtual.Script {
		if err := validateStep(st); err != nil {
			return fmt.Errorf("virtual.script[%d]: %w", i, err)
		}
	}

	if cfg.Backend == BackendLinux {
		if err := validateLinux(cfg.Linux); err != nil {
			return fmt.Errorf("linux: %w", err)
		}
	}
	return nil
}

func validateStep(st ScriptStep) error {
	if st.AtMs < 0 {
		return fmt.Errorf("at_ms must not be negative")
	}
	switch st.Action {
	case ActionPress, ActionRelease:
		if _, _, err := ParseKey(st.Key); err != nil {
			return err
		}
	case ActionConnect, ActionDisconnect, ActionReduced, ActionFull:
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func validateLinux(l LinuxConfig) error {
	if len(l.Columns) == 0 || len(l.Columns) > localCols {
		return fmt.Errorf("columns: need 1..%d line offsets, got %d", localCols, len(l.Columns))
	}
	if len(l.Rows) != rowCount {
		return fmt.Errorf("rows: need %d line offsets, got %d", rowCount, len(l.Rows))
	}
	if len(l.LEDs) > maxLEDCount {
		return fmt.Errorf("leds: at most %d lines, got %d", maxLEDCount, len(l.LEDs))
	}

	owner := make(map[int]string)
	claim := func(kind string, offsets []int) error {
		for _, off := range offsets {
			if off < 0 {
				return fmt.Errorf("%s: negative line offset %d", kind, off)
			}
			if prev, ok := owner[off]; ok {
				return fmt.Errorf("%s: line %d already used by %s", kind, off, prev)
			}
			owner[off] = kind
		}
		return nil
	}
	if err := claim("columns", l.Columns); err != nil {
		return err
	}
	if err := claim("rows", l.Rows); err != nil {
		return err
	}
	if err := claim("leds", l.LEDs); err != nil {
		return err
	}
	if l.RemoteAddr > 0x7F {
		return fmt.Errorf("remote_addr: 0x%x is not a 7-bit address", l.RemoteAddr)
	}
	return nil
}

// ParseKey parses a "col,row" key position.
func ParseKey(s string) (col, row int, err error) {
	c, r, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return 0, 0, fmt.Errorf("key %q: want \"col,row\"", s)
	}
	col, err = strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return 0, 0, fmt.Errorf("key %q: column: %w", s, err)
	}
	row, err = strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return 0, 0, fmt.Errorf("key %q: row: %w", s, err)
	}
	if col < 0 || col > maxColumn || row < 0 || row > maxRow {
		return 0, 0, fmt.Errorf("key %q: outside %dx%d matrix", s, maxColumn+1, maxRow+1)
	}
	return col, row, nil
}
