// Package config describes how the controller is assembled.
package config

// Backends for hosted builds.
const (
	BackendVirtual = "virtual"
	BackendLinux   = "linux"
)

type Config struct {
	Backend string `yaml:"backend"`

	Scan      ScanConfig      `yaml:"scan"`
	Indicator IndicatorConfig `yaml:"indicator"`
	Stats     StatsConfig     `yaml:"stats"`

	Virtual VirtualConfig `yaml:"virtual"`
	Linux   LinuxConfig   `yaml:"linux"`
}

// ---- SCAN LOOP ----

type ScanConfig struct {
	// SettleCycles is the busy-wait between strobe and sample on MCUs.
	SettleCycles int `yaml:"settle_cycles"`
	// SettleUs is the strobe settle time on hosted backends.
	SettleUs int `yaml:"settle_us"`

	IdleMs int `yaml:"idle_ms"`
	// ReadyDelayMs follows link readiness; negative skips it.
	ReadyDelayMs int `yaml:"ready_delay_ms"`
	HaltRepeatMs int `yaml:"halt_repeat_ms"`

	// LogEdges writes key transitions to the debug output.
	LogEdges bool `yaml:"log_edges"`
}

// ---- INDICATORS ----

type IndicatorConfig struct {
	FlashHalfPeriodMs int `yaml:"flash_half_period_ms"`
}

// ---- STATISTICS ----

type StatsConfig struct {
	Enabled bool `yaml:"enabled"`
	// MetricsAddr serves the reports for scraping on hosted builds.
	MetricsAddr string `yaml:"metrics_addr"`
}

// ---- VIRTUAL BACKEND ----

type VirtualConfig struct {
	RemoteConnected bool `yaml:"remote_connected"`
	ReducedProtocol bool `yaml:"reduced_protocol"`
	// ReadyAfterMs delays link readiness after start.
	ReadyAfterMs int `yaml:"ready_after_ms"`

	// Pressed lists "col,row" keys held down from start.
	Pressed []string `yaml:"pressed"`

	Script []ScriptStep `yaml:"script"`
}

// ScriptStep changes the virtual hardware at a point in time.
type ScriptStep struct {
	AtMs   int    `yaml:"at_ms"`
	Action string `yaml:"action"`
	Key    string `yaml:"key"`
}

// Script actions.
const (
	ActionPress      = "press"
	ActionRelease    = "release"
	ActionConnect    = "connect"
	ActionDisconnect = "disconnect"
	ActionReduced    = "reduced"
	ActionFull       = "full"
)

// ---- LINUX BACKEND ----

type LinuxConfig struct {
	Chip string `yaml:"chip"`

	// Columns are line offsets of the local columns, in scan order.
	Columns []int `yaml:"columns"`
	// Rows are line offsets of the six row inputs.
	Rows []int `yaml:"rows"`
	// LEDs are line offsets of the indicator outputs (bit 0 first).
	LEDs []int `yaml:"leds"`

	// I2CBus names the bus of the remote half ("" = first bus).
	I2CBus     string `yaml:"i2c_bus"`
	RemoteAddr uint16 `yaml:"remote_addr"`
	NoRemote   bool   `yaml:"no_remote"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{
		Backend: BackendVirtual,
		Virtual: VirtualConfig{RemoteConnected: true},
	}
	Normalize(&cfg)
	return cfg
}
