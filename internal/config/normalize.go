package config

// Defaults applied by Normalize.
const (
	DefaultSettleCycles      = 128
	DefaultSettleUs          = 5
	DefaultIdleMs            = 1
	DefaultReadyDelayMs      = 1000
	DefaultHaltRepeatMs      = 100
	DefaultFlashHalfPeriodMs = 250
	DefaultChip              = "gpiochip0"
	DefaultRemoteAddr        = 0x20
)

// Normalize fills unset fields with defaults.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Backend == "" {
		cfg.Backend = BackendVirtual
	}

	s := &cfg.Scan
	if s.SettleCycles == 0 {
		s.SettleCycles = DefaultSettleCycles
	}
	if s.SettleUs == 0 {
		s.SettleUs = DefaultSettleUs
	}
	if s.IdleMs == 0 {
		s.IdleMs = DefaultIdleMs
	}
	if s.ReadyDelayMs == 0 {
		s.ReadyDelayMs = DefaultReadyDelayMs
	}
	if s.HaltRepeatMs == 0 {
		s.HaltRepeatMs = DefaultHaltRepeatMs
	}

	if cfg.Indicator.FlashHalfPeriodMs == 0 {
		cfg.Indicator.FlashHalfPeriodMs = DefaultFlashHalfPeriodMs
	}

	if cfg.Linux.Chip == "" {
		cfg.Linux.Chip = DefaultChip
	}
	if cfg.Linux.RemoteAddr == 0 {
		cfg.Linux.RemoteAddr = DefaultRemoteAddr
	}
}
