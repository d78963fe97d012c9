//go:build !linux && !tinygo

package hal

import "splitkb/internal/config"

func (h *hostHAL) openLinux(_ config.LinuxConfig, _ func()) error {
	return ErrNotImplemented
}
