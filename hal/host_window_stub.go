//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"

	"splitkb/internal/config"
)

func RunWindow(_ context.Context, _ config.Config, _ RunFunc) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
