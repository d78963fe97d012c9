//go:build tinygo

package main

import (
	"splitkb/app"
	"splitkb/hal"
	"splitkb/internal/config"
)

func main() {
	cfg := config.Default()
	app.Run(hal.New(cfg), cfg)
}
