//go:build !tinygo && !periph

package main

import (
	"errors"
	"log/slog"

	"touchlamp/hal"
)

func openPeriph(*slog.Logger) (hal.HAL, func() error, error) {
	return nil, nil, errors.New("built without periph support (use -tags periph)")
}
