//go:build tinygo

package app

import "touchlamp/hal"

func startCommands(*Controller, hal.HAL) {}
