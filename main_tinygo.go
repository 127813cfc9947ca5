//go:build tinygo && baremetal && rp2040

package main

import (
	"touchlamp/app"
	"touchlamp/hal"
)

func main() {
	app.Run(hal.New())
}
