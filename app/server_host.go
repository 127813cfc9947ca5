//go:build !tinygo

package app

import (
	"context"
	"errors"

	"touchlamp/hal"
	"touchlamp/lamp/cmdserver"
)

// startCommands serves the command channel when the HAL has a network.
func startCommands(c *Controller, h hal.HAL) {
	n := h.Network()
	if n == nil {
		return
	}
	ln, err := n.Listen()
	if err != nil {
		if !errors.Is(err, hal.ErrNotImplemented) {
			c.log.WriteLineString("touchlamp: command channel: " + err.Error())
		}
		return
	}

	srv := cmdserver.New(c.state, cmdserver.Config{Title: c.cfg.Title})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx, ln); err != nil {
			c.log.WriteLineString("touchlamp: command channel: " + err.Error())
		}
	}()
	c.stopCommands = func() {
		cancel()
		<-done
	}
}
