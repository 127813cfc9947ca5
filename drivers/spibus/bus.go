// Package spibus queues command/data transfers onto an SPI bus.
//
// Transfers are handed to a worker in order. Callers may queue several
// before blocking on WaitForAll, which is the only point where buffers
// referenced by queued transactions become free again. Peripherals with a
// data/command strobe get it set immediately before each transfer.
package spibus

import (
	"errors"
	"fmt"
	"sync"

	"tinygo.org/x/drivers"
)

var (
	ErrQueueFull = errors.New("spibus: queue full")
	ErrClosed    = errors.New("spibus: closed")
)

// DefaultQueueSize bounds the number of transactions in flight.
const DefaultQueueSize = 6

// Pin is a digital output. machine.Pin satisfies it.
type Pin interface {
	Set(high bool)
}

// Config configures a Bus.
type Config struct {
	// QueueSize is the in-flight bound. Zero selects DefaultQueueSize.
	QueueSize int
	// DC is the data/command strobe: high for data, low for commands.
	// Nil for peripherals without one.
	DC Pin
}

// Bus serializes transactions onto one SPI device.
type Bus struct {
	spi drivers.SPI
	dc  Pin

	own sync.Mutex

	mu      sync.Mutex
	idle    *sync.Cond
	queue   chan Transaction
	size    int
	pending int
	err     error
	closed  bool
	done    chan struct{}
}

// New starts a bus worker for spi.
func New(spi drivers.SPI, cfg Config) *Bus {
	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	b := &Bus{
		spi:   spi,
		dc:    cfg.DC,
		queue: make(chan Transaction, size),
		size:  size,
		done:  make(chan struct{}),
	}
	b.idle = sync.NewCond(&b.mu)
	go b.run()
	return b
}

func (b *Bus) run() {
	defer close(b.done)
	for t := range b.queue {
		err := b.transfer(t)

		b.mu.Lock()
		if err != nil && b.err == nil {
			b.err = err
		}
		b.pending--
		if b.pending == 0 {
			b.idle.Broadcast()
		}
		b.mu.Unlock()
	}
}

func (b *Bus) transfer(t Transaction) error {
	if b.dc != nil {
		b.dc.Set(t.kind == KindData)
	}
	if err := b.spi.Tx(t.payload, t.response); err != nil {
		return fmt.Errorf("spibus: %s transfer of %d bytes: %w", t.kind, len(t.payload), err)
	}
	return nil
}

// QueueSize reports the in-flight bound.
func (b *Bus) QueueSize() int { return b.size }

// Enqueue queues t without waiting for it. It fails with ErrQueueFull rather
// than block when the bound is reached; drain with WaitForAll first.
func (b *Bus) Enqueue(t Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if b.pending >= b.size {
		return ErrQueueFull
	}
	b.pending++
	// Never blocks: the channel holds at most pending items.
	b.queue <- t
	return nil
}

// WaitForAll blocks until every queued transaction has completed and
// returns the first transfer error seen since the previous call.
func (b *Bus) WaitForAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.pending > 0 {
		b.idle.Wait()
	}
	err := b.err
	b.err = nil
	return err
}

// SendCommand transmits one command byte and waits for it.
func (b *Bus) SendCommand(cmd byte) error {
	if err := b.Enqueue(Command(cmd)); err != nil {
		return err
	}
	return b.WaitForAll()
}

// SendData transmits p as data and waits for it. Empty p is a no-op.
func (b *Bus) SendData(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := b.Enqueue(Data(p)); err != nil {
		return err
	}
	return b.WaitForAll()
}

// Exchange clocks tx out while reading the same number of bytes into rx,
// and waits for the result.
func (b *Bus) Exchange(tx, rx []byte) error {
	if len(rx) != len(tx) {
		return fmt.Errorf("spibus: exchange: rx has %d bytes, tx has %d", len(rx), len(tx))
	}
	t := NewTransaction(KindData).Payload(tx).Response(rx).Build()
	if err := b.Enqueue(t); err != nil {
		return err
	}
	return b.WaitForAll()
}

// Acquire takes exclusive use of the bus for a multi-transaction sequence.
// Every Acquire must be paired with Release.
func (b *Bus) Acquire() { b.own.Lock() }

// Release ends an Acquire.
func (b *Bus) Release() { b.own.Unlock() }

// Close drains the queue and stops the worker.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	<-b.done

	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.err
	b.err = nil
	return err
}
