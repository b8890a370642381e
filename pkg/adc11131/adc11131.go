// Package adc11131 drives a 16-channel, 12-bit SAR ADC (MAX11131 family) over SPI.
//
// The chip answers one transfer late: the word clocked out while a command is
// clocked in belongs to the command sent on the previous transfer. Every read
// here primes the pipeline first and checks the channel tag of each answer.
package adc11131

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// SerialInterface interface allows for different SerialInterface implementations.
type SerialInterface interface {
	// Configure sets the bus clock. Bit order is always MSB first and the mode is always SPI mode 3.
	Configure(clockHz uint32) error

	// Begin and End bracket a sequence of frames, e.g. to lock a shared bus.
	Begin() error
	End() error

	// SetCS drives the chip select line. CS is active low.
	SetCS(high bool) error

	// Tx performs a full-duplex transfer, len(r) == len(w).
	Tx(w, r []byte) error

	// Close closes the interface.
	Close() error
}

var (
	ErrClosed       = errors.New("adc11131: closed")
	ErrInvalidClock = errors.New("adc11131: bus clock must be non-zero")
)

// ADC provides control over a single ADC11131 chip.
//
// A handle is not meant to be shared; callers own it exclusively. The mutex
// only keeps a [ChannelScan] and direct reads from interleaving frames.
type ADC struct {
	mu  sync.Mutex
	spi SerialInterface

	cfg   Config
	clock Clock

	message  Message   // last command sent
	released time.Time // last CS release, zero before the first frame
	closed   bool
}

// Config represents user-level configuration parameters
type Config struct {
	Clock uint32 // SPI clock in Hz
}

// DefaultConfig opts into a 1 MHz bus clock, the slowest clock seen working on real boards.
func DefaultConfig() Config {
	return Config{
		Clock: Clock1MHz,
	}
}

// Option configures an [ADC] at construction.
type Option func(*ADC)

// WithClock replaces the time source used for CS settle timing.
func WithClock(c Clock) Option {
	return func(adc *ADC) {
		adc.clock = c
	}
}

// NewADC11131 constructs an ADC object on top of the given SerialInterface.
func NewADC11131(spi SerialInterface, opts ...Option) *ADC {
	adc := &ADC{
		spi:     spi,
		clock:   SystemClock(),
		message: Build(DefaultFields()),
	}
	for _, opt := range opts {
		opt(adc)
	}
	return adc
}

// Initialize releases CS, applies the bus clock and resets the chip.
// Call it once at start-up. Exactly one frame, carrying [ResetMessage], is sent
// and its answer is ignored.
func (adc *ADC) Initialize(cfg Config) error {
	if cfg.Clock == 0 {
		return ErrInvalidClock
	}

	adc.mu.Lock()
	defer adc.mu.Unlock()

	if adc.closed {
		return ErrClosed
	}

	if err := adc.setCSHigh(); err != nil {
		return fmt.Errorf("failed to release CS: %w", err)
	}

	if err := adc.spi.Configure(cfg.Clock); err != nil {
		return fmt.Errorf("failed to configure bus at %d Hz: %w", cfg.Clock, err)
	}
	adc.cfg = cfg

	if err := adc.reset(); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}

	return nil
}

// reset sends [ResetMessage] in a frame of its own.
func (adc *ADC) reset() error {
	if err := adc.spi.Begin(); err != nil {
		return err
	}
	_, err := adc.transfer(ResetMessage)
	return adc.end(err)
}

// Config returns the configuration applied by the last [ADC.Initialize].
func (adc *ADC) Config() Config {
	adc.mu.Lock()
	cfg := adc.cfg
	adc.mu.Unlock()
	return cfg
}

// LastMessage returns the last command word sent to the chip.
func (adc *ADC) LastMessage() Message {
	adc.mu.Lock()
	m := adc.message
	adc.mu.Unlock()
	return m
}

// Close releases CS and closes the SerialInterface. Further calls return [ErrClosed].
func (adc *ADC) Close() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if adc.closed {
		return ErrClosed
	}
	adc.closed = true

	err := adc.setCSHigh()
	return errors.Join(err, adc.spi.Close())
}
