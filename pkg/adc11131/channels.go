package adc11131

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// maxScanErrors stops a ChannelScan once this many sweeps have failed.
const maxScanErrors = 50

// DataCallback receives every sweep of a [ChannelScan]. readings has one slot per
// channel; ok is false when at least one slot failed its tag check and was zeroed.
type DataCallback func(readings []uint16, ok bool)

// ChannelScan tracks a sweep loop started by [ADC.ScanContinuously].
type ChannelScan struct {
	interval time.Duration
	size     int
	done     *atomic.Bool
	running  *atomic.Bool
	finished chan struct{}
	callback DataCallback
	err      []error
	errMu    sync.Mutex
}

func NewChannelScan(interval time.Duration, size int, onData DataCallback) *ChannelScan {
	return &ChannelScan{
		interval: interval,
		size:     size,
		done:     &atomic.Bool{},
		running:  &atomic.Bool{},
		finished: make(chan struct{}),
		callback: onData,
		err:      make([]error, 0),
	}
}

// Interval is the time between the start of two sweeps.
func (cs *ChannelScan) Interval() time.Duration {
	return cs.interval
}

// Size is the number of channels read per sweep.
func (cs *ChannelScan) Size() int {
	return cs.size
}

func (cs *ChannelScan) addErr(err error) {
	if err == nil {
		return
	}
	cs.errMu.Lock()
	cs.err = append(cs.err, err)
	if len(cs.err) >= maxScanErrors {
		cs.done.Store(true)
	}
	cs.errMu.Unlock()
}

func (cs *ChannelScan) Err() error {
	cs.errMu.Lock()
	defer cs.errMu.Unlock()
	if len(cs.err) == 0 {
		return nil
	}
	return fmt.Errorf("channel scan errors: %w", errors.Join(cs.err...))
}

func (cs *ChannelScan) Stop() {
	cs.done.Store(true)
}

func (cs *ChannelScan) IsDone() bool {
	return cs.done.Load()
}

func (cs *ChannelScan) IsRunning() bool {
	return cs.running.Load()
}

// Wait blocks until the scan goroutine has exited or ctx is done.
func (cs *ChannelScan) Wait(ctx context.Context) error {
	select {
	case <-cs.finished:
		return cs.Err()
	case <-ctx.Done():
		return errors.Join(ctx.Err(), cs.Err())
	}
}

// ScanContinuously runs [ADC.ReadAll] every scanInterval on its own goroutine
// and hands each sweep to onData. Each sweep holds the handle for its whole
// duration, so direct reads from other goroutines wait for it to finish.
//
// The scan ends when ctx is canceled, Stop is called, the handle is closed or
// too many sweeps fail on the bus.
func (adc *ADC) ScanContinuously(
	ctx context.Context,
	scanInterval time.Duration,
	size int,
	onData DataCallback,
) (*ChannelScan, error) {
	if onData == nil {
		return nil, errors.New("no data callback")
	}
	if scanInterval <= 0 {
		return nil, fmt.Errorf("invalid scan interval %s", scanInterval)
	}

	adc.mu.Lock()
	closed := adc.closed
	adc.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	chScan := NewChannelScan(scanInterval, size, onData)
	chScan.running.Store(true)

	go func() {
		defer func() {
			chScan.running.Store(false)
			close(chScan.finished)
		}()

		ticker := time.NewTicker(chScan.interval)
		defer ticker.Stop()

		for {
			if chScan.done.Load() {
				return
			}

			readings, ok, err := adc.ReadAll(chScan.size)
			switch {
			case errors.Is(err, ErrClosed):
				chScan.addErr(err)
				chScan.Stop()
				return
			case err != nil:
				chScan.addErr(err)
			default:
				chScan.callback(readings, ok)
			}

			select {
			case <-ctx.Done():
				chScan.Stop()
				return
			case <-ticker.C:
			}
		}
	}()

	return chScan, nil
}
