package ft232h

import (
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yunginnanet/ft232h"

	"github.com/yunginnanet/ftdi-adc11131/pkg/adc11131"
)

// fakeMPSSE answers every frame with the channel requested by the previous
// one, tagged, carrying 0x100+channel.
type fakeMPSSE struct {
	pins   map[ft232h.CPin]bool
	config spiOption
	last   uint8
	swaps  int
	short  bool
	closed bool
	errCfg error
}

func newFakeMPSSE() *fakeMPSSE {
	return &fakeMPSSE{pins: make(map[ft232h.CPin]bool)}
}

func (f *fakeMPSSE) configPin(pin ft232h.CPin, high bool) error {
	f.pins[pin] = high
	return nil
}

func (f *fakeMPSSE) setPin(pin ft232h.CPin, high bool) error {
	f.pins[pin] = high
	return nil
}

func (f *fakeMPSSE) configSPI(opt spiOption) error {
	if f.errCfg != nil {
		return f.errCfg
	}
	f.config = opt
	return nil
}

func (f *fakeMPSSE) swap(w []byte) ([]byte, error) {
	f.swaps++
	resp := adc11131.BuildResponse(f.last, 0x100+uint16(f.last)).Raw()
	f.last = adc11131.MessageFromRaw(adc11131.ComposeWord(w[0], w[1])).Channel()
	if f.short {
		return []byte{byte(resp >> 8)}, nil
	}
	return []byte{byte(resp >> 8), byte(resp)}, nil
}

func (f *fakeMPSSE) close() error {
	if f.closed {
		return errors.New("already closed")
	}
	f.closed = true
	return nil
}

func newFakeFT232H(t *testing.T, cs uint) (*FT232H, *fakeMPSSE) {
	t.Helper()
	dev := newFakeMPSSE()
	ft := &FT232H{dev: dev, log: zerolog.Nop()}
	if err := ft.SetCSPin(cs); err != nil {
		t.Fatalf("failed to set CS pin: %v", err)
	}
	return ft, dev
}

func TestMPSSE(t *testing.T) {
	const cs = 0x10

	t.Run("SetCSPin", func(t *testing.T) {
		ft, dev := newFakeFT232H(t, cs)
		if !dev.pins[ft.CSPin()] {
			t.Error("CS pin not configured high")
		}
		if err := ft.SetCS(false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dev.pins[ft.CSPin()] {
			t.Error("CS pin still high")
		}
	})

	t.Run("Configure", func(t *testing.T) {
		ft, dev := newFakeFT232H(t, cs)
		if err := ft.Configure(adc11131.Clock10MHz); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dev.config.Mode3 || dev.config.Clock != adc11131.Clock10MHz {
			t.Errorf("unexpected SPI config: %+v", dev.config)
		}
		if ft.Clock() != adc11131.Clock10MHz {
			t.Errorf("expected clock %d, got %d", adc11131.Clock10MHz, ft.Clock())
		}

		t.Run("Error", func(t *testing.T) {
			dev.errCfg = errors.New("bad clock")
			if err := ft.Configure(adc11131.Clock29MHz); !errors.Is(err, dev.errCfg) {
				t.Errorf("expected configure error, got %v", err)
			}
			if ft.Clock() != adc11131.Clock10MHz {
				t.Errorf("clock changed on failure: %d", ft.Clock())
			}
		})
	})

	t.Run("Tx", func(t *testing.T) {
		ft, dev := newFakeFT232H(t, cs)
		dev.last = 7
		w := adc11131.NewMessage(2).Bytes()
		r := make([]byte, 2)
		if err := ft.Tx(w[:], r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp := adc11131.ResponseFromBytes(r[0], r[1])
		if resp.Channel() != 7 || resp.Payload() != 0x107 {
			t.Errorf("unexpected response %s", resp)
		}
		if dev.last != 2 {
			t.Errorf("expected request for channel 2, got %d", dev.last)
		}

		t.Run("Short", func(t *testing.T) {
			dev.short = true
			if err := ft.Tx(w[:], r); !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
			}
		})
	})

	t.Run("BeginEnd", func(t *testing.T) {
		ft, _ := newFakeFT232H(t, cs)
		if err := ft.Begin(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ft.bus.TryLock() {
			t.Fatal("bus not held between Begin and End")
		}
		if err := ft.End(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ft.bus.TryLock() {
			t.Fatal("bus still held after End")
		}
		ft.bus.Unlock()
	})

	t.Run("WithADC", func(t *testing.T) {
		ft, dev := newFakeFT232H(t, cs)
		adc := adc11131.NewADC11131(ft)

		if err := adc.Initialize(adc11131.DefaultConfig()); err != nil {
			t.Fatalf("failed to initialize: %v", err)
		}
		if dev.config.Clock != adc11131.Clock1MHz {
			t.Errorf("expected clock %d, got %d", adc11131.Clock1MHz, dev.config.Clock)
		}

		v, err := adc.ReadChannel(3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 0x103 {
			t.Errorf("expected 0x103, got 0x%03X", v)
		}
		if dev.swaps != 3 {
			t.Errorf("expected 3 frames, got %d", dev.swaps)
		}

		dev.short = true
		if _, err = adc.ReadChannel(4); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
		}
		if !dev.pins[ft.CSPin()] {
			t.Error("CS left low after a failed transfer")
		}

		if err = adc.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}
		if !dev.closed {
			t.Error("device not closed")
		}
		if !dev.pins[ft.CSPin()] {
			t.Error("CS left low after Close")
		}
	})
}
