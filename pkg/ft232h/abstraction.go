package ft232h

import (
	"fmt"
	"io"

	"github.com/yunginnanet/ft232h"
)

// SetCSPin configures pin as the chip select output and releases it.
func (ft *FT232H) SetCSPin(pin uint) error {
	ft.csPin = ft232h.CPin(pin)
	ft.log.Debug().Str("pin", ft.csPin.String()).Uint("pos", uint(ft.csPin.Pos())).Msg("cs set")
	if err := ft.dev.configPin(ft.csPin, true); err != nil {
		return fmt.Errorf("failed to configure CS pin: %w", err)
	}
	ft.csSet = true
	return nil
}

func (ft *FT232H) CSPin() ft232h.CPin {
	return ft.csPin
}

func (ft *FT232H) SetCS(high bool) error {
	if !ft.csSet {
		return ErrCSNotSet
	}
	return ft.dev.setPin(ft.csPin, high)
}

// Configure applies clockHz to the MPSSE SPI engine in mode 3, MSB first.
func (ft *FT232H) Configure(clockHz uint32) error {
	if err := ft.dev.configSPI(spiOption{Clock: clockHz, Mode3: true}); err != nil {
		return fmt.Errorf("failed to configure SPI: %w", err)
	}
	ft.clock = clockHz
	return nil
}

// Clock returns the last clock applied by Configure.
func (ft *FT232H) Clock() uint32 {
	return ft.clock
}

func (ft *FT232H) Begin() error {
	ft.bus.Lock()
	return nil
}

func (ft *FT232H) End() error {
	ft.bus.Unlock()
	return nil
}

// Tx clocks w out while clocking the same number of bytes into r.
// CS is left alone, the caller frames the transfer with SetCS.
func (ft *FT232H) Tx(w, r []byte) error {
	got, err := ft.dev.swap(w)
	if err != nil {
		return err
	}
	if len(got) < len(r) {
		return fmt.Errorf("%w: expected %d bytes, got %d", io.ErrUnexpectedEOF, len(r), len(got))
	}
	copy(r, got)
	return nil
}

func (ft *FT232H) Close() error {
	return ft.dev.close()
}
