// Package tinygospi connects an ADC11131 to a microcontroller SPI peripheral
// through the tinygo.org/x/drivers SPI interface.
//
// On a tinygo target, a machine.SPI satisfies [drivers.SPI] and a machine.Pin
// satisfies [Pin]:
//
//	cs := machine.GPIO17
//	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
//	bus := tinygospi.New(machine.SPI0, cs, func(hz uint32) error {
//		return machine.SPI0.Configure(machine.SPIConfig{Frequency: hz, Mode: 3})
//	})
//	adc := adc11131.NewADC11131(bus)
package tinygospi

import (
	"tinygo.org/x/drivers"

	"github.com/yunginnanet/ftdi-adc11131/pkg/adc11131"
)

// Pin is an output pin, e.g. machine.Pin.
type Pin interface {
	Set(high bool)
}

// ConfigureFunc applies a clock to the SPI peripheral in mode 3, MSB first.
type ConfigureFunc func(clockHz uint32) error

// Bus wraps a drivers.SPI with a chip select pin. Firmware runs it from a
// single goroutine so Begin and End do nothing.
type Bus struct {
	spi       drivers.SPI
	cs        Pin
	configure ConfigureFunc
	clock     uint32
}

var _ adc11131.SerialInterface = (*Bus)(nil)

// New creates a Bus. configure may be nil if the firmware has already set up
// the peripheral, in which case Configure only records the clock.
func New(spi drivers.SPI, cs Pin, configure ConfigureFunc) *Bus {
	return &Bus{
		spi:       spi,
		cs:        cs,
		configure: configure,
	}
}

func (b *Bus) Configure(clockHz uint32) error {
	if b.configure != nil {
		if err := b.configure(clockHz); err != nil {
			return err
		}
	}
	b.clock = clockHz
	return nil
}

// Clock returns the clock applied by the last Configure.
func (b *Bus) Clock() uint32 {
	return b.clock
}

func (b *Bus) Begin() error { return nil }
func (b *Bus) End() error   { return nil }

func (b *Bus) SetCS(high bool) error {
	b.cs.Set(high)
	return nil
}

func (b *Bus) Tx(w, r []byte) error {
	return b.spi.Tx(w, r)
}

// Close releases CS. The peripheral belongs to the firmware and stays configured.
func (b *Bus) Close() error {
	b.cs.Set(true)
	return nil
}
