// Package periphspi connects an ADC11131 through a periph.io SPI port (e.g.
// Linux spidev) with chip select on a separate GPIO line.
package periphspi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"

	"github.com/yunginnanet/ftdi-adc11131/pkg/adc11131"
)

var (
	ErrNotConfigured = errors.New("periphspi: bus not configured")
	ErrNoCSPin       = errors.New("periphspi: CS pin not found")
)

// Bus drives an SPI port in mode 3 with the port's own chip select disabled;
// CS is toggled by hand on a GPIO pin so one frame maps to one CS pulse.
type Bus struct {
	mu   sync.Mutex // held between Begin and End
	port spi.PortCloser
	conn spi.Conn
	cs   gpio.PinOut

	clock physic.Frequency
	log   zerolog.Logger
}

var _ adc11131.SerialInterface = (*Bus)(nil)

// New wraps an already opened port and CS pin.
func New(port spi.PortCloser, cs gpio.PinOut) (*Bus, error) {
	if port == nil {
		return nil, errors.New("periphspi: nil SPI port")
	}
	if cs == nil || cs == gpio.INVALID {
		return nil, ErrNoCSPin
	}
	return &Bus{port: port, cs: cs, log: zerolog.Nop()}, nil
}

// Open initializes the host drivers and opens the SPI port and CS pin by name,
// e.g. Open("/dev/spidev0.0", "GPIO8"). An empty port name picks the first port.
func Open(portName, csName string) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periphspi: failed to initialize host: %w", err)
	}

	cs := gpioreg.ByName(csName)
	if cs == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoCSPin, csName)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("periphspi: failed to open %q: %w", portName, err)
	}

	return New(port, cs)
}

// SetLogger sets the logger used for bus setup messages.
func (b *Bus) SetLogger(l zerolog.Logger) {
	b.log = l
}

// Configure connects the port at clockHz on the first call and lowers the
// port's speed limit on later calls; periph ports can only be connected once.
func (b *Bus) Configure(clockHz uint32) error {
	f := physic.Frequency(clockHz) * physic.Hertz

	if b.conn != nil {
		if err := b.port.LimitSpeed(f); err != nil {
			return fmt.Errorf("periphspi: failed to limit speed to %s: %w", f, err)
		}
		b.clock = f
		return nil
	}

	c, err := b.port.Connect(f, spi.Mode3|spi.NoCS, 8)
	if err != nil {
		return fmt.Errorf("periphspi: failed to connect at %s: %w", f, err)
	}
	b.conn = c
	b.clock = f

	b.log.Debug().Str("port", b.port.String()).Str("cs", b.cs.String()).
		Str("clock", f.String()).Msg("connected")
	return nil
}

// Clock returns the clock applied by the last Configure.
func (b *Bus) Clock() physic.Frequency {
	return b.clock
}

func (b *Bus) Begin() error {
	b.mu.Lock()
	return nil
}

func (b *Bus) End() error {
	b.mu.Unlock()
	return nil
}

func (b *Bus) SetCS(high bool) error {
	return b.cs.Out(gpio.Level(high))
}

func (b *Bus) Tx(w, r []byte) error {
	if b.conn == nil {
		return ErrNotConfigured
	}
	return b.conn.Tx(w, r)
}

func (b *Bus) Close() error {
	return b.port.Close()
}
