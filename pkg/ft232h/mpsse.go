package ft232h

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/yunginnanet/ft232h"
)

// SPI mode 3: clock idles high, data sampled on the rising edge.
const spiMode3 = 0x00000003

// spiOption is the subset of the MPSSE SPI configuration this package changes.
type spiOption struct {
	Clock uint32
	Mode3 bool
}

// mpsse is the part of the ft232h library the backend drives.
type mpsse interface {
	configPin(pin ft232h.CPin, high bool) error
	setPin(pin ft232h.CPin, high bool) error
	configSPI(opt spiOption) error
	swap(w []byte) ([]byte, error)
	close() error
}

// device drives a real FT232H through libMPSSE.
type device struct {
	*ft232h.FT232H
	log *zerolog.Logger
}

func (d device) configPin(pin ft232h.CPin, high bool) error {
	return d.GPIO.ConfigPin(pin, ft232h.Output, high)
}

func (d device) setPin(pin ft232h.CPin, high bool) error {
	return d.GPIO.Set(pin, high)
}

func (d device) configSPI(opt spiOption) error {
	spiCfg := d.SPI.GetConfig()
	spiCfg.Clock = opt.Clock
	if opt.Mode3 {
		spiCfg.Mode = spiMode3
	}
	d.log.Debug().Any("config", spiCfg).Msg("configuring SPI")
	return d.SPI.Config(spiCfg)
}

// swap is full duplex. start and stop stay false: CS is a GPIO driven by SetCS.
func (d device) swap(w []byte) ([]byte, error) {
	return d.SPI.Swap(w, false, false)
}

func (d device) close() error {
	return errors.Join(d.SPI.Close(), d.FT232H.Close())
}
