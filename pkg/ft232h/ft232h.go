// Package ft232h connects an ADC11131 to a host through an FTDI FT232H in MPSSE SPI mode.
package ft232h

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yunginnanet/ft232h"

	"github.com/yunginnanet/ftdi-adc11131/pkg/adc11131"
)

// DeviceInfo represents a snapshot of the device information for the [FT232H] device.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

// String returns a string representation of the device information.
func (info DeviceInfo) String() string {
	return fmt.Sprintf(
		"DeviceInfo{Index:%d, Serial:%s, Description:%s, ProductID:%s, VendorID:%s, IsOpen:%t, IsHighSpeed:%t}",
		info.Index, info.Serial, info.Description, info.ProductID, info.VendorID, info.IsOpen, info.IsHighSpeed,
	)
}

// FT232H is an FT232H wired to one ADC11131: SCK, MOSI and MISO on the
// MPSSE data pins and chip select on a GPIO pin driven by hand.
type FT232H struct {
	*ft232h.FT232H
	dev mpsse

	bus   sync.Mutex // held between Begin and End
	csPin ft232h.CPin
	csSet bool
	clock uint32

	log zerolog.Logger
}

var _ adc11131.SerialInterface = (*FT232H)(nil)

var ErrCSNotSet = errors.New("CS pin not set")

// Connect opens the FT232H selected by choice, or the first one found when no choice is given.
func Connect(choice ...Descriptor) (ft *FT232H, err error) {
	ft = &FT232H{log: zerolog.Nop()}

	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
	case 1:
		if err = choice[0].Validate(); err != nil {
			return nil, err
		}
		ft.FT232H, err = ft232h.OpenMask(choice[0].Mask())
	default:
		return nil, fmt.Errorf("invalid number of arguments")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open FT232H: %w", err)
	}
	ft.dev = device{FT232H: ft.FT232H, log: &ft.log}
	return ft, nil
}

// SetLogger sets the logger used for pin setup messages.
func (ft *FT232H) SetLogger(l zerolog.Logger) {
	ft.log = l
}

// Info returns a snapshot of the device information for the FT232H device. Read-only.
func (ft *FT232H) Info() DeviceInfo {
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   fmt.Sprintf("%04x", ft.PID()),
		VendorID:    fmt.Sprintf("%04x", ft.VID()),
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

// String returns a string representation of the FT232H device. It includes the vendor ID, product ID, and description.
func (ft *FT232H) String() string {
	info := ft.Info()
	return fmt.Sprintf("FT232H[%s:%s]: %s", info.VendorID, info.ProductID, info.Description)
}
