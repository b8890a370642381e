package ft232h

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yunginnanet/ft232h"
)

// Descriptor selects which attached FT232H to open: by enumeration index, by
// serial number or by a raw [ft232h.Mask].
type Descriptor struct {
	Index  int
	Serial string
	mask   *ft232h.Mask
}

var ErrBadDescriptor = errors.New("invalid FT232H descriptor provided")

// Validate checks that d selects at least one device attribute.
func (d Descriptor) Validate() error {
	if d.Index >= 0 || d.Serial != "" {
		return nil
	}
	if m := d.mask; m != nil && (m.Serial != "" || m.PID != "" || m.VID != "" || m.Desc != "" || m.Index != "") {
		return nil
	}
	return ErrBadDescriptor
}

// Mask returns the [ft232h.Mask] used to open the device. Index and Serial
// override the matching fields of a mask given to [ByMask].
func (d Descriptor) Mask() *ft232h.Mask {
	m := new(ft232h.Mask)
	if d.mask != nil {
		*m = *d.mask
	}
	if d.Serial != "" {
		m.Serial = d.Serial
	}
	if d.Index >= 0 {
		m.Index = strconv.Itoa(d.Index)
	}
	return m
}

func (d Descriptor) String() string {
	switch {
	case d.Serial != "":
		return "FT232H(serial=" + d.Serial + ")"
	case d.Index >= 0:
		return fmt.Sprintf("FT232H(index=%d)", d.Index)
	default:
		return fmt.Sprintf("FT232H(mask=%+v)", d.mask)
	}
}

// ByIndex selects the device at enumeration index.
func ByIndex(index int) Descriptor {
	return Descriptor{Index: index}
}

// BySerial selects the device with the given serial number.
func BySerial(serial string) Descriptor {
	return Descriptor{Serial: serial, Index: -1}
}

// ByMask selects the device matching mask.
func ByMask(mask *ft232h.Mask) Descriptor {
	return Descriptor{mask: mask, Index: -1}
}
