package adc11131

import "time"

// Constants from the datasheet

// Command word bit layout.
const (
	configShift  = 15
	scanShift    = 11
	channelShift = 7
	resetShift   = 5
	powerShift   = 3
	chanIDShift  = 2
	swcnvShift   = 1

	configMask  = 0x8000 // bit 15
	scanMask    = 0x7800 // bits 14:11
	channelMask = 0x0780 // bits 10:7
	resetMask   = 0x0060 // bits 6:5
	powerMask   = 0x0018 // bits 4:3
	chanIDMask  = 0x0004 // bit 2
	swcnvMask   = 0x0002 // bit 1
)

// Response word bit layout.
const (
	responseChannelShift = 12
	responseChannelMask  = 0xF000
	responsePayloadMask  = 0x0FFF
)

const (
	// MaxChannels is the number of analog inputs (AIN0..AIN15).
	MaxChannels = 16
	// MaxChannel is the highest addressable channel.
	MaxChannel = MaxChannels - 1
	// MaxCode is the largest 12-bit conversion result.
	MaxCode = 0x0FFF
)

// SettleTime is the minimum idle time between releasing CS and asserting it again.
const SettleTime = 5 * time.Microsecond

// Bus clocks seen on real boards. None of them is applied unless the caller picks it.
const (
	Clock1MHz  uint32 = 1000000
	Clock10MHz uint32 = 10000000
	Clock29MHz uint32 = 29000000
)

// ScanControl selects the on-chip channel sequencing (ADC Mode Control SCAN[3:0]).
type ScanControl uint8

const (
	ScanNone           ScanControl = 0x0 // (0000b) -- keep previous mode
	ScanManual         ScanControl = 0x1 // (0001b)
	ScanRepeat         ScanControl = 0x2 // (0010b)
	ScanStdInternal    ScanControl = 0x3 // (0011b)
	ScanStdExternal    ScanControl = 0x4 // (0100b)
	ScanUpperInternal  ScanControl = 0x5 // (0101b)
	ScanUpperExternal  ScanControl = 0x6 // (0110b)
	ScanCustomInternal ScanControl = 0x7 // (0111b)
	ScanCustomExternal ScanControl = 0x8 // (1000b)
)

func (s ScanControl) String() string {
	switch s {
	case ScanNone:
		return "SCAN_NONE"
	case ScanManual:
		return "SCAN_MANUAL"
	case ScanRepeat:
		return "SCAN_REPEAT"
	case ScanStdInternal:
		return "SCAN_STD_INT"
	case ScanStdExternal:
		return "SCAN_STD_EXT"
	case ScanUpperInternal:
		return "SCAN_UPPER_INT"
	case ScanUpperExternal:
		return "SCAN_UPPER_EXT"
	case ScanCustomInternal:
		return "SCAN_CUSTOM_INT"
	case ScanCustomExternal:
		return "SCAN_CUSTOM_EXT"
	default:
		return "(invalid scan control)"
	}
}

// Reset selects what a command resets.
type Reset uint8

const (
	ResetNone Reset = 0x0 // (00b)
	ResetFIFO Reset = 0x1 // (01b)
	ResetAll  Reset = 0x2 // (10b) -- registers and FIFO
)

func (r Reset) String() string {
	switch r {
	case ResetNone:
		return "RESET_NONE"
	case ResetFIFO:
		return "RESET_FIFO"
	case ResetAll:
		return "RESET_ALL"
	default:
		return "(invalid reset)"
	}
}

// PowerManagement selects the power policy between conversions.
type PowerManagement uint8

const (
	PowerNormal       PowerManagement = 0x0 // (00b)
	PowerAutoShutdown PowerManagement = 0x1 // (01b)
	PowerAutoStandby  PowerManagement = 0x2 // (10b)
)

func (p PowerManagement) String() string {
	switch p {
	case PowerNormal:
		return "PM_NORMAL"
	case PowerAutoShutdown:
		return "PM_AUTO_SHUTDOWN"
	case PowerAutoStandby:
		return "PM_AUTO_STANDBY"
	default:
		return "(invalid power management)"
	}
}
