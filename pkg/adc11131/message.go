package adc11131

import "fmt"

// Message is a 16-bit command word, MSB first on the wire.
//
//	[15]    CONFIG    0 = conversion request, 1 = configuration/reset frame
//	[14:11] SCAN      ScanControl
//	[10:7]  CHSEL     channel 0..15
//	[6:5]   RESET     Reset
//	[4:3]   PM        PowerManagement
//	[2]     CHAN_ID   responses carry the channel number in bits 15:12
//	[1]     SWCNV     software conversion start (behavior not confirmed on hardware)
//	[0]     unused
type Message uint16

// ResetMessage is sent once at start-up: config frame, reset registers and FIFO.
const ResetMessage = Message(1<<configShift | uint16(ResetAll)<<resetShift)

// Fields are the unpacked values of a [Message].
type Fields struct {
	Config          bool
	Scan            ScanControl
	Channel         int
	Reset           Reset
	Power           PowerManagement
	ChannelID       bool
	SoftwareConvert bool
}

// DefaultFields is a plain manual read of channel 0 with channel tagging on.
func DefaultFields() Fields {
	return Fields{
		Config:          false,
		Scan:            ScanManual,
		Channel:         0,
		Reset:           ResetNone,
		Power:           PowerNormal,
		ChannelID:       true,
		SoftwareConvert: true,
	}
}

// Build packs f into a Message. The channel is clamped to [0, MaxChannel].
func Build(f Fields) Message {
	var m Message
	return m.
		WithConfig(f.Config).
		WithScan(f.Scan).
		WithChannel(f.Channel).
		WithReset(f.Reset).
		WithPower(f.Power).
		WithChannelID(f.ChannelID).
		WithSoftwareConvert(f.SoftwareConvert)
}

// NewMessage returns the default read command for channel.
func NewMessage(channel int) Message {
	return Build(DefaultFields()).WithChannel(channel)
}

// MessageFromRaw wraps a raw word without touching any bits.
func MessageFromRaw(raw uint16) Message {
	return Message(raw)
}

// ClampChannel saturates ch into [0, MaxChannel]; the chip only has four channel select bits.
func ClampChannel(ch int) uint8 {
	switch {
	case ch < 0:
		return 0
	case ch > MaxChannel:
		return MaxChannel
	default:
		return uint8(ch)
	}
}

func boolBit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func (m Message) with(mask uint16, val uint16, shift uint) Message {
	raw := uint16(m) &^ mask
	raw |= (val << shift) & mask
	return Message(raw)
}

func (m Message) WithConfig(val bool) Message {
	return m.with(configMask, boolBit(val), configShift)
}

func (m Message) WithScan(val ScanControl) Message {
	return m.with(scanMask, uint16(val), scanShift)
}

// WithChannel replaces the channel field. Out of range channels saturate instead of failing.
func (m Message) WithChannel(ch int) Message {
	return m.with(channelMask, uint16(ClampChannel(ch)), channelShift)
}

func (m Message) WithReset(val Reset) Message {
	return m.with(resetMask, uint16(val), resetShift)
}

func (m Message) WithPower(val PowerManagement) Message {
	return m.with(powerMask, uint16(val), powerShift)
}

func (m Message) WithChannelID(val bool) Message {
	return m.with(chanIDMask, boolBit(val), chanIDShift)
}

func (m Message) WithSoftwareConvert(val bool) Message {
	return m.with(swcnvMask, boolBit(val), swcnvShift)
}

func (m Message) Config() bool {
	return uint16(m)&configMask != 0
}

func (m Message) Scan() ScanControl {
	return ScanControl((uint16(m) & scanMask) >> scanShift)
}

func (m Message) Channel() uint8 {
	return uint8((uint16(m) & channelMask) >> channelShift)
}

func (m Message) Reset() Reset {
	return Reset((uint16(m) & resetMask) >> resetShift)
}

func (m Message) Power() PowerManagement {
	return PowerManagement((uint16(m) & powerMask) >> powerShift)
}

func (m Message) ChannelID() bool {
	return uint16(m)&chanIDMask != 0
}

func (m Message) SoftwareConvert() bool {
	return uint16(m)&swcnvMask != 0
}

// Fields unpacks m.
func (m Message) Fields() Fields {
	return Fields{
		Config:          m.Config(),
		Scan:            m.Scan(),
		Channel:         int(m.Channel()),
		Reset:           m.Reset(),
		Power:           m.Power(),
		ChannelID:       m.ChannelID(),
		SoftwareConvert: m.SoftwareConvert(),
	}
}

// Raw returns the wire value.
func (m Message) Raw() uint16 {
	return uint16(m)
}

// Bytes returns the wire value high byte first.
func (m Message) Bytes() [2]byte {
	return [2]byte{byte(uint16(m) >> 8), byte(uint16(m))}
}

func (m Message) String() string {
	return fmt.Sprintf(
		"Message{0x%04X Config:%t Scan:%s Channel:%d Reset:%s Power:%s ChanID:%t SWCnv:%t}",
		uint16(m), m.Config(), m.Scan(), m.Channel(), m.Reset(), m.Power(), m.ChannelID(), m.SoftwareConvert(),
	)
}
