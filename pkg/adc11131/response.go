package adc11131

import "fmt"

// Response is a 16-bit word clocked out of the chip during a transfer.
// Bits 15:12 hold the channel the result belongs to (only when CHAN_ID was set
// on the previous command), bits 11:0 hold the conversion result.
type Response uint16

// ComposeWord joins two bytes received MSB first into one word.
func ComposeWord(high, low byte) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// ResponseFromBytes builds a Response from the two bytes of a transfer.
func ResponseFromBytes(high, low byte) Response {
	return Response(ComposeWord(high, low))
}

// BuildResponse packs a channel tag and a 12-bit payload the way the chip does.
// Both are truncated to their field widths.
func BuildResponse(channel uint8, payload uint16) Response {
	return Response(uint16(channel&0x0F)<<responseChannelShift | payload&responsePayloadMask)
}

// Channel returns the responding channel tag.
func (r Response) Channel() uint8 {
	return uint8((uint16(r) & responseChannelMask) >> responseChannelShift)
}

// Payload returns the 12-bit conversion result.
func (r Response) Payload() uint16 {
	return uint16(r) & responsePayloadMask
}

func (r Response) Raw() uint16 {
	return uint16(r)
}

func (r Response) String() string {
	return fmt.Sprintf("Response{0x%04X Channel:%d Payload:%d}", uint16(r), r.Channel(), r.Payload())
}
