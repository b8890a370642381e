package adc11131

import (
	"errors"
	"time"

	"github.com/l0nax/go-spew/spew"
)

var pprint = spew.ConfigState{
	Indent:                  "\t",
	MaxDepth:                0,
	DisableMethods:          false,
	DisablePointerMethods:   false,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	ContinueOnMethod:        true,
	SortKeys:                true,
	SpewKeys:                true,
	HighlightValues:         false,
	HighlightHex:            false,
}

var errBus = errors.New("bus stuck")

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

type csEvent struct {
	High bool
	At   time.Time
}

// simChip is a SerialInterface that behaves like the chip: every frame clocks
// out the answer to the previous command.
type simChip struct {
	clock *fakeClock
	codes [MaxChannels]uint16

	out     Response
	queue   []uint8
	drained bool // a scan just ended, the next scan frame idles

	Frames     []Message
	Sent       []Response
	CSEvents   []csEvent
	Begins     int
	Ends       int
	Configured uint32
	Closed     bool

	csHigh bool
	// mangle overrides the tag clocked out on the given frame index.
	mangle map[int]uint8
	// failAt makes Tx fail on the given frame index; -1 disables it.
	failAt int
}

func newSimChip(clock *fakeClock) *simChip {
	chip := &simChip{
		clock:  clock,
		mangle: make(map[int]uint8),
		failAt: -1,
		csHigh: true,
	}
	for i := range chip.codes {
		chip.codes[i] = uint16(0x100*i + 0x23)
	}
	return chip
}

func (s *simChip) Configure(clockHz uint32) error {
	s.Configured = clockHz
	return nil
}

func (s *simChip) Begin() error {
	s.Begins++
	return nil
}

func (s *simChip) End() error {
	s.Ends++
	return nil
}

func (s *simChip) SetCS(high bool) error {
	s.csHigh = high
	s.CSEvents = append(s.CSEvents, csEvent{High: high, At: s.clock.Now()})
	return nil
}

func (s *simChip) Tx(w, r []byte) error {
	idx := len(s.Frames)
	cmd := MessageFromRaw(ComposeWord(w[0], w[1]))
	s.Frames = append(s.Frames, cmd)

	// 16 clocks at 1 MHz
	s.clock.Sleep(16 * time.Microsecond)

	if idx == s.failAt {
		return errBus
	}

	out := s.out
	if tag, ok := s.mangle[idx]; ok {
		out = BuildResponse(tag, out.Payload())
	}
	r[0], r[1] = byte(out>>8), byte(out)
	s.Sent = append(s.Sent, out)

	s.next(cmd)
	return nil
}

func (s *simChip) next(cmd Message) {
	switch {
	case cmd.Config():
		s.queue, s.drained = nil, false
		s.out = 0
	case cmd.Scan() == ScanStdInternal:
		if s.drained {
			s.drained = false
			s.out = 0
			return
		}
		if len(s.queue) == 0 {
			for ch := uint8(0); ch <= cmd.Channel(); ch++ {
				s.queue = append(s.queue, ch)
			}
		}
		ch := s.queue[0]
		s.queue = s.queue[1:]
		s.drained = len(s.queue) == 0
		s.out = s.result(ch, cmd)
	default:
		s.queue, s.drained = nil, false
		s.out = s.result(cmd.Channel(), cmd)
	}
}

func (s *simChip) result(ch uint8, cmd Message) Response {
	if !cmd.ChannelID() {
		return BuildResponse(0, s.codes[ch])
	}
	return BuildResponse(ch, s.codes[ch])
}

func (s *simChip) Close() error {
	s.Closed = true
	return nil
}
