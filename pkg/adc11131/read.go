package adc11131

// ReadChannel reads a single channel using two frames carrying the same command.
// The first frame primes the chip, the second one returns the result. If the
// answer is tagged with another channel the reading is stale and 0 is returned.
func (adc *ADC) ReadChannel(channel int) (uint16, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if adc.closed {
		return 0, ErrClosed
	}

	if err := adc.spi.Begin(); err != nil {
		return 0, err
	}

	msg := NewMessage(channel)

	if _, err := adc.transfer(msg); err != nil {
		return 0, adc.end(err)
	}

	resp, err := adc.transfer(msg)
	if err = adc.end(err); err != nil {
		return 0, err
	}

	if resp.Channel() != msg.Channel() {
		return 0, nil
	}
	return resp.Payload(), nil
}

// ReadRange reads count consecutive channels beginning at start in count+1 frames.
//
// Frame k requests channel start+k+1 while harvesting the result of channel
// start+k. Requests wrap around past [MaxChannel]; each result slot is checked
// on its own and set to 0 unless its tag equals start+i exactly.
func (adc *ADC) ReadRange(start, count int) ([]uint16, error) {
	if count <= 0 {
		return []uint16{}, nil
	}

	adc.mu.Lock()
	defer adc.mu.Unlock()

	if adc.closed {
		return nil, ErrClosed
	}

	start = int(ClampChannel(start))
	buf := make([]uint16, count)

	if err := adc.spi.Begin(); err != nil {
		return nil, err
	}

	// first frame primes the sequence
	msg := NewMessage(start)
	if _, err := adc.transfer(msg); err != nil {
		return nil, adc.end(err)
	}

	for i := 0; i < count; i++ {
		msg = msg.WithChannel((start + i + 1) % MaxChannels)

		resp, err := adc.transfer(msg)
		if err != nil {
			return nil, adc.end(err)
		}

		if int(resp.Channel()) == start+i {
			buf[i] = resp.Payload()
		}
	}

	if err := adc.end(nil); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadAll sweeps channels 0..size-1 with the chip's standard internal scan.
//
// One frame requests the last channel and starts the scan, then size frames
// repeat that command while the chip walks the channels on its own. Slots whose
// tag does not match their index are zeroed and ok is false if any slot failed.
// size is clamped to [1, MaxChannels].
func (adc *ADC) ReadAll(size int) (readings []uint16, ok bool, err error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if adc.closed {
		return nil, false, ErrClosed
	}

	last := ClampChannel(size - 1)
	n := int(last) + 1

	if err = adc.spi.Begin(); err != nil {
		return nil, false, err
	}

	msg := NewMessage(int(last)).WithScan(ScanStdInternal)
	if _, err = adc.transfer(msg); err != nil {
		return nil, false, adc.end(err)
	}

	resps := make([]Response, n)
	for i := range resps {
		if resps[i], err = adc.transfer(msg); err != nil {
			return nil, false, adc.end(err)
		}
	}

	if err = adc.end(nil); err != nil {
		return nil, false, err
	}

	readings = make([]uint16, n)
	ok = true
	for i, resp := range resps {
		if int(resp.Channel()) != i {
			ok = false
			continue
		}
		readings[i] = resp.Payload()
	}

	return readings, ok, nil
}

// ReadAllChannels is ReadAll(MaxChannels).
func (adc *ADC) ReadAllChannels() ([]uint16, bool, error) {
	return adc.ReadAll(MaxChannels)
}
