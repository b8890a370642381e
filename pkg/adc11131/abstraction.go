package adc11131

import (
	"errors"
	"fmt"
)

// setCSLow asserts CS, first waiting out whatever is left of [SettleTime] since the last release.
func (adc *ADC) setCSLow() error {
	if !adc.released.IsZero() {
		if wait := SettleTime - adc.clock.Now().Sub(adc.released); wait > 0 {
			adc.clock.Sleep(wait)
		}
	}
	return adc.spi.SetCS(false)
}

func (adc *ADC) setCSHigh() error {
	err := adc.spi.SetCS(true)
	adc.released = adc.clock.Now()
	return err
}

func (adc *ADC) end(err error) error {
	return errors.Join(err, adc.spi.End())
}

// transfer clocks msg out in a single CS frame and returns the word clocked in,
// which answers the command of the previous frame.
func (adc *ADC) transfer(msg Message) (Response, error) {
	if err := adc.setCSLow(); err != nil {
		return 0, errors.Join(fmt.Errorf("failed to assert CS: %w", err), adc.setCSHigh())
	}

	w, r := get2Bytes(), get2Bytes()
	defer func() {
		put2Bytes(w)
		put2Bytes(r)
	}()

	b := msg.Bytes()
	copy(w, b[:])

	if err := adc.spi.Tx(w, r); err != nil {
		return 0, errors.Join(fmt.Errorf("failed to transfer 0x%04X: %w", msg.Raw(), err), adc.setCSHigh())
	}
	adc.message = msg

	return ResponseFromBytes(r[0], r[1]), adc.setCSHigh()
}
