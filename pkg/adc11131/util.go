package adc11131

// CodeToVolts converts an unsigned 12-bit single-ended code to a voltage.
// 0 => 0 V and [MaxCode] => vRef.
func CodeToVolts(code uint16, vRef float64) float64 {
	if code > MaxCode {
		code = MaxCode
	}
	return float64(code) / float64(MaxCode) * vRef
}
