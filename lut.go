// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

// LUT is a waveform lookup table programming the voltage/timing
// sequence of a refresh. Tables are transmitted verbatim; their
// interpretation lives entirely in the controller hardware.
type LUT []byte

// lutFor returns the waveform table bound to (variant, mode).
//
// With fast set, the quick waveform is used for Full refreshes on
// variants that expose one, trading ghosting removal for speed. A
// variant without a fast alternative silently falls back to its
// default table; the trade-off is optional, not a correctness
// requirement. UC-class controllers keep their waveforms in OTP and
// return nil.
func lutFor(v Variant, mode RefreshMode, fast bool) LUT {
	quick := mode == Quick || (fast && v.panel() != nil && v.panel().fastLUT)
	switch v {
	case EPD1in54:
		if quick {
			return epd1in54QuickLUT
		}
		return epd1in54FullLUT
	case EPD2in9:
		if quick {
			return epd2in9QuickLUT
		}
		return epd2in9FullLUT
	case EPD2in13:
		if quick {
			return epd2in13QuickLUT
		}
		return epd2in13FullLUT
	}
	return nil
}
