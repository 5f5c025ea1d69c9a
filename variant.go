// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Variant selects the supported panel model. The set is closed: each
// variant binds a resolution, a color depth, a command table and the
// waveform tables of one controller.
type Variant int

const (
	// EPD1in54 is the 1.54" 200x200 monochrome panel (SSD1681).
	EPD1in54 Variant = iota
	// EPD2in9 is the 2.9" 128x296 monochrome panel (SSD1608).
	EPD2in9
	// EPD2in13 is the 2.13" 122x250 monochrome panel (SSD1675).
	EPD2in13
	// EPD2in9b is the 2.9" B 128x296 black/white/red panel (UC8151).
	EPD2in9b
	// EPD7in5v2 is the 7.5" v2 800x480 monochrome panel (UC8179).
	EPD7in5v2
)

// String implements fmt.Stringer.
func (v Variant) String() string {
	if p := v.panel(); p != nil {
		return p.name
	}
	return fmt.Sprintf("epd.Variant(%d)", int(v))
}

// Set sets the Variant to a value represented by the string s. Set
// implements the flag.Value interface.
func (v *Variant) Set(s string) error {
	for i := range panels {
		if panels[i].name == s {
			*v = Variant(i)
			return nil
		}
	}
	return fmt.Errorf("unknown variant %q: expected one of %v", s, variantNames())
}

func variantNames() []string {
	names := make([]string, len(panels))
	for i := range panels {
		names[i] = panels[i].name
	}
	return names
}

// Size returns the native panel resolution, or zeros for an unknown
// variant.
func (v Variant) Size() (width, height int) {
	p := v.panel()
	if p == nil {
		return 0, 0
	}
	return p.width, p.height
}

// TriColor reports whether the variant renders a third, chromatic
// pigment.
func (v Variant) TriColor() bool {
	p := v.panel()
	return p != nil && p.triColor
}

// RefreshMode selects the waveform used by a display refresh.
type RefreshMode uint8

const (
	// Full redraws the whole panel with the full waveform. It clears
	// ghosting but visibly flashes.
	Full RefreshMode = iota
	// Quick performs a partial (fast) refresh relying on the
	// previously displayed frame. No flash, lower visual quality.
	Quick
)

// String implements fmt.Stringer.
func (m RefreshMode) String() string {
	if m == Quick {
		return "quick"
	}
	return "full"
}

// panel describes the fixed hardware characteristics of a variant.
// These values come from the controller datasheets and the vendor
// reference drivers; they are not configurable.
type panel struct {
	name   string
	width  int
	height int

	triColor bool // second RAM plane for the chromatic pigment
	partial  bool // supports partial refresh
	fastLUT  bool // has a quick waveform usable for full-frame refreshes

	// busyLevel is the level of the busy line while the controller is
	// working. SSD16xx controllers drive it high, UC81xx low.
	busyLevel gpio.Level
	// statusPoll is set for controllers that require a get-status
	// command before each busy line sample (UC81xx).
	statusPoll bool

	speed       physic.Frequency
	resetSettle time.Duration // reset line high before/after the pulse
	resetPulse  time.Duration // reset line low

	pollInterval  time.Duration
	resetBudget   int // busy polls allowed during init
	refreshBudget int // busy polls allowed during a refresh
}

var panels = [...]panel{
	EPD1in54: {
		name:          "EPD1in54",
		width:         200,
		height:        200,
		partial:       true,
		fastLUT:       true,
		busyLevel:     gpio.High,
		speed:         4 * physic.MegaHertz,
		resetSettle:   20 * time.Millisecond,
		resetPulse:    2 * time.Millisecond,
		pollInterval:  10 * time.Millisecond,
		resetBudget:   400,
		refreshBudget: 800,
	},
	EPD2in9: {
		name:          "EPD2in9",
		width:         128,
		height:        296,
		partial:       true,
		fastLUT:       true,
		busyLevel:     gpio.High,
		speed:         4 * physic.MegaHertz,
		resetSettle:   200 * time.Millisecond,
		resetPulse:    10 * time.Millisecond,
		pollInterval:  10 * time.Millisecond,
		resetBudget:   400,
		refreshBudget: 800,
	},
	EPD2in13: {
		name:          "EPD2in13",
		width:         122,
		height:        250,
		partial:       true,
		fastLUT:       true,
		busyLevel:     gpio.High,
		speed:         5 * physic.MegaHertz,
		resetSettle:   200 * time.Millisecond,
		resetPulse:    200 * time.Millisecond,
		pollInterval:  10 * time.Millisecond,
		resetBudget:   400,
		refreshBudget: 800,
	},
	EPD2in9b: {
		name:          "EPD2in9b",
		width:         128,
		height:        296,
		triColor:      true,
		busyLevel:     gpio.Low,
		statusPoll:    true,
		speed:         4 * physic.MegaHertz,
		resetSettle:   50 * time.Millisecond,
		resetPulse:    2 * time.Millisecond,
		pollInterval:  10 * time.Millisecond,
		resetBudget:   400,
		refreshBudget: 3000,
	},
	EPD7in5v2: {
		name:          "EPD7in5v2",
		width:         800,
		height:        480,
		busyLevel:     gpio.Low,
		statusPoll:    true,
		speed:         4 * physic.MegaHertz,
		resetSettle:   20 * time.Millisecond,
		resetPulse:    2 * time.Millisecond,
		pollInterval:  10 * time.Millisecond,
		resetBudget:   400,
		refreshBudget: 4000,
	},
}

// panel returns the hardware description, or nil for an unknown
// variant.
func (v Variant) panel() *panel {
	if v < 0 || int(v) >= len(panels) {
		return nil
	}
	return &panels[v]
}

// newEncoder returns the command encoder for a variant.
func newEncoder(v Variant) encoder {
	switch v {
	case EPD1in54:
		return epd1in54{}
	case EPD2in9:
		return epd2in9{}
	case EPD2in13:
		return epd2in13{}
	case EPD2in9b:
		return epd2in9b{}
	case EPD7in5v2:
		return epd7in5v2{}
	}
	return nil
}
