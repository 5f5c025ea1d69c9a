// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epdimage

import (
	"fmt"
	"image/color"
)

// Color is a pixel color as understood by e-paper panels.
//
// Monochrome panels render White and Black; black/white/red panels
// additionally render Chromatic, the panel's third pigment (red or
// yellow depending on the panel).
type Color uint8

const (
	// White is the blank panel color and the default background.
	White Color = iota
	// Black is the dark pigment.
	Black
	// Chromatic is the third pigment of a tri-color panel.
	Chromatic
)

// RGBA implements color.Color. Chromatic is reported as red, the most
// common third pigment.
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c {
	case Black:
		return 0, 0, 0, 0xFFFF
	case Chromatic:
		return 0xFFFF, 0, 0, 0xFFFF
	default:
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
}

// String implements fmt.Stringer.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	case Chromatic:
		return "chromatic"
	}
	return fmt.Sprintf("epdimage.Color(%d)", uint8(c))
}

// Set sets the Color to a value represented by the string s. Set
// implements the flag.Value interface.
func (c *Color) Set(s string) error {
	switch s {
	case "white":
		*c = White
	case "black":
		*c = Black
	case "chromatic", "red", "yellow":
		*c = Chromatic
	default:
		return fmt.Errorf("unknown color %q: expected white, black or chromatic", s)
	}
	return nil
}

// BWModel maps arbitrary colors to White or Black by luminance.
var BWModel color.Model = color.ModelFunc(toBW)

// BWRModel maps arbitrary colors to White, Black or Chromatic. Colors
// whose red channel clearly dominates are mapped to Chromatic, anything
// else to White or Black by luminance.
var BWRModel color.Model = color.ModelFunc(toBWR)

func toBW(c color.Color) color.Color {
	if e, ok := c.(Color); ok {
		if e == Chromatic {
			return Black
		}
		return e
	}
	r, g, b, _ := c.RGBA()
	if luminance(r, g, b) >= 0x8000 {
		return White
	}
	return Black
}

func toBWR(c color.Color) color.Color {
	if e, ok := c.(Color); ok {
		return e
	}
	r, g, b, _ := c.RGBA()
	if r >= 0x8000 && r/2 >= g && r/2 >= b {
		return Chromatic
	}
	if luminance(r, g, b) >= 0x8000 {
		return White
	}
	return Black
}

// luminance computes the ITU-R BT.601 weighted sum of 16 bit channels.
func luminance(r, g, b uint32) uint32 {
	return uint32((299*uint64(r) + 587*uint64(g) + 114*uint64(b)) / 1000)
}
