// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epdimage provides the packed in-memory image format used by
// e-paper display controllers.
//
// Pixels are stored row-major with MSB-first bit packing: the most
// significant bit of each byte is the leftmost of its eight pixels. A
// monochrome image holds one bit plane (bit set = white); a tri-color
// image holds a second plane for the chromatic pigment. This matches
// the RAM layout the controllers expect, so planes can be transferred
// verbatim.
//
// An Image implements draw.Image, which makes it a drawing target for
// the standard library and for 2-D libraries such as fogleman/gg (via
// an intermediate RGBA context and draw.Draw).
package epdimage

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrOutOfBounds is returned when a pixel coordinate lies outside the
// panel bounds.
var ErrOutOfBounds = errors.New("epdimage: point outside panel bounds")

// ErrInvalidWindow is returned when a window is not byte-aligned on the
// x axis or does not fit the panel.
var ErrInvalidWindow = errors.New("epdimage: window not byte-aligned or outside panel bounds")

// Rotation is the orientation applied to pixel coordinates. The panel
// memory layout is unaffected; only the coordinate transform changes.
type Rotation uint8

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// String implements fmt.Stringer.
func (r Rotation) String() string {
	switch r {
	case Rot0:
		return "0"
	case Rot90:
		return "90"
	case Rot180:
		return "180"
	case Rot270:
		return "270"
	}
	return fmt.Sprintf("epdimage.Rotation(%d)", uint8(r))
}

// Set sets the Rotation to a value represented by the string s. Set
// implements the flag.Value interface.
func (r *Rotation) Set(s string) error {
	switch s {
	case "0":
		*r = Rot0
	case "90":
		*r = Rot90
	case "180":
		*r = Rot180
	case "270":
		*r = Rot270
	default:
		return fmt.Errorf("unknown rotation %q: expected 0, 90, 180 or 270", s)
	}
	return nil
}

// Window describes a sub-rectangle of the panel for partial transfers.
//
// Windows are expressed in native panel coordinates; rotation applies
// to pixel addressing only. X and W must be multiples of 8 because the
// controllers address RAM bytes, not pixels, on the x axis.
type Window struct {
	X, Y, W, H int
}

// Image is a packed 1 bit per plane image sized to one panel.
//
// The zero value is not usable; use NewMono or NewTriColor.
type Image struct {
	// Pix is the black/white plane. A set bit is a white pixel.
	Pix []byte
	// Chroma is the chromatic plane of a tri-color image, nil for
	// monochrome. A set bit is a chromatic pixel.
	Chroma []byte
	// Stride is the number of bytes per row in each plane.
	Stride int

	w, h int // native panel size, before rotation
	rot  Rotation
}

// NewMono returns a monochrome image for a width x height panel,
// cleared to White.
func NewMono(width, height int, rot Rotation) *Image {
	m := newImage(width, height, rot, 1)
	m.Clear(White)
	return m
}

// NewTriColor returns a black/white/chromatic image for a width x
// height panel, cleared to White.
func NewTriColor(width, height int, rot Rotation) *Image {
	m := newImage(width, height, rot, 2)
	m.Clear(White)
	return m
}

func newImage(width, height int, rot Rotation, planes int) *Image {
	if width <= 0 || height <= 0 {
		panic("epdimage: dimensions must be positive")
	}
	stride := (width + 7) / 8
	m := &Image{
		Pix:    make([]byte, stride*height),
		Stride: stride,
		w:      width,
		h:      height,
		rot:    rot,
	}
	if planes == 2 {
		m.Chroma = make([]byte, stride*height)
	}
	return m
}

// Width returns the native panel width, before rotation.
func (m *Image) Width() int { return m.w }

// Height returns the native panel height, before rotation.
func (m *Image) Height() int { return m.h }

// Rotation returns the rotation applied to pixel coordinates.
func (m *Image) Rotation() Rotation { return m.rot }

// Planes returns the number of bit planes (1 or 2).
func (m *Image) Planes() int {
	if m.Chroma != nil {
		return 2
	}
	return 1
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	if m.Chroma != nil {
		return BWRModel
	}
	return BWModel
}

// Bounds implements image.Image. The bounds are expressed in the
// rotated coordinate space: Rot90 and Rot270 swap width and height.
func (m *Image) Bounds() image.Rectangle {
	if m.rot == Rot90 || m.rot == Rot270 {
		return image.Rect(0, 0, m.h, m.w)
	}
	return image.Rect(0, 0, m.w, m.h)
}

// At implements image.Image. Out of bounds coordinates return White.
func (m *Image) At(x, y int) color.Color {
	c, err := m.PixelAt(x, y)
	if err != nil {
		return White
	}
	return c
}

// Set implements draw.Image. Out of bounds coordinates are ignored,
// following the standard library image convention.
func (m *Image) Set(x, y int, c color.Color) {
	_ = m.SetPixel(x, y, m.ColorModel().Convert(c).(Color))
}

// SetPixel sets the pixel at (x, y) in rotated coordinates. It returns
// ErrOutOfBounds if the point lies outside Bounds. Chromatic on a
// monochrome image is rendered as Black.
func (m *Image) SetPixel(x, y int, c Color) error {
	idx, bit, err := m.pixOffset(x, y)
	if err != nil {
		return err
	}
	if c == Chromatic && m.Chroma == nil {
		c = Black
	}
	switch c {
	case White:
		m.Pix[idx] |= bit
		if m.Chroma != nil {
			m.Chroma[idx] &^= bit
		}
	case Black:
		m.Pix[idx] &^= bit
		if m.Chroma != nil {
			m.Chroma[idx] &^= bit
		}
	case Chromatic:
		m.Pix[idx] |= bit
		m.Chroma[idx] |= bit
	default:
		return fmt.Errorf("epdimage: invalid color %d", uint8(c))
	}
	return nil
}

// PixelAt returns the color of the pixel at (x, y) in rotated
// coordinates.
func (m *Image) PixelAt(x, y int) (Color, error) {
	idx, bit, err := m.pixOffset(x, y)
	if err != nil {
		return White, err
	}
	if m.Chroma != nil && m.Chroma[idx]&bit != 0 {
		return Chromatic, nil
	}
	if m.Pix[idx]&bit != 0 {
		return White, nil
	}
	return Black, nil
}

// Clear fills the whole image with a uniform color.
func (m *Image) Clear(c Color) {
	if c == Chromatic && m.Chroma == nil {
		c = Black
	}
	var bw, ch byte
	switch c {
	case White:
		bw = 0xFF
	case Chromatic:
		bw, ch = 0xFF, 0xFF
	}
	for i := range m.Pix {
		m.Pix[i] = bw
	}
	for i := range m.Chroma {
		m.Chroma[i] = ch
	}
}

// Region returns a copy of the black/white plane bytes covering the
// window, row by row, as transferred during a partial update. The
// window must be byte-aligned on the x axis and lie within the panel.
func (m *Image) Region(win Window) ([]byte, error) {
	if err := m.ValidateWindow(win); err != nil {
		return nil, err
	}
	cols := win.W / 8
	out := make([]byte, 0, cols*win.H)
	for y := win.Y; y < win.Y+win.H; y++ {
		start := y*m.Stride + win.X/8
		out = append(out, m.Pix[start:start+cols]...)
	}
	return out, nil
}

// ValidateWindow reports whether the window is byte-aligned and lies
// within the panel, returning ErrInvalidWindow if not.
func (m *Image) ValidateWindow(win Window) error {
	if win.W <= 0 || win.H <= 0 {
		return fmt.Errorf("%w: empty window %+v", ErrInvalidWindow, win)
	}
	if win.X%8 != 0 || win.W%8 != 0 {
		return fmt.Errorf("%w: x=%d w=%d not byte-aligned", ErrInvalidWindow, win.X, win.W)
	}
	if win.X < 0 || win.Y < 0 || win.X+win.W > m.w || win.Y+win.H > m.h {
		return fmt.Errorf("%w: %+v exceeds %dx%d panel", ErrInvalidWindow, win, m.w, m.h)
	}
	return nil
}

// pixOffset maps rotated coordinates to the owning byte and bit.
func (m *Image) pixOffset(x, y int) (int, byte, error) {
	b := m.Bounds()
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return 0, 0, fmt.Errorf("%w: (%d,%d) outside %v", ErrOutOfBounds, x, y, b)
	}
	var nx, ny int
	switch m.rot {
	case Rot0:
		nx, ny = x, y
	case Rot90:
		nx, ny = m.w-1-y, x
	case Rot180:
		nx, ny = m.w-1-x, m.h-1-y
	case Rot270:
		nx, ny = y, m.h-1-x
	}
	return ny*m.Stride + nx/8, 0x80 >> uint(nx%8), nil
}

var _ image.Image = &Image{}
