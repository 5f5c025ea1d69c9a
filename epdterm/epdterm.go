// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epdterm implements a display.Drawer that renders an e-paper
// framebuffer to a terminal using ANSI color codes.
//
// It is a stand-in for a real panel: code written against
// display.Drawer can target either, which makes layout work possible
// without hardware attached.
package epdterm

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/epaperio/epd/epdimage"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width and Height are the emulated panel size in pixels.
	Width  int
	Height int
	// TriColor adds the chromatic plane.
	TriColor bool
	// Rotation is applied to pixel coordinates, like on a panel.
	Rotation epdimage.Rotation
	// W receives the ANSI output. Defaults to stdout through
	// go-colorable, which handles Windows consoles.
	W io.Writer
	// Palette maps colors to terminal codes. Defaults to
	// ansi256.Default.
	Palette *ansi256.Palette

	_ struct{}
}

// Dev is an e-paper panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	img     *epdimage.Image
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
//
// Permits local testing of display layouts.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	var img *epdimage.Image
	if opts.TriColor {
		img = epdimage.NewTriColor(opts.Width, opts.Height, opts.Rotation)
	} else {
		img = epdimage.NewMono(opts.Width, opts.Height, opts.Rotation)
	}
	return &Dev{
		w:       w,
		img:     img,
		palette: *p,
	}
}

// String implements fmt.Stringer.
func (d *Dev) String() string {
	return fmt.Sprintf("epdterm.Dev{%dx%d}", d.img.Width(), d.img.Height())
}

// Image returns the framebuffer, like epd.Dev.Image.
func (d *Dev) Image() *epdimage.Image {
	return d.img
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return d.img.ColorModel()
}

// Bounds implements display.Drawer. Bounds are in rotated coordinates.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// Draw implements display.Drawer: it renders src into the framebuffer
// and repaints the terminal.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(d.img, r, src, sp)
	return d.Refresh()
}

// Refresh repaints the whole framebuffer to the terminal. Each pixel
// becomes one colored block character.
func (d *Dev) Refresh() error {
	// Minimize allocations per call; the buffer is reused.
	d.buf.Reset()
	b := d.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		_, _ = d.buf.WriteString("\033[0m")
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, _ := d.img.At(x, y).RGBA()
			c := color.NRGBA{byte(r16 >> 8), byte(g16 >> 8), byte(b16 >> 8), 255}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
