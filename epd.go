// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"

	"github.com/epaperio/epd/epdimage"
)

// Opts is the display configuration.
type Opts struct {
	// Variant selects the panel model.
	Variant Variant
	// Rotation is applied to pixel coordinates at write time.
	Rotation epdimage.Rotation
	// FastLUT prefers the quick waveform for full refreshes on
	// variants that have one, trading ghosting removal for speed.
	FastLUT bool
}

// state tracks the refresh state machine between calls. The transient
// transfer/refresh phases exist only for the duration of one call;
// strictly single-threaded, so they never need to be observed.
type state uint8

const (
	stateUninitialized state = iota
	stateIdle
	stateSleeping
)

// Dev is a handle to one e-paper display. It owns the in-memory
// framebuffer and the bus transport exclusively; a physical panel must
// not be driven by more than one Dev.
type Dev struct {
	c         conn.Conn
	maxTxSize int
	dc        gpio.PinOut
	cs        gpio.PinOut
	rst       gpio.PinOut
	busy      gpio.PinIn

	variant Variant
	panel   *panel
	enc     encoder
	img     *epdimage.Image
	opts    *Opts

	state    state
	fullDone bool        // a full refresh happened since Init/Wake
	loaded   RefreshMode // waveform currently configured

	// sleep is time.Sleep, replaceable by tests for deterministic
	// busy-wait timing.
	sleep func(time.Duration)
}

// New opens a handle to the display on the given SPI port and control
// lines. The display is left untouched; call Init before drawing.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	pan := opts.Variant.panel()
	if pan == nil {
		return nil, fmt.Errorf("epd: unknown variant %d", int(opts.Variant))
	}

	c, err := p.Connect(pan.speed, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	// The full 7.5" plane exceeds the transfer limit of common SPI
	// drivers, so data writes are chunked.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}

	var img *epdimage.Image
	if pan.triColor {
		img = epdimage.NewTriColor(pan.width, pan.height, opts.Rotation)
	} else {
		img = epdimage.NewMono(pan.width, pan.height, opts.Rotation)
	}

	return &Dev{
		c:         c,
		maxTxSize: maxTxSize,
		dc:        dc,
		cs:        cs,
		rst:       rst,
		busy:      busy,
		variant:   opts.Variant,
		panel:     pan,
		enc:       newEncoder(opts.Variant),
		img:       img,
		opts:      opts,
		state:     stateUninitialized,
		sleep:     time.Sleep,
	}, nil
}

// NewHat opens a handle to a display wired to the default Waveshare
// HAT pins of a Raspberry Pi.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Init asserts the hardware reset line and runs the power-on and
// waveform configuration sequence of the variant. It must be called
// once before any other operation and again after Sleep (or use Wake).
func (d *Dev) Init() error {
	if err := d.reset(); err != nil {
		return err
	}

	eh := d.handler(d.panel.resetBudget, ErrResetTimeout)
	d.enc.init(eh, d.opts.FastLUT)
	if eh.err != nil {
		return eh.err
	}

	d.state = stateIdle
	d.loaded = Full
	d.fullDone = false
	return nil
}

// UpdateFrame transfers the framebuffer to the controller RAM. The
// panel keeps showing the previous image until DisplayFrame or
// DisplayFrameQuick triggers a refresh.
func (d *Dev) UpdateFrame() error {
	if err := d.ready(); err != nil {
		return err
	}
	eh := d.handler(d.panel.resetBudget, ErrRefreshTimeout)
	d.enc.writeImage(eh, d.img)
	return eh.err
}

// UpdatePartialFrame transfers only the window's framebuffer bytes to
// the controller RAM. The window is in native panel coordinates and
// must be byte-aligned on the x axis. Like partial refreshes, partial
// transfers require a baseline image from a prior full refresh.
func (d *Dev) UpdatePartialFrame(win epdimage.Window) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.partialOK(); err != nil {
		return err
	}
	data, err := d.img.Region(win)
	if err != nil {
		return err
	}
	eh := d.handler(d.panel.resetBudget, ErrRefreshTimeout)
	d.enc.writeWindow(eh, win, data)
	return eh.err
}

// DisplayFrame refreshes the panel with the full waveform, showing the
// last transferred frame. Blocks until the controller reports
// completion or the poll budget runs out.
func (d *Dev) DisplayFrame() error {
	return d.displayFrame(Full)
}

// DisplayFrameQuick refreshes the panel with the partial (quick)
// waveform: faster and flicker-free, but it relies on the previously
// displayed frame and accumulates ghosting. Requires a prior full
// refresh and a variant supporting partial updates.
func (d *Dev) DisplayFrameQuick() error {
	return d.displayFrame(Quick)
}

func (d *Dev) displayFrame(mode RefreshMode) error {
	if err := d.ready(); err != nil {
		return err
	}
	if mode == Quick {
		if err := d.partialOK(); err != nil {
			return err
		}
	}

	eh := d.handler(d.panel.refreshBudget, ErrRefreshTimeout)
	if mode != d.loaded {
		d.enc.configMode(eh, mode, d.opts.FastLUT)
		if eh.err != nil {
			return eh.err
		}
		d.loaded = mode
	}
	d.enc.refresh(eh, mode)
	if eh.err != nil {
		return eh.err
	}

	if mode == Full {
		d.fullDone = true
	}
	return nil
}

// ClearFrame blanks the framebuffer to white and performs a full
// update and refresh.
func (d *Dev) ClearFrame() error {
	if err := d.ready(); err != nil {
		return err
	}
	d.img.Clear(epdimage.White)
	if err := d.UpdateFrame(); err != nil {
		return err
	}
	return d.DisplayFrame()
}

// Sleep puts the controller into deep sleep, its lowest power state.
// The panel keeps showing the last displayed frame. Only Init or Wake
// are accepted afterwards; both re-assert the reset line, which is the
// only way out of deep sleep.
func (d *Dev) Sleep() error {
	if err := d.ready(); err != nil {
		return err
	}
	eh := d.handler(d.panel.refreshBudget, ErrRefreshTimeout)
	d.enc.sleep(eh)
	if eh.err != nil {
		return eh.err
	}
	d.state = stateSleeping
	d.fullDone = false
	return nil
}

// Wake brings the controller out of deep sleep. Deep sleep discards
// the controller configuration, so waking is a full
// re-initialization.
func (d *Dev) Wake() error {
	return d.Init()
}

// SetPixel sets one framebuffer pixel in rotated coordinates. The
// framebuffer is purely in-memory; the panel changes on the next
// update and refresh.
func (d *Dev) SetPixel(x, y int, c epdimage.Color) error {
	return d.img.SetPixel(x, y, c)
}

// Image returns the framebuffer. It implements draw.Image, so any 2-D
// library producing an image.Image can render into it; the Dev keeps
// ownership and the image must not be used concurrently with Dev
// operations.
func (d *Dev) Image() *epdimage.Image {
	return d.img
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
// and performs a full update and refresh.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	if err := d.ready(); err != nil {
		return err
	}
	draw.Src.Draw(d.img, dstRect, src, srcPts)
	if err := d.UpdateFrame(); err != nil {
		return err
	}
	return d.DisplayFrame()
}

// Halt implements conn.Resource; it clears the display.
func (d *Dev) Halt() error {
	return d.ClearFrame()
}

// String implements fmt.Stringer.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %dx%d}", d.variant, d.panel.width, d.panel.height)
}

// ready gates operations on the state machine.
func (d *Dev) ready() error {
	switch d.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateSleeping:
		return ErrDriverAsleep
	}
	return nil
}

// partialOK checks the variant capability and the baseline-image
// requirement for partial operations.
func (d *Dev) partialOK() error {
	if d.panel.triColor || !d.panel.partial {
		return ErrUnsupportedOperation
	}
	if !d.fullDone {
		return ErrPartialRefreshNotReady
	}
	return nil
}

func (d *Dev) handler(budget int, timeout error) *errorHandler {
	return &errorHandler{d: d, budget: budget, timeout: timeout}
}

// reset pulses the hardware reset line with the settle delays the
// panel requires.
func (d *Dev) reset() error {
	eh := d.handler(0, nil)
	eh.rstOut(gpio.High)
	d.sleep(d.panel.resetSettle)
	eh.rstOut(gpio.Low)
	d.sleep(d.panel.resetPulse)
	eh.rstOut(gpio.High)
	d.sleep(d.panel.resetSettle)
	return eh.err
}

func (d *Dev) sendCommand(c byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.cs.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{c}, nil); err != nil {
		return err
	}
	return d.cs.Out(gpio.High)
}

func (d *Dev) sendData(b []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	if err := d.cs.Out(gpio.Low); err != nil {
		return err
	}
	for len(b) > 0 {
		n := len(b)
		if n > d.maxTxSize {
			n = d.maxTxSize
		}
		if err := d.c.Tx(b[:n], nil); err != nil {
			return err
		}
		b = b[n:]
	}
	return d.cs.Out(gpio.High)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
