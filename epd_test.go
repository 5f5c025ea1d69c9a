// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"bytes"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/epaperio/epd/epdimage"
)

// testDev wires a Dev to recording fakes. The busy pin starts at the
// idle level of the variant and time.Sleep is replaced by a counter.
func testDev(t *testing.T, opts *Opts) (*Dev, *spitest.Record, *gpiotest.Pin, *int) {
	t.Helper()

	busy := &gpiotest.Pin{N: "BUSY", L: !opts.Variant.panel().busyLevel}
	rec := &spitest.Record{}

	d, err := New(rec, &gpiotest.Pin{N: "DC"}, &gpiotest.Pin{N: "CS"}, &gpiotest.Pin{N: "RST"}, busy, opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	sleeps := 0
	d.sleep = func(time.Duration) { sleeps++ }
	// One op per plane regardless of what the fake conn reports.
	d.maxTxSize = 1 << 20
	return d, rec, busy, &sleeps
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name       string
		opts       Opts
		wantString string
		wantBounds image.Rectangle
		wantPlanes int
	}{
		{
			name:       "EPD2in13",
			opts:       Opts{Variant: EPD2in13},
			wantString: "epd.Dev{EPD2in13, 122x250}",
			wantBounds: image.Rect(0, 0, 122, 250),
			wantPlanes: 1,
		},
		{
			name:       "EPD2in13 rotated",
			opts:       Opts{Variant: EPD2in13, Rotation: epdimage.Rot90},
			wantString: "epd.Dev{EPD2in13, 122x250}",
			wantBounds: image.Rect(0, 0, 250, 122),
			wantPlanes: 1,
		},
		{
			name:       "EPD2in9b",
			opts:       Opts{Variant: EPD2in9b},
			wantString: "epd.Dev{EPD2in9b, 128x296}",
			wantBounds: image.Rect(0, 0, 128, 296),
			wantPlanes: 2,
		},
		{
			name:       "EPD7in5v2",
			opts:       Opts{Variant: EPD7in5v2},
			wantString: "epd.Dev{EPD7in5v2, 800x480}",
			wantBounds: image.Rect(0, 0, 800, 480),
			wantPlanes: 1,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dev, _, _, _ := testDev(t, &tc.opts)

			if diff := cmp.Diff(dev.String(), tc.wantString); diff != "" {
				t.Errorf("String() difference (-got +want):\n%s", diff)
			}
			if diff := cmp.Diff(dev.Bounds(), tc.wantBounds); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}
			if got := dev.Image().Planes(); got != tc.wantPlanes {
				t.Errorf("Planes() = %d, want %d", got, tc.wantPlanes)
			}
		})
	}
}

func TestNewUnknownVariant(t *testing.T) {
	_, err := New(&spitest.Record{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &Opts{Variant: Variant(42)})
	if err == nil {
		t.Fatal("New() with unknown variant succeeded, want error")
	}
}

func TestNotInitialized(t *testing.T) {
	dev, _, _, _ := testDev(t, &Opts{Variant: EPD2in13})

	for name, op := range map[string]func() error{
		"UpdateFrame":  dev.UpdateFrame,
		"DisplayFrame": dev.DisplayFrame,
		"ClearFrame":   dev.ClearFrame,
		"Sleep":        dev.Sleep,
	} {
		if err := op(); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("%s before Init = %v, want ErrNotInitialized", name, err)
		}
	}
}

func TestSleepGating(t *testing.T) {
	dev, _, _, _ := testDev(t, &Opts{Variant: EPD2in13})

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := dev.Sleep(); err != nil {
		t.Fatalf("Sleep: %v", err)
	}

	if err := dev.UpdateFrame(); !errors.Is(err, ErrDriverAsleep) {
		t.Errorf("UpdateFrame while asleep = %v, want ErrDriverAsleep", err)
	}
	if err := dev.DisplayFrame(); !errors.Is(err, ErrDriverAsleep) {
		t.Errorf("DisplayFrame while asleep = %v, want ErrDriverAsleep", err)
	}

	// The framebuffer stays writable while the panel sleeps.
	if err := dev.SetPixel(1, 1, epdimage.Black); err != nil {
		t.Errorf("SetPixel while asleep = %v, want nil", err)
	}

	if err := dev.Wake(); err != nil {
		t.Fatalf("Wake: %v", err)
	}
	if err := dev.UpdateFrame(); err != nil {
		t.Errorf("UpdateFrame after Wake = %v, want nil", err)
	}
}

func TestPartialRequiresBaseline(t *testing.T) {
	dev, _, _, _ := testDev(t, &Opts{Variant: EPD2in13})

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	win := epdimage.Window{X: 0, Y: 0, W: 16, H: 16}
	if err := dev.UpdatePartialFrame(win); !errors.Is(err, ErrPartialRefreshNotReady) {
		t.Errorf("UpdatePartialFrame before full refresh = %v, want ErrPartialRefreshNotReady", err)
	}
	if err := dev.DisplayFrameQuick(); !errors.Is(err, ErrPartialRefreshNotReady) {
		t.Errorf("DisplayFrameQuick before full refresh = %v, want ErrPartialRefreshNotReady", err)
	}

	if err := dev.UpdateFrame(); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}
	if err := dev.DisplayFrame(); err != nil {
		t.Fatalf("DisplayFrame: %v", err)
	}

	if err := dev.UpdatePartialFrame(win); err != nil {
		t.Errorf("UpdatePartialFrame after full refresh = %v, want nil", err)
	}
	if err := dev.DisplayFrameQuick(); err != nil {
		t.Errorf("DisplayFrameQuick after full refresh = %v, want nil", err)
	}
}

func TestBaselineInvalidatedBySleep(t *testing.T) {
	dev, _, _, _ := testDev(t, &Opts{Variant: EPD2in13})

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := dev.UpdateFrame(); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}
	if err := dev.DisplayFrame(); err != nil {
		t.Fatalf("DisplayFrame: %v", err)
	}
	if err := dev.Sleep(); err != nil {
		t.Fatalf("Sleep: %v", err)
	}
	if err := dev.Wake(); err != nil {
		t.Fatalf("Wake: %v", err)
	}

	if err := dev.DisplayFrameQuick(); !errors.Is(err, ErrPartialRefreshNotReady) {
		t.Errorf("DisplayFrameQuick after Wake = %v, want ErrPartialRefreshNotReady", err)
	}
}

func TestPartialUnsupported(t *testing.T) {
	for _, v := range []Variant{EPD2in9b, EPD7in5v2} {
		t.Run(v.String(), func(t *testing.T) {
			dev, _, _, _ := testDev(t, &Opts{Variant: v})

			if err := dev.Init(); err != nil {
				t.Fatalf("Init: %v", err)
			}
			if err := dev.UpdateFrame(); err != nil {
				t.Fatalf("UpdateFrame: %v", err)
			}
			if err := dev.DisplayFrame(); err != nil {
				t.Fatalf("DisplayFrame: %v", err)
			}

			if err := dev.DisplayFrameQuick(); !errors.Is(err, ErrUnsupportedOperation) {
				t.Errorf("DisplayFrameQuick = %v, want ErrUnsupportedOperation", err)
			}
			win := epdimage.Window{X: 0, Y: 0, W: 16, H: 16}
			if err := dev.UpdatePartialFrame(win); !errors.Is(err, ErrUnsupportedOperation) {
				t.Errorf("UpdatePartialFrame = %v, want ErrUnsupportedOperation", err)
			}
		})
	}
}

func TestInvalidWindow(t *testing.T) {
	dev, _, _, _ := testDev(t, &Opts{Variant: EPD2in13})

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := dev.UpdateFrame(); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}
	if err := dev.DisplayFrame(); err != nil {
		t.Fatalf("DisplayFrame: %v", err)
	}

	if err := dev.UpdatePartialFrame(epdimage.Window{X: 3, Y: 0, W: 8, H: 8}); !errors.Is(err, epdimage.ErrInvalidWindow) {
		t.Errorf("UpdatePartialFrame with unaligned window = %v, want ErrInvalidWindow", err)
	}
}

func TestResetTimeout(t *testing.T) {
	dev, _, busy, sleeps := testDev(t, &Opts{Variant: EPD2in13})

	busy.L = EPD2in13.panel().busyLevel // stuck busy

	err := dev.Init()
	if !errors.Is(err, ErrResetTimeout) {
		t.Fatalf("Init with stuck busy line = %v, want ErrResetTimeout", err)
	}
	// Three reset delays plus one budget of polls.
	if want := 3 + EPD2in13.panel().resetBudget; *sleeps != want {
		t.Errorf("sleeps = %d, want %d", *sleeps, want)
	}

	// The device must not report itself ready after a failed Init.
	if err := dev.UpdateFrame(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("UpdateFrame after failed Init = %v, want ErrNotInitialized", err)
	}
}

func TestRefreshTimeout(t *testing.T) {
	dev, _, busy, sleeps := testDev(t, &Opts{Variant: EPD2in13})

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := dev.UpdateFrame(); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}

	busy.L = EPD2in13.panel().busyLevel // stuck busy
	before := *sleeps

	err := dev.DisplayFrame()
	if !errors.Is(err, ErrRefreshTimeout) {
		t.Fatalf("DisplayFrame with stuck busy line = %v, want ErrRefreshTimeout", err)
	}
	if got, want := *sleeps-before, EPD2in13.panel().refreshBudget; got != want {
		t.Errorf("busy polls = %d, want exactly %d", got, want)
	}
}

func TestInitCommandStream(t *testing.T) {
	dev, rec, _, _ := testDev(t, &Opts{Variant: EPD2in13})

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if len(rec.Ops) == 0 {
		t.Fatal("no SPI traffic recorded")
	}
	// The sequence starts with a software reset.
	if got, want := rec.Ops[0].W, []byte{ssdSwReset}; !bytes.Equal(got, want) {
		t.Errorf("first write = %#v, want %#v", got, want)
	}
}

func TestClearFrameWritesWhite(t *testing.T) {
	for _, tc := range []struct {
		variant  Variant
		planeLen int
	}{
		{EPD2in13, 16 * 250}, // 16 byte stride
		{EPD1in54, 25 * 200}, // exactly 5000 bytes
	} {
		t.Run(tc.variant.String(), func(t *testing.T) {
			dev, rec, _, _ := testDev(t, &Opts{Variant: tc.variant})

			if err := dev.Init(); err != nil {
				t.Fatalf("Init: %v", err)
			}
			dev.SetPixel(10, 10, epdimage.Black)

			rec.Ops = nil
			if err := dev.ClearFrame(); err != nil {
				t.Fatalf("ClearFrame: %v", err)
			}

			want := bytes.Repeat([]byte{0xFF}, tc.planeLen)
			found := false
			for _, op := range rec.Ops {
				if bytes.Equal(op.W, want) {
					found = true
					break
				}
			}
			if !found {
				t.Error("no all-white plane transferred")
			}

			// ClearFrame ends in a refresh trigger.
			last := rec.Ops[len(rec.Ops)-1]
			if got, want := last.W, []byte{ssdMasterActivation}; !bytes.Equal(got, want) {
				t.Errorf("last write = %#v, want %#v", got, want)
			}
		})
	}
}

func TestChunkedTransfer(t *testing.T) {
	dev, rec, _, _ := testDev(t, &Opts{Variant: EPD7in5v2})
	dev.maxTxSize = 4096

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	rec.Ops = nil
	if err := dev.UpdateFrame(); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}

	// 48000 bytes per plane, split at the 4096 byte transfer limit.
	var full, tail int
	for _, op := range rec.Ops {
		switch len(op.W) {
		case 4096:
			full++
		case 48000 % 4096:
			tail++
		}
	}
	if full != 2*11 || tail != 2 {
		t.Errorf("got %d full and %d tail chunks, want 22 and 2", full, tail)
	}
}

func TestDrawRefreshes(t *testing.T) {
	dev, rec, _, _ := testDev(t, &Opts{Variant: EPD2in13})

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	rec.Ops = nil
	src := image.NewRGBA(dev.Bounds())
	if err := dev.Draw(dev.Bounds(), src, image.Point{}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	last := rec.Ops[len(rec.Ops)-1]
	if got, want := last.W, []byte{ssdMasterActivation}; !bytes.Equal(got, want) {
		t.Errorf("last write = %#v, want %#v", got, want)
	}
}

func TestQuickSwitchesWaveform(t *testing.T) {
	dev, rec, _, _ := testDev(t, &Opts{Variant: EPD2in13})

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := dev.UpdateFrame(); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}
	if err := dev.DisplayFrame(); err != nil {
		t.Fatalf("DisplayFrame: %v", err)
	}

	rec.Ops = nil
	if err := dev.DisplayFrameQuick(); err != nil {
		t.Fatalf("DisplayFrameQuick: %v", err)
	}

	// The quick waveform is loaded before the refresh trigger.
	found := false
	for _, op := range rec.Ops {
		if bytes.Equal(op.W, epd2in13QuickLUT[:70]) {
			found = true
			break
		}
	}
	if !found {
		t.Error("quick waveform not transferred")
	}

	// A second quick refresh reuses the loaded waveform.
	rec.Ops = nil
	if err := dev.DisplayFrameQuick(); err != nil {
		t.Fatalf("DisplayFrameQuick: %v", err)
	}
	for _, op := range rec.Ops {
		if bytes.Equal(op.W, epd2in13QuickLUT[:70]) {
			t.Error("waveform re-transferred without a mode change")
		}
	}
}
