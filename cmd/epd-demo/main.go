// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epd-demo renders a text banner to an e-paper display, or to the
// terminal when no hardware is attached.
package main

import (
	"flag"
	"image"
	"log"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/epaperio/epd"
	"github.com/epaperio/epd/epdimage"
	"github.com/epaperio/epd/epdterm"
)

func main() {
	opts := epd.Opts{
		Variant:  epd.EPD2in13,
		Rotation: epdimage.Rot90,
	}
	flag.Var(&opts.Variant, "variant", "panel model")
	flag.Var(&opts.Rotation, "rotation", "rotation in degrees (0, 90, 180, 270)")
	flag.BoolVar(&opts.FastLUT, "fast", false, "use the quick waveform for full refreshes")
	ink := epdimage.Black
	flag.Var(&ink, "ink", "text color (white, black or chromatic)")
	spiPort := flag.String("spi", "", "SPI port to use")
	term := flag.Bool("term", false, "render to the terminal instead of hardware")
	text := flag.String("text", "Hello e-paper!", "text to display")
	flag.Parse()

	var drawer display.Drawer
	if *term {
		w, h := opts.Variant.Size()
		drawer = epdterm.New(&epdterm.Opts{
			Width:    w,
			Height:   h,
			TriColor: opts.Variant.TriColor(),
			Rotation: opts.Rotation,
		})
	} else {
		if _, err := host.Init(); err != nil {
			log.Fatal(err)
		}
		b, err := spireg.Open(*spiPort)
		if err != nil {
			log.Fatal(err)
		}
		defer b.Close()

		dev, err := epd.NewHat(b, &opts)
		if err != nil {
			log.Fatalf("failed to open display: %v", err)
		}
		if err := dev.Init(); err != nil {
			log.Fatalf("failed to initialize display: %v", err)
		}
		defer dev.Sleep()
		drawer = dev
	}

	bounds := drawer.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetColor(epdimage.White)
	dc.Clear()

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 18}))

	dc.SetColor(ink)
	dc.SetLineWidth(2)
	dc.DrawRectangle(2, 2, float64(bounds.Dx()-4), float64(bounds.Dy()-4))
	dc.Stroke()
	dc.DrawStringAnchored(*text, float64(bounds.Dx())/2, float64(bounds.Dy())/2, 0.5, 0.5)

	if err := drawer.Draw(bounds, dc.Image(), image.Point{}); err != nil {
		log.Fatalf("failed to draw: %v", err)
	}
}
