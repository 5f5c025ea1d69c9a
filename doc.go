// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd controls SPI-connected e-paper (electrophoretic) displays.
//
// The package hides the differences between the supported display
// controllers - resolution, color depth, command opcodes and waveform
// lookup tables - behind one driver type. A Dev owns an in-memory
// framebuffer (see the epdimage subpackage), transfers it to the
// controller RAM and sequences the refresh state machine: power-on,
// buffer transfer, full or partial refresh, deep sleep.
//
// The concrete panel is selected at construction time through
// Opts.Variant. Monochrome panels support partial (quick) refreshes once
// a full refresh has established a baseline image; black/white/red
// panels only support full refreshes.
//
// All operations are synchronous and block the calling goroutine until
// the controller acknowledges them or a bounded busy-wait budget is
// exhausted. A Dev must not be shared between goroutines and a physical
// panel must not be driven by more than one Dev.
package epd
