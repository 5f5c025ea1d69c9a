// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"github.com/epaperio/epd/epdimage"
)

// epd2in9 drives the 2.9" 128x296 panel, an IL3820-class controller
// with a 30 byte waveform table.
type epd2in9 struct{}

var epd2in9FullLUT = LUT{
	0x50, 0xAA, 0x55, 0xAA, 0x11, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0xFF, 0xFF, 0x1F, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

var epd2in9QuickLUT = LUT{
	0x10, 0x18, 0x18, 0x08, 0x18, 0x18,
	0x08, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x13, 0x14, 0x44, 0x12,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

func (epd2in9) init(ctrl controller, fast bool) {
	p := EPD2in9.panel()

	ctrl.sendCommand(ssdDriverOutputControl)
	ctrl.sendData([]byte{
		byte((p.height - 1) & 0xFF),
		byte((p.height - 1) >> 8),
		0x00,
	})

	ctrl.sendCommand(ssdBoosterSoftStart)
	ctrl.sendData([]byte{0xD7, 0xD6, 0x9D})

	ctrl.sendCommand(ssdWriteVcomRegister)
	ctrl.sendByte(0xA8)

	ctrl.sendCommand(ssdSetDummyLinePeriod)
	ctrl.sendByte(0x1A) // 4 dummy lines per gate

	ctrl.sendCommand(ssdSetGateTime)
	ctrl.sendByte(0x08) // 2µs per line

	ctrl.sendCommand(ssdDataEntryMode)
	ctrl.sendByte(0x03)

	ssdSetWindow(ctrl, 0, 0, p.width-1, p.height-1)
	ssdSetCursor(ctrl, 0, 0)

	ctrl.sendCommand(ssdWriteLutRegister)
	ctrl.sendData(lutFor(EPD2in9, Full, fast))
}

func (epd2in9) configMode(ctrl controller, mode RefreshMode, fast bool) {
	ctrl.sendCommand(ssdWriteLutRegister)
	ctrl.sendData(lutFor(EPD2in9, mode, fast))
}

func (epd2in9) writeImage(ctrl controller, img *epdimage.Image) {
	p := EPD2in9.panel()
	ssdSetWindow(ctrl, 0, 0, p.width-1, p.height-1)
	ssdSetCursor(ctrl, 0, 0)
	ctrl.sendCommand(ssdWriteRAMBW)
	ctrl.sendData(img.Pix)
}

func (epd2in9) writeWindow(ctrl controller, win epdimage.Window, data []byte) {
	ssdSetWindow(ctrl, win.X, win.Y, win.X+win.W-1, win.Y+win.H-1)
	ssdSetCursor(ctrl, win.X, win.Y)
	ctrl.sendCommand(ssdWriteRAMBW)
	ctrl.sendData(data)
}

func (epd2in9) refresh(ctrl controller, mode RefreshMode) {
	ctrl.sendCommand(ssdDisplayUpdateControl2)
	ctrl.sendByte(0xC4)
	ctrl.sendCommand(ssdMasterActivation)
	ctrl.sendCommand(ssdTerminateFrame)
	ctrl.waitUntilIdle()
}

func (epd2in9) sleep(ctrl controller) {
	ctrl.sendCommand(ssdDeepSleepMode)
	ctrl.sendByte(0x01)
}
