// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"github.com/epaperio/epd/epdimage"
)

// epd1in54 drives the 1.54" 200x200 panel, an SSD1681-class controller.
// The panel scans gates in reverse, so RAM is addressed with a
// decrementing Y counter and the gate scan direction flipped to match.
type epd1in54 struct{}

// epd1in54FullLUT is the full refresh waveform. Bytes 0..152 are the
// LUT proper, byte 153 the end option, 154 the gate driving voltage,
// 155..157 the source driving voltages and 158 the VCOM value.
var epd1in54FullLUT = LUT{
	0x80, 0x48, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x40, 0x48, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x80, 0x48, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x40, 0x48, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x08, 0x01, 0x00, 0x08, 0x01, 0x00, 0x02,
	0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x00, 0x00, 0x00,

	0x22, // End option
	0x17, // Gate driving voltage
	0x41, // Source driving voltage VSH1
	0x00, // Source driving voltage VSH2
	0x32, // Source driving voltage VSL
	0x20, // VCOM
}

// epd1in54QuickLUT refreshes only changed pixels, without the full
// black/white flash.
var epd1in54QuickLUT = LUT{
	0x00, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x80, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x40, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x0F, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x00, 0x00, 0x00,

	0x02, // End option
	0x17, // Gate driving voltage
	0x41, // Source driving voltage VSH1
	0xB0, // Source driving voltage VSH2
	0x32, // Source driving voltage VSL
	0x28, // VCOM
}

// setLut loads the 153 byte waveform and the analog settings appended
// to it.
func (epd1in54) setLut(ctrl controller, lut LUT) {
	ctrl.sendCommand(ssdWriteLutRegister)
	ctrl.sendData(lut[:153])
	ctrl.waitUntilIdle()

	ctrl.sendCommand(ssdEndOption)
	ctrl.sendByte(lut[153])
	ctrl.sendCommand(ssdGateDrivingVoltage)
	ctrl.sendByte(lut[154])
	ctrl.sendCommand(ssdSourceDrivingVoltage)
	ctrl.sendData(lut[155:158])
	ctrl.sendCommand(ssdWriteVcomRegister)
	ctrl.sendByte(lut[158])
}

func (e epd1in54) init(ctrl controller, fast bool) {
	p := EPD1in54.panel()

	ctrl.waitUntilIdle()
	ctrl.sendCommand(ssdSwReset)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(ssdDriverOutputControl)
	ctrl.sendData([]byte{
		byte((p.height - 1) & 0xFF),
		byte((p.height - 1) >> 8),
		0x01, // reversed gate scan
	})

	ctrl.sendCommand(ssdDataEntryMode)
	ctrl.sendByte(0x01) // X increment, Y decrement

	ssdSetWindow(ctrl, 0, p.height-1, p.width-1, 0)

	ctrl.sendCommand(ssdBorderWaveformControl)
	ctrl.sendByte(0x01)

	ctrl.sendCommand(ssdTempSensorSelect)
	ctrl.sendByte(0x80) // internal sensor

	ctrl.sendCommand(ssdDisplayUpdateControl2)
	ctrl.sendByte(0xB1) // load temperature and waveform setting
	ctrl.sendCommand(ssdMasterActivation)

	ssdSetCursor(ctrl, 0, p.height-1)
	ctrl.waitUntilIdle()

	e.setLut(ctrl, lutFor(EPD1in54, Full, fast))
}

func (e epd1in54) configMode(ctrl controller, mode RefreshMode, fast bool) {
	lut := lutFor(EPD1in54, mode, fast)

	if mode == Quick {
		e.setLut(ctrl, lut)

		// Undocumented sequence from the vendor example code.
		ctrl.sendCommand(ssdWriteDisplayOption)
		ctrl.sendData([]byte{
			0x00, 0x00, 0x00, 0x00, 0x00,
			0x40, 0x00, 0x00, 0x00, 0x00,
		})

		ctrl.sendCommand(ssdBorderWaveformControl)
		ctrl.sendByte(0x80)

		ctrl.sendCommand(ssdDisplayUpdateControl2)
		ctrl.sendByte(0xC0)
		ctrl.sendCommand(ssdMasterActivation)
		ctrl.waitUntilIdle()
		return
	}

	e.setLut(ctrl, lut)
	ctrl.sendCommand(ssdBorderWaveformControl)
	ctrl.sendByte(0x01)
}

func (epd1in54) writeImage(ctrl controller, img *epdimage.Image) {
	p := EPD1in54.panel()
	ssdSetWindow(ctrl, 0, p.height-1, p.width-1, 0)
	ssdSetCursor(ctrl, 0, p.height-1)
	ctrl.sendCommand(ssdWriteRAMBW)
	ctrl.sendData(img.Pix)
}

func (epd1in54) writeWindow(ctrl controller, win epdimage.Window, data []byte) {
	p := EPD1in54.panel()
	// RAM rows run bottom up, so the top of the window sits at the
	// highest RAM address.
	yStart := p.height - 1 - win.Y
	yEnd := p.height - win.Y - win.H
	ssdSetWindow(ctrl, win.X, yStart, win.X+win.W-1, yEnd)
	ssdSetCursor(ctrl, win.X, yStart)
	ctrl.sendCommand(ssdWriteRAMBW)
	ctrl.sendData(data)
}

func (epd1in54) refresh(ctrl controller, mode RefreshMode) {
	ctrl.sendCommand(ssdDisplayUpdateControl2)
	if mode == Quick {
		ctrl.sendByte(0xCF)
	} else {
		ctrl.sendByte(0xC7)
	}
	ctrl.sendCommand(ssdMasterActivation)
	ctrl.waitUntilIdle()
}

func (epd1in54) sleep(ctrl controller) {
	ctrl.sendCommand(ssdDeepSleepMode)
	ctrl.sendByte(0x01)
}
