// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"github.com/epaperio/epd/epdimage"
)

// epd2in13 drives the 2.13" 122x250 panel, an SSD1675-class controller
// with software waveform tables.
type epd2in13 struct{}

// epd2in13FullLUT is the waveform for a full refresh. The first 70 bytes
// are the LUT proper, the remaining six hold the gate driving voltage,
// the three source driving voltages, the dummy line period and the gate
// line width.
var epd2in13FullLUT = LUT{
	0x80, 0x60, 0x40, 0x00, 0x00, 0x00, 0x00, // LUT0: BB:     VS 0 ~7
	0x10, 0x60, 0x20, 0x00, 0x00, 0x00, 0x00, // LUT1: BW:     VS 0 ~7
	0x80, 0x60, 0x40, 0x00, 0x00, 0x00, 0x00, // LUT2: WB:     VS 0 ~7
	0x10, 0x60, 0x20, 0x00, 0x00, 0x00, 0x00, // LUT3: WW:     VS 0 ~7
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // LUT4: VCOM:   VS 0 ~7

	0x03, 0x03, 0x00, 0x00, 0x02, // TP0 A~D RP0
	0x09, 0x09, 0x00, 0x00, 0x02, // TP1 A~D RP1
	0x03, 0x03, 0x00, 0x00, 0x02, // TP2 A~D RP2
	0x00, 0x00, 0x00, 0x00, 0x00, // TP3 A~D RP3
	0x00, 0x00, 0x00, 0x00, 0x00, // TP4 A~D RP4
	0x00, 0x00, 0x00, 0x00, 0x00, // TP5 A~D RP5
	0x00, 0x00, 0x00, 0x00, 0x00, // TP6 A~D RP6

	0x15, // Gate driving voltage
	0x41, // Source driving voltage VSH1
	0xA8, // Source driving voltage VSH2
	0x32, // Source driving voltage VSL
	0x30, // Dummy line period
	0x0A, // Gate line width
}

// epd2in13QuickLUT only drives pixels that changed since the last frame,
// which avoids the flashing of a full refresh.
var epd2in13QuickLUT = LUT{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // LUT0: BB:     VS 0 ~7
	0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // LUT1: BW:     VS 0 ~7
	0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // LUT2: WB:     VS 0 ~7
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // LUT3: WW:     VS 0 ~7
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // LUT4: VCOM:   VS 0 ~7

	0x0A, 0x00, 0x00, 0x00, 0x00, // TP0 A~D RP0
	0x00, 0x00, 0x00, 0x00, 0x00, // TP1 A~D RP1
	0x00, 0x00, 0x00, 0x00, 0x00, // TP2 A~D RP2
	0x00, 0x00, 0x00, 0x00, 0x00, // TP3 A~D RP3
	0x00, 0x00, 0x00, 0x00, 0x00, // TP4 A~D RP4
	0x00, 0x00, 0x00, 0x00, 0x00, // TP5 A~D RP5
	0x00, 0x00, 0x00, 0x00, 0x00, // TP6 A~D RP6

	0x15, // Gate driving voltage
	0x41, // Source driving voltage VSH1
	0xA8, // Source driving voltage VSH2
	0x32, // Source driving voltage VSL
	0x30, // Dummy line period
	0x0A, // Gate line width
}

func (epd2in13) init(ctrl controller, fast bool) {
	p := EPD2in13.panel()
	lut := lutFor(EPD2in13, Full, fast)

	ctrl.waitUntilIdle()
	ctrl.sendCommand(ssdSwReset)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(ssdSetAnalogBlockControl)
	ctrl.sendByte(0x54)
	ctrl.sendCommand(ssdSetDigitalBlockControl)
	ctrl.sendByte(0x3B)

	ctrl.sendCommand(ssdDriverOutputControl)
	ctrl.sendData([]byte{
		byte((p.height - 1) & 0xFF),
		byte((p.height - 1) >> 8),
		0x00,
	})

	ctrl.sendCommand(ssdDataEntryMode)
	ctrl.sendByte(0x03)

	ssdSetWindow(ctrl, 0, 0, p.width-1, p.height-1)

	ctrl.sendCommand(ssdBorderWaveformControl)
	ctrl.sendByte(0x03)

	ctrl.sendCommand(ssdWriteVcomRegister)
	ctrl.sendByte(0x55)

	ctrl.sendCommand(ssdGateDrivingVoltage)
	ctrl.sendByte(lut[70])
	ctrl.sendCommand(ssdSourceDrivingVoltage)
	ctrl.sendData(lut[71:74])
	ctrl.sendCommand(ssdSetDummyLinePeriod)
	ctrl.sendByte(lut[74])
	ctrl.sendCommand(ssdSetGateTime)
	ctrl.sendByte(lut[75])

	ctrl.sendCommand(ssdWriteLutRegister)
	ctrl.sendData(lut[:70])

	ssdSetCursor(ctrl, 0, 0)
	ctrl.waitUntilIdle()
}

func (epd2in13) configMode(ctrl controller, mode RefreshMode, fast bool) {
	lut := lutFor(EPD2in13, mode, fast)

	if mode == Quick {
		ctrl.sendCommand(ssdWriteVcomRegister)
		ctrl.sendByte(0x26)
		ctrl.waitUntilIdle()

		ctrl.sendCommand(ssdWriteLutRegister)
		ctrl.sendData(lut[:70])

		// Undocumented sequence from the vendor example code.
		ctrl.sendCommand(ssdWriteDisplayOption)
		ctrl.sendData([]byte{0x00, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00})
		ctrl.sendCommand(ssdDisplayUpdateControl2)
		ctrl.sendByte(0xC0)
		ctrl.sendCommand(ssdMasterActivation)
		ctrl.waitUntilIdle()

		ctrl.sendCommand(ssdBorderWaveformControl)
		ctrl.sendByte(0x01)
		return
	}

	ctrl.sendCommand(ssdWriteVcomRegister)
	ctrl.sendByte(0x55)
	ctrl.sendCommand(ssdBorderWaveformControl)
	ctrl.sendByte(0x03)
	ctrl.sendCommand(ssdWriteLutRegister)
	ctrl.sendData(lut[:70])
}

func (epd2in13) writeImage(ctrl controller, img *epdimage.Image) {
	p := EPD2in13.panel()
	ssdSetWindow(ctrl, 0, 0, p.width-1, p.height-1)
	ssdSetCursor(ctrl, 0, 0)
	ctrl.sendCommand(ssdWriteRAMBW)
	ctrl.sendData(img.Pix)
}

func (epd2in13) writeWindow(ctrl controller, win epdimage.Window, data []byte) {
	ssdSetWindow(ctrl, win.X, win.Y, win.X+win.W-1, win.Y+win.H-1)
	ssdSetCursor(ctrl, win.X, win.Y)
	ctrl.sendCommand(ssdWriteRAMBW)
	ctrl.sendData(data)
}

func (epd2in13) refresh(ctrl controller, mode RefreshMode) {
	ctrl.sendCommand(ssdDisplayUpdateControl2)
	if mode == Quick {
		ctrl.sendByte(0x0C)
	} else {
		ctrl.sendByte(0xC7)
	}
	ctrl.sendCommand(ssdMasterActivation)
	ctrl.waitUntilIdle()
}

func (epd2in13) sleep(ctrl controller) {
	ctrl.sendCommand(ssdDeepSleepMode)
	ctrl.sendByte(0x01)
}
