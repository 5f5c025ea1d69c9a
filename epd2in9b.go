// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"github.com/epaperio/epd/epdimage"
)

// epd2in9b drives the 2.9" 128x296 black/white/red panel, a UC8151-class
// controller. Waveforms come from on-board OTP, so there are no LUT
// registers to program and no fast refresh mode.
type epd2in9b struct{}

func (epd2in9b) init(ctrl controller, fast bool) {
	ctrl.sendCommand(ucPowerOn)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(ucPanelSetting)
	ctrl.sendData([]byte{0x0F, 0x89}) // OTP LUT, 128x296 source

	ctrl.sendCommand(ucResolutionSetting)
	ctrl.sendData([]byte{0x80, 0x01, 0x28})

	ctrl.sendCommand(ucVcomDataInterval)
	ctrl.sendByte(0x77)
}

func (epd2in9b) configMode(ctrl controller, mode RefreshMode, fast bool) {
	// Waveforms are in OTP, nothing to reload.
}

func (epd2in9b) writeImage(ctrl controller, img *epdimage.Image) {
	ctrl.sendCommand(ucDataStartTransmission1)
	ctrl.sendData(img.Pix)

	// The red plane is active low on the wire.
	red := make([]byte, len(img.Chroma))
	for i, b := range img.Chroma {
		red[i] = ^b
	}
	ctrl.sendCommand(ucDataStartTransmission2)
	ctrl.sendData(red)
}

func (epd2in9b) writeWindow(ctrl controller, win epdimage.Window, data []byte) {
	// Partial RAM updates are not wired up for this panel; Dev rejects
	// the operation before it gets here.
}

func (epd2in9b) refresh(ctrl controller, mode RefreshMode) {
	ctrl.sendCommand(ucDisplayRefresh)
	ctrl.waitUntilIdle()
}

func (epd2in9b) sleep(ctrl controller) {
	ctrl.sendCommand(ucPowerOff)
	ctrl.waitUntilIdle()
	ctrl.sendCommand(ucDeepSleep)
	ctrl.sendByte(ucDeepSleepCheck)
}
