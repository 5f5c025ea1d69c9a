// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"github.com/epaperio/epd/epdimage"
)

// epd7in5v2 drives the 7.5" V2 800x480 panel, a UC8179-class controller
// running in black/white mode with OTP waveforms.
type epd7in5v2 struct{}

func (epd7in5v2) init(ctrl controller, fast bool) {
	ctrl.waitUntilIdle()

	ctrl.sendCommand(ucPowerSetting)
	ctrl.sendData([]byte{
		0x17, // internal power
		0x17, // VGH / VGL
		0x3F, // VSH
		0x3F, // VSL
		0x11, // VSHR
	})

	ctrl.sendCommand(ucVcmDCSetting)
	ctrl.sendByte(0x24)

	ctrl.sendCommand(ucBoosterSoftStart)
	ctrl.sendData([]byte{0x27, 0x27, 0x2F, 0x17})

	ctrl.sendCommand(ucPllControl)
	ctrl.sendByte(0x06)

	ctrl.sendCommand(ucPowerOn)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(ucPanelSetting)
	ctrl.sendByte(0x1F) // KW mode, LUT from OTP

	ctrl.sendCommand(ucResolutionSetting)
	ctrl.sendData([]byte{0x03, 0x20, 0x01, 0xE0}) // 800x480

	ctrl.sendCommand(ucDualSPI)
	ctrl.sendByte(0x00)

	ctrl.sendCommand(ucVcomDataInterval)
	ctrl.sendData([]byte{0x10, 0x07})

	ctrl.sendCommand(ucTconSetting)
	ctrl.sendByte(0x22)
}

func (epd7in5v2) configMode(ctrl controller, mode RefreshMode, fast bool) {
	// Waveforms are in OTP, nothing to reload.
}

func (epd7in5v2) writeImage(ctrl controller, img *epdimage.Image) {
	// The old frame buffer, bit set means white.
	ctrl.sendCommand(ucDataStartTransmission1)
	ctrl.sendData(img.Pix)
	ctrl.sendCommand(ucDataStop)

	// The new frame buffer is inverted, bit set means black.
	neg := make([]byte, len(img.Pix))
	for i, b := range img.Pix {
		neg[i] = ^b
	}
	ctrl.sendCommand(ucDataStartTransmission2)
	ctrl.sendData(neg)
	ctrl.sendCommand(ucDataStop)
}

func (epd7in5v2) writeWindow(ctrl controller, win epdimage.Window, data []byte) {
	// Partial RAM updates are not wired up for this panel; Dev rejects
	// the operation before it gets here.
}

func (epd7in5v2) refresh(ctrl controller, mode RefreshMode) {
	ctrl.sendCommand(ucDisplayRefresh)
	ctrl.waitUntilIdle()
}

func (epd7in5v2) sleep(ctrl controller) {
	ctrl.sendCommand(ucPowerOff)
	ctrl.waitUntilIdle()
	ctrl.sendCommand(ucDeepSleep)
	ctrl.sendByte(ucDeepSleepCheck)
}
