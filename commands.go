// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

// SSD16xx-class command set, shared by the 1.54", 2.9" and 2.13"
// monochrome panels. Values are hardware constants from the controller
// datasheets.
const (
	ssdDriverOutputControl    byte = 0x01
	ssdGateDrivingVoltage     byte = 0x03
	ssdSourceDrivingVoltage   byte = 0x04
	ssdBoosterSoftStart       byte = 0x0C
	ssdDeepSleepMode          byte = 0x10
	ssdDataEntryMode          byte = 0x11
	ssdSwReset                byte = 0x12
	ssdTempSensorSelect       byte = 0x18
	ssdMasterActivation       byte = 0x20
	ssdDisplayUpdateControl1  byte = 0x21
	ssdDisplayUpdateControl2  byte = 0x22
	ssdWriteRAMBW             byte = 0x24
	ssdWriteRAMRed            byte = 0x26
	ssdWriteVcomRegister      byte = 0x2C
	ssdWriteLutRegister       byte = 0x32
	ssdWriteDisplayOption     byte = 0x37
	ssdSetDummyLinePeriod     byte = 0x3A
	ssdSetGateTime            byte = 0x3B
	ssdBorderWaveformControl  byte = 0x3C
	ssdEndOption              byte = 0x3F
	ssdSetRAMXStartEnd        byte = 0x44
	ssdSetRAMYStartEnd        byte = 0x45
	ssdSetRAMXCounter         byte = 0x4E
	ssdSetRAMYCounter         byte = 0x4F
	ssdSetAnalogBlockControl  byte = 0x74
	ssdSetDigitalBlockControl byte = 0x7E
	ssdTerminateFrame         byte = 0xFF
)

// UC81xx-class command set, shared by the 2.9" B tri-color and the
// 7.5" v2 panels.
const (
	ucPanelSetting           byte = 0x00
	ucPowerSetting           byte = 0x01
	ucPowerOff               byte = 0x02
	ucPowerOn                byte = 0x04
	ucBoosterSoftStart       byte = 0x06
	ucDeepSleep              byte = 0x07
	ucDataStartTransmission1 byte = 0x10
	ucDataStop               byte = 0x11
	ucDisplayRefresh         byte = 0x12
	ucDataStartTransmission2 byte = 0x13
	ucDualSPI                byte = 0x15
	ucPllControl             byte = 0x30
	ucVcomDataInterval       byte = 0x50
	ucTconSetting            byte = 0x60
	ucResolutionSetting      byte = 0x61
	ucSPIFlashControl        byte = 0x65
	ucGetStatus              byte = 0x71
	ucVcmDCSetting           byte = 0x82
)

// ucDeepSleepCheck must accompany the deep sleep command; the
// controller ignores the command with any other payload.
const ucDeepSleepCheck byte = 0xA5

// ssdSetWindow programs the RAM window. Start and end are inclusive
// pixel coordinates; x is divided down to RAM bytes by the controller
// addressing, so xStart and xEnd+1 must be byte-aligned.
func ssdSetWindow(ctrl controller, xStart, yStart, xEnd, yEnd int) {
	ctrl.sendCommand(ssdSetRAMXStartEnd)
	ctrl.sendData([]byte{byte((xStart >> 3) & 0xFF), byte((xEnd >> 3) & 0xFF)})

	ctrl.sendCommand(ssdSetRAMYStartEnd)
	ctrl.sendData([]byte{
		byte(yStart & 0xFF), byte((yStart >> 8) & 0xFF),
		byte(yEnd & 0xFF), byte((yEnd >> 8) & 0xFF),
	})
}

// ssdSetCursor positions the RAM address counters. x must be a
// multiple of 8 or the controller ignores the low three bits.
func ssdSetCursor(ctrl controller, x, y int) {
	ctrl.sendCommand(ssdSetRAMXCounter)
	ctrl.sendData([]byte{byte((x >> 3) & 0xFF)})

	ctrl.sendCommand(ssdSetRAMYCounter)
	ctrl.sendData([]byte{byte(y & 0xFF), byte((y >> 8) & 0xFF)})
}
