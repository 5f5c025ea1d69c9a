// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/epaperio/epd/epdimage"
)

// controller is the command-level bus interface the per-variant
// encoders emit to. It is implemented by errorHandler for hardware
// access and by recording fakes in tests.
type controller interface {
	sendCommand(byte)
	sendData([]byte)
	sendByte(byte)
	waitUntilIdle()
}

// encoder translates semantic operations into the ordered command
// sequence of one controller variant. Implementations are stateless;
// sequencing state lives in Dev. Payload sizes are the caller's
// contract: Dev only ever passes framebuffer-derived payloads of the
// correct size.
type encoder interface {
	// init brings the controller from reset to the idle state with
	// the full-refresh waveform configured.
	init(ctrl controller, fast bool)
	// configMode switches the loaded waveform between refresh modes.
	configMode(ctrl controller, mode RefreshMode, fast bool)
	// writeImage transfers the whole framebuffer to controller RAM.
	writeImage(ctrl controller, img *epdimage.Image)
	// writeWindow transfers the given window bytes to controller RAM.
	// Only called on variants supporting partial refresh.
	writeWindow(ctrl controller, win epdimage.Window, data []byte)
	// refresh triggers the physical update and waits for completion.
	refresh(ctrl controller, mode RefreshMode)
	// sleep puts the controller into deep sleep.
	sleep(ctrl controller)
}

// errorHandler implements controller against the hardware, collecting
// the first failure and turning the rest into no-ops so a command
// sequence reads linearly.
type errorHandler struct {
	d       *Dev
	budget  int   // busy polls allowed per waitUntilIdle
	timeout error // taxonomy error reported when the budget runs out
	err     error
}

func (eh *errorHandler) sendCommand(c byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendCommand(c)
}

func (eh *errorHandler) sendData(d []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendData(d)
}

func (eh *errorHandler) sendByte(b byte) {
	eh.sendData([]byte{b})
}

// waitUntilIdle polls the busy line with a bounded budget. Exhausting
// the budget is a hard failure, never an infinite loop: re-triggering
// an unacknowledged refresh risks panel damage, so the failure is
// reported instead of retried.
func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	p := eh.d.panel
	for i := 0; i < eh.budget; i++ {
		if p.statusPoll {
			if eh.err = eh.d.sendCommand(ucGetStatus); eh.err != nil {
				return
			}
		}
		if eh.d.busy.Read() != p.busyLevel {
			return
		}
		eh.d.sleep(p.pollInterval)
	}
	eh.err = eh.timeout
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}
