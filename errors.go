// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import "errors"

// Errors returned by Dev operations. Transport failures from the SPI
// connection or the GPIO pins are returned as-is; everything else maps
// to one of these sentinels, matched with errors.Is. Window and pixel
// validation errors are epdimage.ErrInvalidWindow and
// epdimage.ErrOutOfBounds.
var (
	// ErrNotInitialized is returned when an operation other than Init
	// is attempted before the first Init.
	ErrNotInitialized = errors.New("epd: display not initialized, call Init first")

	// ErrDriverAsleep is returned when an operation other than Init or
	// Wake is attempted while the controller is in deep sleep.
	ErrDriverAsleep = errors.New("epd: display is in deep sleep, call Wake first")

	// ErrResetTimeout is returned when the busy line does not clear
	// within the poll budget during reset and initialization. The
	// panel state is indeterminate; retry with Init.
	ErrResetTimeout = errors.New("epd: busy line stuck during reset")

	// ErrRefreshTimeout is returned when a triggered refresh does not
	// complete within the poll budget. The refresh is not retried:
	// re-triggering an unacknowledged refresh can degrade the panel.
	// Callers should re-Init before trying again.
	ErrRefreshTimeout = errors.New("epd: refresh did not complete within the poll budget")

	// ErrPartialRefreshNotReady is returned when a partial update is
	// requested before a full refresh has established a baseline
	// image since the last Init or Wake.
	ErrPartialRefreshNotReady = errors.New("epd: partial refresh requires a prior full refresh")

	// ErrUnsupportedOperation is returned when the panel variant does
	// not support the requested operation, such as a partial refresh
	// on a tri-color panel.
	ErrUnsupportedOperation = errors.New("epd: operation not supported by this panel variant")
)
