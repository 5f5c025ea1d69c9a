// Copyright 2025 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"testing"
)

func TestVariantFlagValue(t *testing.T) {
	var v Variant
	if err := v.Set("EPD7in5v2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v != EPD7in5v2 {
		t.Errorf("v = %v, want EPD7in5v2", v)
	}
	if err := v.Set("EPD42in"); err == nil {
		t.Error("Set(EPD42in) succeeded, want error")
	}
}

func TestVariantString(t *testing.T) {
	if got, want := EPD2in9b.String(), "EPD2in9b"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := Variant(42).String(), "epd.Variant(42)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestVariantSize(t *testing.T) {
	for _, tc := range []struct {
		v    Variant
		w, h int
	}{
		{EPD1in54, 200, 200},
		{EPD2in9, 128, 296},
		{EPD2in13, 122, 250},
		{EPD2in9b, 128, 296},
		{EPD7in5v2, 800, 480},
	} {
		if w, h := tc.v.Size(); w != tc.w || h != tc.h {
			t.Errorf("%v Size() = %dx%d, want %dx%d", tc.v, w, h, tc.w, tc.h)
		}
	}
	if w, h := Variant(42).Size(); w != 0 || h != 0 {
		t.Errorf("unknown Size() = %dx%d, want 0x0", w, h)
	}
}

func TestPanelTable(t *testing.T) {
	for i := range panels {
		v := Variant(i)
		p := v.panel()
		if p.speed <= 0 {
			t.Errorf("%v: speed not set", v)
		}
		if p.pollInterval <= 0 {
			t.Errorf("%v: pollInterval not set", v)
		}
		if p.resetBudget <= 0 || p.refreshBudget <= 0 {
			t.Errorf("%v: poll budgets not set", v)
		}
		if p.triColor && p.partial {
			t.Errorf("%v: tri-color panels have no partial refresh", v)
		}
		if newEncoder(v) == nil {
			t.Errorf("%v: no encoder", v)
		}
	}
}
