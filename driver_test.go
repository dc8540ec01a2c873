// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime_test

import (
	"context"
	"testing"

	"v.io/x/vtime"
)

func TestDelayedPrint(t *testing.T) {
	d := vtime.New[vtime.Ticks, []string]()
	d.Spawn(func(h vtime.Handle[vtime.Ticks, []string]) {
		h.Delay(5)
		*h.State() = append(*h.State(), "fired")
	})
	d.DriveBlock(10)
	got := *d.State()
	if len(got) != 1 || got[0] != "fired" {
		t.Fatalf("got %v, want [fired]", got)
	}
	if d.CurrentTime() != 10 {
		t.Fatalf("got time %v, want 10", d.CurrentTime())
	}
}

func TestInterleavedTasks(t *testing.T) {
	d := vtime.New[vtime.Ticks, []string]()
	d.Spawn(func(h vtime.Handle[vtime.Ticks, []string]) {
		for i := 0; i < 3; i++ {
			*h.State() = append(*h.State(), "a"+itoa(i))
			h.Delay(1)
		}
	})
	d.Spawn(func(h vtime.Handle[vtime.Ticks, []string]) {
		for i := 0; i < 3; i++ {
			*h.State() = append(*h.State(), "b"+itoa(i))
			h.Delay(1)
		}
	})
	d.DriveBlock(10)
	got := join(*d.State())
	want := "a0b0a1b1a2b2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNestedSpawnOrdering(t *testing.T) {
	d := vtime.New[vtime.Ticks, []string]()
	d.Spawn(func(h vtime.Handle[vtime.Ticks, []string]) {
		h.Spawn(func(inner vtime.Handle[vtime.Ticks, []string]) {
			*inner.State() = append(*inner.State(), "inner")
		})
		*h.State() = append(*h.State(), "outer")
	})
	d.DriveBlock(0)
	got := *d.State()
	if len(got) != 2 || got[0] != "outer" || got[1] != "inner" {
		t.Fatalf("got %v, want [outer inner]", got)
	}
}

func TestNestedSpawnOrderingAcrossDelays(t *testing.T) {
	d := vtime.New[vtime.Ticks, []string]()
	d.Spawn(func(h vtime.Handle[vtime.Ticks, []string]) {
		h.Spawn(func(inner vtime.Handle[vtime.Ticks, []string]) {
			inner.Delay(50)
			*inner.State() = append(*inner.State(), "inner")
		})
		h.Delay(100)
		*h.State() = append(*h.State(), "outer")
	})
	d.DriveBlock(200)
	got := *d.State()
	if len(got) != 2 || got[0] != "inner" || got[1] != "outer" {
		t.Fatalf("got %v, want [inner outer]", got)
	}
	if d.CurrentTime() != 200 {
		t.Fatalf("got time %v, want 200", d.CurrentTime())
	}
}

func TestDriveAgainstEmptyQueue(t *testing.T) {
	d := vtime.New[vtime.Ticks, int]()
	d.DriveBlock(100)
	if d.CurrentTime() != 100 {
		t.Fatalf("driving an empty scheduler to a horizon must still advance the clock to it, got %v", d.CurrentTime())
	}
}

func TestResumptionAtExactHorizon(t *testing.T) {
	d := vtime.New[vtime.Ticks, int]()
	d.Spawn(func(h vtime.Handle[vtime.Ticks, int]) {
		h.At(10)
		*h.State() = 1
	})
	d.DriveBlock(10)
	if *d.State() != 1 {
		t.Fatalf("task waiting exactly until the horizon should have run")
	}
	if d.CurrentTime() != 10 {
		t.Fatalf("got time %v, want 10", d.CurrentTime())
	}
}

func TestDriveStopsBeforeHorizon(t *testing.T) {
	d := vtime.New[vtime.Ticks, int]()
	d.Spawn(func(h vtime.Handle[vtime.Ticks, int]) {
		h.At(20)
		*h.State() = 1
	})
	d.DriveBlock(10)
	if *d.State() != 0 {
		t.Fatalf("task scheduled past the horizon must not have run")
	}
	if d.CurrentTime() != 10 {
		t.Fatalf("clock must still advance to the horizon even though no task ran, got %v", d.CurrentTime())
	}
}

func TestTaskPanicPropagatesAndLeavesStateConsistent(t *testing.T) {
	d := vtime.New[vtime.Ticks, int]()
	d.Spawn(func(h vtime.Handle[vtime.Ticks, int]) {
		panic("boom")
	})
	d.Spawn(func(h vtime.Handle[vtime.Ticks, int]) {
		h.Delay(1)
		*h.State() = 7
	})

	func() {
		defer func() {
			if r := recover(); r == nil || r != "boom" {
				t.Fatalf("expected panic %q, got %v", "boom", r)
			}
		}()
		d.DriveBlock(5)
	}()

	// The remaining task must still be drivable after the panic unwound.
	d.DriveBlock(5)
	if *d.State() != 7 {
		t.Fatalf("surviving task did not complete after the panicking one, got %v", *d.State())
	}
}

func TestDriveRespectsContextCancellation(t *testing.T) {
	d := vtime.New[vtime.Ticks, int]()
	d.Spawn(func(h vtime.Handle[vtime.Ticks, int]) {
		h.At(1)
		h.At(2)
		*h.State() = 2
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Drive(ctx, 100)
	if *d.State() != 0 {
		t.Fatalf("an already-cancelled context must stop driving before any resumption")
	}
}

func itoa(i int) string {
	return string(rune('0' + i))
}

func join(ss []string) string {
	out := ""
	for _, s := range ss {
		out += s
	}
	return out
}
