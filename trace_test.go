// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime_test

import (
	"bytes"
	"strings"
	"testing"

	"v.io/x/vtime"
)

func TestWithTraceEmitsPrefixedResumeAndCompletionLines(t *testing.T) {
	var buf bytes.Buffer
	d := vtime.New[vtime.Ticks, int](vtime.WithTrace[vtime.Ticks, int](&buf, "sched: "))
	d.Spawn(func(h vtime.Handle[vtime.Ticks, int]) {
		h.Delay(1)
	})
	d.DriveBlock(5)

	out := buf.String()
	if !strings.Contains(out, "sched: ") {
		t.Fatalf("expected every line to carry the configured prefix, got %q", out)
	}
	if !strings.Contains(out, "resume task=0") {
		t.Fatalf("expected a resume line for task 0, got %q", out)
	}
	if !strings.Contains(out, "completed") {
		t.Fatalf("expected a completion line, got %q", out)
	}
}
