// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime

import (
	"fmt"
	"io"

	"v.io/x/vtime/textutil"
)

// WithTrace attaches a line-oriented diagnostic trace of every task
// resumption to w, in addition to whatever the Driver's logger records.
// Each resumption produces two lines: one with the virtual time it ran at
// and its task id, written as it resumes, and an indented one with how it
// left off (suspended-by-time, suspended for another reason, completed, or
// panicked). The two are not combined into a single line.
//
// The trace is written through a textutil.PrefixLineWriter, so every line
// carries prefix and the lines of several drivers feeding one shared
// writer (a log file, a terminal) can be told apart. The prefix and the
// rest of a line reach w as separate Write calls, so drivers running
// concurrently against the same w can still interleave within a line.
func WithTrace[T Time[T], S any](w io.Writer, prefix string) Option[T, S] {
	return func(d *Driver[T, S]) {
		d.trace = textutil.PrefixLineWriter(w, prefix)
	}
}

func (d *Driver[T, S]) traceLine(format string, args ...any) {
	if d.trace == nil {
		return
	}
	fmt.Fprintf(d.trace, format, args...)
	d.trace.Flush()
}
