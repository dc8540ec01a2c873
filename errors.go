// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime

// The surface of this package is infallible: a caller never has to check an
// error return from a Driver or Handle method. Internal invariant
// violations panic instead, since they indicate a bug in this package or in
// a caller that is using a Handle after it has stopped being valid, not a
// condition a caller could sensibly recover from.
const (
	errWaitQueueEmpty      = "vtime: wait queue empty while tasks remain installed"
	errTaskMissing         = "vtime: task id not present in task table"
	errHandleAfterShutdown = "vtime: handle used after its task completed"
	errDriveWhileDriving   = "vtime: Drive called reentrantly on the same goroutine"
	errIntoStateWithTasks  = "vtime: IntoState called while tasks are still installed"
	errAsyncMutexNotOwner  = "vtime: AsyncMutex Unlock called by a task that does not hold it"
)
