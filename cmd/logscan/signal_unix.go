// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// shutdownSignals stop a scan: Ctrl+C and the process manager's stop request.
var shutdownSignals = []os.Signal{unix.SIGINT, unix.SIGTERM}
