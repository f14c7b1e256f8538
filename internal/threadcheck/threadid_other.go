//go:build !linux && !windows

package threadcheck

import (
	"bytes"
	"runtime"
	"strconv"
)

// Without a portable thread id syscall the goroutine id stands in. The main
// goroutine is pinned with runtime.LockOSThread, so the two coincide for
// callers that follow the Run contract.
func currentThreadID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// "goroutine 18 [running]:"
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 1
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 1
	}
	return id
}
