package threadcheck

import (
	"runtime"

	"github.com/gopxl/mainthread/v2"
)

// Run locks the calling goroutine to the main OS thread and runs fn on a
// separate goroutine. Native calls must then go through Call or CallErr so
// they execute on the locked thread, which becomes the owner of any Guard
// checked from there. Run returns when fn returns.
func Run(fn func()) {
	// mainthread locks the goroutine running init; lock again so Run also
	// holds when it is not called from main.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	mainthread.Run(fn)
}

// Call runs fn on the main thread and waits for it.
func Call(fn func()) {
	mainthread.Call(fn)
}

// CallErr runs fn on the main thread and returns its error.
func CallErr(fn func() error) error {
	return mainthread.CallErr(fn)
}

// CallNonBlock queues fn on the main thread without waiting.
func CallNonBlock(fn func()) {
	mainthread.CallNonBlock(fn)
}
