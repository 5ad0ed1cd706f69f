package registry

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// reentrantMutex is a mutex that may be re-acquired by the goroutine that
// already holds it. The registry holds the singleton mutex across the
// external construction callback, and that callback is allowed to call back
// into the registry on the same goroutine for nested resolution. A plain
// sync.Mutex would self-deadlock on that path.
type reentrantMutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

// Lock acquires the mutex, or increases the hold depth when the calling
// goroutine already owns it.
func (m *reentrantMutex) Lock() {
	id := goroutineID()
	if m.owner.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

// Unlock releases one level of the hold. The mutex is released for other
// goroutines only when the outermost Lock is undone.
func (m *reentrantMutex) Unlock() {
	if m.owner.Load() != goroutineID() {
		panic("registry: unlock of singleton mutex not held by this goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}

// held reports whether the calling goroutine currently owns the mutex.
func (m *reentrantMutex) held() bool {
	return m.owner.Load() == goroutineID()
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID parses the current goroutine id from the runtime stack
// header. Stack parsing is slow, but the mutex is only taken on registry
// state transitions, not on hot read paths of resolved instances.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	head := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(head, ' '); i > 0 {
		if id, err := strconv.ParseInt(string(head[:i]), 10, 64); err == nil {
			return id
		}
	}
	return -1
}
