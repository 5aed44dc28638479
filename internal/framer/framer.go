// Package framer cuts a sample stream into overlapping analysis windows.
package framer

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidGeometry is returned when the window or hop size is unusable.
var ErrInvalidGeometry = errors.New("invalid frame geometry")

// growthFactor is the capacity multiplier applied when Write overflows.
const growthFactor = 2

// Framer buffers written samples in a ring and hands out windows of a
// fixed size whose starts are hop samples apart. Input may arrive in
// chunks of any length; the sequence of windows depends only on the
// concatenated stream.
//
// A Framer may be written from one goroutine and drained from another.
type Framer struct {
	window int
	hop    int

	mu       sync.Mutex
	data     []float64
	size     int
	readPos  int
	writePos int
	consumed int64
}

// New returns a framer for windows of window samples advancing by hop.
// hop must be in (0, window].
func New(window, hop int) (*Framer, error) {
	if window < 1 || hop < 1 || hop > window {
		return nil, fmt.Errorf("%w: window %d, hop %d", ErrInvalidGeometry, window, hop)
	}
	return &Framer{
		window: window,
		hop:    hop,
		data:   make([]float64, growthFactor*window),
	}, nil
}

// Window returns the window length in samples.
func (f *Framer) Window() int { return f.window }

// Hop returns the distance between window starts in samples.
func (f *Framer) Hop() int { return f.hop }

// Write appends samples to the stream, growing the ring when needed.
func (f *Framer) Write(samples []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(samples) == 0 {
		return
	}
	if f.size+len(samples) > len(f.data) {
		f.grow(f.size + len(samples))
	}
	for _, s := range samples {
		f.data[f.writePos] = s
		f.writePos = (f.writePos + 1) % len(f.data)
	}
	f.size += len(samples)
}

// Next returns the next full window and drops the oldest hop samples.
// It reports false when fewer than a window's worth are buffered. The
// returned slice is a fresh copy.
func (f *Framer) Next() ([]float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.size < f.window {
		return nil, false
	}
	out := f.peek(f.window)
	f.discard(f.hop)
	return out, true
}

// Flush returns the final, zero-padded window when buffered samples remain
// that no full window has covered yet, and empties the framer.
func (f *Framer) Flush() ([]float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Samples already seen by a previous window are the first
	// window-hop of the buffer; anything beyond them is new.
	seen := 0
	if f.consumed > 0 {
		seen = f.window - f.hop
	}
	if f.size <= seen {
		f.reset()
		return nil, false
	}

	out := make([]float64, f.window)
	copy(out, f.peek(f.size))
	f.reset()
	return out, true
}

// Buffered returns the number of samples waiting in the ring.
func (f *Framer) Buffered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

// Position returns the stream offset of the start of the next window.
func (f *Framer) Position() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.consumed
}

// Reset drops all buffered samples and rewinds the stream position.
func (f *Framer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.consumed = 0
}

func (f *Framer) reset() {
	f.size = 0
	f.readPos = 0
	f.writePos = 0
}

func (f *Framer) peek(n int) []float64 {
	out := make([]float64, n)
	first := copy(out, f.data[f.readPos:min(f.readPos+n, len(f.data))])
	copy(out[first:], f.data[:n-first])
	return out
}

func (f *Framer) discard(n int) {
	f.readPos = (f.readPos + n) % len(f.data)
	f.size -= n
	f.consumed += int64(n)
}

// grow reallocates the ring so it holds at least minCapacity samples, with
// the buffered data moved to the front in order.
func (f *Framer) grow(minCapacity int) {
	capacity := len(f.data)
	for capacity < minCapacity {
		capacity *= growthFactor
	}
	data := make([]float64, capacity)
	copy(data, f.peek(f.size))

	f.data = data
	f.readPos = 0
	f.writePos = f.size
}
