// Package utils holds small io helpers shared by the commands.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter holds writes in memory while a full-screen program owns the
// terminal. Release flushes them to the real destination and switches to
// pass-through. Safe for concurrent use.
type DeferredWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	dest io.Writer // set once released
}

// Write buffers p, or forwards it once the writer has been released.
func (d *DeferredWriter) Write(p []byte) (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dest != nil {
		return d.dest.Write(p)
	}
	return d.buf.Write(p)
}

// Len returns the number of buffered bytes.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Len()
}

// Flush writes all buffered data to w and clears the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flush(w)
}

// Release flushes buffered data to w and forwards every later write to it.
func (d *DeferredWriter) Release(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dest = w
	return d.flush(w)
}

func (d *DeferredWriter) flush(w io.Writer) error {
	if d.buf.Len() == 0 {
		return nil
	}

	_, err := d.buf.WriteTo(w)
	return err
}
