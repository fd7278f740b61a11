package logging

import (
	"io"
	"os"
	"sync"
)

// globalWriter delegates to a writer that can be swapped at runtime.
type globalWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

// Write implements io.Writer.
func (gw *globalWriter) Write(p []byte) (n int, err error) {
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	return gw.w.Write(p)
}

// Set swaps the underlying writer and returns the previous one.
func (gw *globalWriter) Set(w io.Writer) io.Writer {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	previous := gw.w
	gw.w = w
	return previous
}

// defaultGlobalWriter is the single stderr sink shared by every logger.
var defaultGlobalWriter = &globalWriter{w: os.Stderr}

// SetGlobalOutput redirects the stderr sink of every logger and returns the
// writer it replaced. The race TUI points it at io.Discard while the
// alternate screen is active.
func SetGlobalOutput(w io.Writer) io.Writer {
	return defaultGlobalWriter.Set(w)
}

// GetGlobalOutput returns the swappable stderr sink. Loggers write to it
// instead of os.Stderr so SetGlobalOutput reaches them after creation.
func GetGlobalOutput() io.Writer {
	return defaultGlobalWriter
}
