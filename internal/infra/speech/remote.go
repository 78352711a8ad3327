// Package speech provides adapters for the speech-capture capability.
// Recognition itself happens elsewhere: Remote receives the transcript from
// the browser, Scripted plays back utterances from a file.
package speech

import (
	"strings"
	"sync"
)

// Remote is a capture whose transcript is pushed by the client that owns the
// microphone. The client sends its cumulative transcript while listening.
type Remote struct {
	mu         sync.Mutex
	listening  bool
	transcript string
}

// NewRemote creates an idle Remote capture.
func NewRemote() *Remote {
	return &Remote{}
}

// Start begins a capture and clears the previous transcript.
func (r *Remote) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listening = true
	r.transcript = ""
	return nil
}

// Stop ends the capture. The transcript stays readable until the next Start.
func (r *Remote) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listening = false
}

// IsListening reports whether a capture is in progress.
func (r *Remote) IsListening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Transcript returns the text recognised so far.
func (r *Remote) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transcript
}

// Update replaces the transcript with the client's latest cumulative text.
// The transcript only grows: updates that arrive outside a capture, or that do
// not extend the current text, are dropped. It reports whether the update was
// applied.
func (r *Remote) Update(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.listening || !strings.HasPrefix(text, r.transcript) {
		return false
	}
	r.transcript = text
	return true
}
