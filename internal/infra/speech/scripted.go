package speech

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrScriptExhausted is returned by Scripted.Start when every utterance has been played.
var ErrScriptExhausted = errors.New("speech script exhausted")

// Script is a replay file: a named list of utterances spoken in order.
type Script struct {
	Name       string   `yaml:"name"`
	Utterances []string `yaml:"utterances"`
}

// LoadScript parses a YAML script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return ParseScript(data)
}

// ParseScript parses YAML script content.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	return &s, nil
}

// Scripted is a capture that "hears" the next utterance of a script on every
// Start. Empty utterances are kept so silent presses can be replayed.
type Scripted struct {
	mu         sync.Mutex
	utterances []string
	next       int
	listening  bool
	transcript string
}

// NewScripted creates a capture that plays s from the beginning.
func NewScripted(s *Script) *Scripted {
	return &Scripted{utterances: append([]string(nil), s.Utterances...)}
}

// Start begins a capture and loads the next utterance as its transcript.
func (s *Scripted) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.utterances) {
		return ErrScriptExhausted
	}
	s.listening = true
	s.transcript = s.utterances[s.next]
	s.next++
	return nil
}

// Stop ends the capture.
func (s *Scripted) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listening = false
}

// IsListening reports whether a capture is in progress.
func (s *Scripted) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// Transcript returns the utterance of the current or last capture.
func (s *Scripted) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// Remaining returns how many utterances have not been played yet.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.utterances) - s.next
}
