package service

import (
	"context"
	"strings"
	"sync"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/port"

	"go.uber.org/zap"
)

// VoiceState is the press-and-hold capture state.
type VoiceState string

const (
	VoiceIdle       VoiceState = "IDLE"
	VoiceListening  VoiceState = "LISTENING"
	VoiceSubmitting VoiceState = "SUBMITTING"
)

const (
	PromptIdle      = "Hold to Speak"
	PromptListening = "Listening..."
)

// VoiceStatus is a snapshot of the controller for display.
type VoiceStatus struct {
	State      VoiceState `json:"state"`
	Transcript string     `json:"transcript"`
	Prompt     string     `json:"prompt"`
	Processing bool       `json:"processing"`
}

type commandDispatcher interface {
	Submit(ctx context.Context, transcript string) (*domain.CommandResponse, error)
	Processing() bool
}

// VoiceController drives the capture capability through
// IDLE -> LISTENING -> SUBMITTING -> IDLE.
type VoiceController struct {
	mu       sync.Mutex
	state    VoiceState
	capture  port.SpeechCapture
	dispatch commandDispatcher
	onChange func(VoiceStatus)
	logger   *zap.Logger
}

// NewVoiceController creates an idle controller.
func NewVoiceController(capture port.SpeechCapture, dispatch commandDispatcher, logger *zap.Logger) *VoiceController {
	return &VoiceController{
		state:    VoiceIdle,
		capture:  capture,
		dispatch: dispatch,
		logger:   logger,
	}
}

// OnChange sets the callback invoked after every state change.
func (c *VoiceController) OnChange(fn func(VoiceStatus)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Start begins listening. It reports false without error when the controller
// is busy: already listening, or a command is being submitted.
func (c *VoiceController) Start() (bool, error) {
	c.mu.Lock()
	if c.state != VoiceIdle || c.dispatch.Processing() {
		c.mu.Unlock()
		return false, nil
	}
	if err := c.capture.Start(); err != nil {
		c.mu.Unlock()
		c.logger.Warn("speech capture failed to start", zap.Error(err))
		return false, err
	}
	c.state = VoiceListening
	c.mu.Unlock()

	c.notify()
	return true, nil
}

// Stop releases the capture and submits what was heard.
//
// A blank transcript returns to IDLE with *domain.ErrValidation and produces
// no turn. Otherwise the raw transcript goes to the dispatcher and the
// controller stays in SUBMITTING until the dispatch completes.
func (c *VoiceController) Stop(ctx context.Context) (*domain.CommandResponse, error) {
	c.mu.Lock()
	if c.state != VoiceListening {
		c.mu.Unlock()
		return nil, domain.ErrNotListening
	}
	c.capture.Stop()
	transcript := c.capture.Transcript()

	if strings.TrimSpace(transcript) == "" {
		c.state = VoiceIdle
		c.mu.Unlock()
		c.notify()
		return nil, &domain.ErrValidation{Field: "transcript", Message: "nothing was heard"}
	}

	c.state = VoiceSubmitting
	c.mu.Unlock()
	c.notify()

	resp, err := c.dispatch.Submit(ctx, transcript)

	c.mu.Lock()
	c.state = VoiceIdle
	c.mu.Unlock()
	c.notify()

	return resp, err
}

// State returns the current state.
func (c *VoiceController) State() VoiceState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript returns the live transcript while listening and "" otherwise.
func (c *VoiceController) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcriptLocked()
}

// Prompt returns the text shown on the capture control.
func (c *VoiceController) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.promptLocked()
}

// Status returns a consistent snapshot of state, transcript and prompt.
func (c *VoiceController) Status() VoiceStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *VoiceController) transcriptLocked() string {
	if c.state != VoiceListening {
		return ""
	}
	return c.capture.Transcript()
}

func (c *VoiceController) promptLocked() string {
	if c.state != VoiceListening {
		return PromptIdle
	}
	if t := c.capture.Transcript(); t != "" {
		return t
	}
	return PromptListening
}

func (c *VoiceController) statusLocked() VoiceStatus {
	return VoiceStatus{
		State:      c.state,
		Transcript: c.transcriptLocked(),
		Prompt:     c.promptLocked(),
		Processing: c.state == VoiceSubmitting || c.dispatch.Processing(),
	}
}

func (c *VoiceController) notify() {
	c.mu.Lock()
	fn := c.onChange
	st := c.statusLocked()
	c.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}
