// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/pratik0310/Maverick-Ai/internal/gemini"
	"github.com/pratik0310/Maverick-Ai/internal/model"
	"github.com/pratik0310/Maverick-Ai/internal/speech"
)

const (
	// FallbackReply is shown when a response carries no reply text.
	FallbackReply = "Sorry, I couldn't process that."

	// ErrorText is the only failure message the user ever sees.
	ErrorText = "Failed to get response from chatbot"
)

var (
	// ErrUnknownMessage indicates a message ID not present in the history.
	ErrUnknownMessage = errors.New("unknown message")

	// ErrNotModelMessage indicates speech was requested for a user message.
	ErrNotModelMessage = errors.New("only model replies can be spoken")
)

// =============================================================================
// STATE
// =============================================================================

// State is a point-in-time copy of the controller.
type State struct {
	Messages     []model.Message
	PendingInput string
	IsLoading    bool
	// LastError is empty when there is no error to show
	LastError  string
	IsSpeaking bool
	// SpeakingID is the message being voiced; display only
	SpeakingID string
	Generation uint64
}

// HasError reports whether an error line should be shown.
func (s State) HasError() bool {
	return s.LastError != ""
}

// IsEmpty reports whether there are no messages.
func (s State) IsEmpty() bool {
	return len(s.Messages) == 0
}

// =============================================================================
// PENDING REQUEST
// =============================================================================

// Pending is an accepted submission waiting for its reply. It owns a copy of
// the history, so Run may execute on any goroutine.
type Pending struct {
	Generation  uint64
	UserMessage model.Message
	History     []model.Message
}

// Result is the outcome of a Pending request.
type Result struct {
	Generation uint64
	Response   *gemini.Response
	Err        error
	Elapsed    time.Duration
}

// Run sends the captured history to g.
func (p *Pending) Run(ctx context.Context, g gemini.Generator) Result {
	start := time.Now()
	resp, err := g.Generate(ctx, p.History)
	return Result{
		Generation: p.Generation,
		Response:   resp,
		Err:        err,
		Elapsed:    time.Since(start),
	}
}

// Playback identifies a speech playback started by ToggleSpeech. Done is
// closed when the engine stops; pass Token to SpeechFinished then.
type Playback struct {
	Token     uint64
	MessageID string
	Done      <-chan struct{}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the conversation state. Every method is safe for
// concurrent use, though the UI drives it from a single loop.
type Controller struct {
	mu sync.Mutex

	conv       *model.Conversation
	input      string
	loading    bool
	lastError  string
	speaking   bool
	speakingID string
	// speechToken identifies the active playback
	speechToken uint64
	generation  uint64

	speaker speech.Speaker
	logger  *slog.Logger
}

// New creates a controller with an empty conversation. A nil speaker is
// replaced with speech.Nop.
func New(speaker speech.Speaker, logger *slog.Logger) *Controller {
	if speaker == nil {
		speaker = speech.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		conv:    model.NewConversation(),
		speaker: speaker,
		logger:  logger,
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Messages:     c.conv.History(),
		PendingInput: c.input,
		IsLoading:    c.loading,
		LastError:    c.lastError,
		IsSpeaking:   c.speaking,
		SpeakingID:   c.speakingID,
		Generation:   c.generation,
	}
}

// SetInput replaces the pending input. It is allowed in every state.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// Input returns the pending input.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// NeedsConfirmation reports whether a reset would discard messages.
func (c *Controller) NeedsConfirmation() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.conv.IsEmpty()
}

// LastReply returns the most recent model reply.
func (c *Controller) LastReply() (model.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.LastModelMessage()
}

// ReplyIDs returns the IDs of all model replies in display order.
func (c *Controller) ReplyIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.ModelMessages()
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit accepts text as the next user message. It returns false without
// changing anything when the trimmed text is empty or a request is already
// in flight.
func (c *Controller) Submit(text string) (*Pending, bool) {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Debug("submit rejected, request in flight")
		return nil, false
	}

	msg := c.conv.AddUserMessage(text)
	c.input = ""
	c.loading = true
	c.lastError = ""

	c.logger.Debug("message submitted", "id", msg.ID, "generation", c.generation, "messages", c.conv.Len())

	return &Pending{
		Generation:  c.generation,
		UserMessage: msg,
		History:     c.conv.History(),
	}, true
}

// Resolve applies a finished request. It returns false and changes nothing
// when the result belongs to a conversation that has since been reset.
func (c *Controller) Resolve(r Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Generation != c.generation {
		c.logger.Info("discarding stale reply",
			"reply_generation", r.Generation,
			"current_generation", c.generation)
		return false
	}

	c.loading = false

	if r.Err != nil {
		c.lastError = ErrorText
		c.logger.Warn("generation request failed", "error", r.Err, "elapsed", r.Elapsed)
		return true
	}

	text, ok := r.Response.Text()
	if !ok {
		c.logger.Warn("reply had no text, using fallback", "elapsed", r.Elapsed)
		text = FallbackReply
	}
	msg := c.conv.AddModelMessage(text)
	c.logger.Debug("reply received", "id", msg.ID, "chars", len(text), "elapsed", r.Elapsed)
	return true
}

// Send submits text and waits for the reply on the calling goroutine. It
// returns false when the submission was rejected or the reply was stale.
func (c *Controller) Send(ctx context.Context, g gemini.Generator, text string) bool {
	p, ok := c.Submit(text)
	if !ok {
		return false
	}
	return c.Resolve(p.Run(ctx, g))
}

// =============================================================================
// RESET
// =============================================================================

// Reset starts a new conversation. Messages, input and error are cleared,
// speech is stopped, and any request still in flight is orphaned: its reply
// will be discarded by Resolve. Reset of an empty conversation does nothing
// and returns false.
func (c *Controller) Reset(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conv.IsEmpty() {
		return false
	}

	if c.speaking {
		if err := c.speaker.Stop(); err != nil {
			c.logger.WarnContext(ctx, "failed to stop speech on reset", "error", err)
		}
		c.speaking = false
		c.speakingID = ""
	}

	c.conv = model.NewConversation()
	c.input = ""
	c.lastError = ""
	c.loading = false
	c.generation++

	c.logger.InfoContext(ctx, "conversation reset", "generation", c.generation)
	return true
}

// =============================================================================
// SPEECH
// =============================================================================

// ToggleSpeech stops speech if any is playing. Otherwise it starts voicing
// the model reply with the given ID, unless the engine is busy, in which
// case nothing happens. A nil Playback means no playback was started.
func (c *Controller) ToggleSpeech(ctx context.Context, messageID string) (*Playback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.speaking {
		c.speaking = false
		c.speakingID = ""
		if err := c.speaker.Stop(); err != nil {
			c.logger.Warn("failed to stop speech", "error", err)
			return nil, err
		}
		return nil, nil
	}

	msg, ok := c.conv.Find(messageID)
	if !ok {
		return nil, ErrUnknownMessage
	}
	if msg.Role != model.RoleModel {
		return nil, ErrNotModelMessage
	}

	if c.speaker.IsBusy() {
		c.logger.Debug("speech engine busy, ignoring toggle")
		return nil, nil
	}

	done, err := c.speaker.Speak(ctx, msg.Text)
	if err != nil {
		c.logger.Warn("failed to start speech", "error", err)
		return nil, err
	}

	c.speechToken++
	c.speaking = true
	c.speakingID = msg.ID

	return &Playback{
		Token:     c.speechToken,
		MessageID: msg.ID,
		Done:      done,
	}, nil
}

// SpeechFinished records that the playback identified by token ended on its
// own. Tokens of earlier playbacks are ignored.
func (c *Controller) SpeechFinished(token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.speaking || token != c.speechToken {
		return false
	}
	c.speaking = false
	c.speakingID = ""
	return true
}
