// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik0310/Maverick-Ai/internal/gemini"
	"github.com/pratik0310/Maverick-Ai/internal/model"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeGenerator struct {
	mu       sync.Mutex
	reply    *gemini.Response
	err      error
	requests [][]model.Message
}

func (g *fakeGenerator) Generate(_ context.Context, history []model.Message) (*gemini.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, history)
	return g.reply, g.err
}

func textReply(s string) *gemini.Response {
	return &gemini.Response{Candidates: []gemini.Candidate{{
		Content: gemini.Content{Role: "model", Parts: []gemini.Part{{Text: s}}},
	}}}
}

type fakeSpeaker struct {
	busy    bool
	spoken  []string
	stops   int
	done    chan struct{}
	speakFn func() error
}

func (s *fakeSpeaker) Speak(_ context.Context, text string) (<-chan struct{}, error) {
	if s.speakFn != nil {
		if err := s.speakFn(); err != nil {
			return nil, err
		}
	}
	s.spoken = append(s.spoken, text)
	s.busy = true
	s.done = make(chan struct{})
	return s.done, nil
}

func (s *fakeSpeaker) Stop() error {
	s.stops++
	s.busy = false
	return nil
}

func (s *fakeSpeaker) IsBusy() bool { return s.busy }

func newController(sp *fakeSpeaker) *Controller {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if sp == nil {
		return New(nil, logger)
	}
	return New(sp, logger)
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_RejectsBlankInput(t *testing.T) {
	c := newController(nil)

	for _, in := range []string{"", "   ", "\n\t "} {
		p, ok := c.Submit(in)
		assert.False(t, ok)
		assert.Nil(t, p)
	}

	st := c.State()
	assert.Empty(t, st.Messages)
	assert.False(t, st.IsLoading)
	assert.False(t, st.HasError())
}

func TestSubmit_AppendsTrimmedUserMessage(t *testing.T) {
	c := newController(nil)
	c.SetInput("  Hello  ")

	p, ok := c.Submit(c.Input())
	require.True(t, ok)

	st := c.State()
	require.Len(t, st.Messages, 1)
	assert.Equal(t, model.RoleUser, st.Messages[0].Role)
	assert.Equal(t, "Hello", st.Messages[0].Text)
	assert.Empty(t, st.PendingInput)
	assert.True(t, st.IsLoading)

	assert.Equal(t, st.Generation, p.Generation)
	require.Len(t, p.History, 1)
	assert.Equal(t, p.UserMessage.ID, p.History[0].ID)
}

func TestSubmit_NormalizesToNFC(t *testing.T) {
	c := newController(nil)
	// "e" followed by a combining acute accent.
	_, ok := c.Submit("cafe\u0301")
	require.True(t, ok)
	assert.Equal(t, "caf\u00e9", c.State().Messages[0].Text)
}

func TestSubmit_RejectedWhileLoading(t *testing.T) {
	c := newController(nil)

	_, ok := c.Submit("first")
	require.True(t, ok)

	c.SetInput("second")
	p, ok := c.Submit("second")
	assert.False(t, ok)
	assert.Nil(t, p)

	st := c.State()
	assert.Len(t, st.Messages, 1)
	assert.Equal(t, "second", st.PendingInput)
}

func TestSubmit_ClearsPreviousError(t *testing.T) {
	c := newController(nil)
	g := &fakeGenerator{err: errors.New("boom")}

	require.True(t, c.Send(context.Background(), g, "one"))
	require.True(t, c.State().HasError())

	_, ok := c.Submit("two")
	require.True(t, ok)
	assert.False(t, c.State().HasError())
}

// =============================================================================
// RESOLVE TESTS
// =============================================================================

func TestSend_Success(t *testing.T) {
	c := newController(nil)
	g := &fakeGenerator{reply: textReply("Hi there")}

	require.True(t, c.Send(context.Background(), g, "Hello"))

	st := c.State()
	require.Len(t, st.Messages, 2)
	assert.Equal(t, model.RoleModel, st.Messages[1].Role)
	assert.Equal(t, "Hi there", st.Messages[1].Text)
	assert.False(t, st.IsLoading)
	assert.False(t, st.HasError())
}

func TestSend_SendsFullHistory(t *testing.T) {
	c := newController(nil)
	g := &fakeGenerator{reply: textReply("ok")}

	require.True(t, c.Send(context.Background(), g, "one"))
	require.True(t, c.Send(context.Background(), g, "two"))

	require.Len(t, g.requests, 2)
	last := g.requests[1]
	require.Len(t, last, 3)
	assert.Equal(t, []string{"one", "ok", "two"}, []string{last[0].Text, last[1].Text, last[2].Text})
	assert.Equal(t, []model.Role{model.RoleUser, model.RoleModel, model.RoleUser},
		[]model.Role{last[0].Role, last[1].Role, last[2].Role})
}

func TestSend_FallbackReply(t *testing.T) {
	tests := []struct {
		name  string
		reply *gemini.Response
	}{
		{"nil response", nil},
		{"no candidates", &gemini.Response{}},
		{"no parts", &gemini.Response{Candidates: []gemini.Candidate{{}}}},
		{"empty text", textReply("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(nil)
			require.True(t, c.Send(context.Background(), &fakeGenerator{reply: tt.reply}, "Hi"))

			st := c.State()
			require.Len(t, st.Messages, 2)
			assert.Equal(t, FallbackReply, st.Messages[1].Text)
			assert.False(t, st.HasError())
		})
	}
}

func TestSend_Failure(t *testing.T) {
	c := newController(nil)
	g := &fakeGenerator{err: &gemini.APIError{Status: 500}}

	require.True(t, c.Send(context.Background(), g, "Hi"))

	st := c.State()
	require.Len(t, st.Messages, 1)
	assert.Equal(t, model.RoleUser, st.Messages[0].Role)
	assert.Equal(t, ErrorText, st.LastError)
	assert.False(t, st.IsLoading)
	assert.Len(t, g.requests, 1)
}

func TestResolve_StaleAfterReset(t *testing.T) {
	c := newController(nil)

	p, ok := c.Submit("Hello")
	require.True(t, ok)

	require.True(t, c.Reset(context.Background()))
	assert.False(t, c.State().IsLoading)

	applied := c.Resolve(p.Run(context.Background(), &fakeGenerator{reply: textReply("late")}))
	assert.False(t, applied)

	st := c.State()
	assert.Empty(t, st.Messages)
	assert.False(t, st.HasError())
}

func TestResolve_StaleFailureDoesNotSetError(t *testing.T) {
	c := newController(nil)

	p, ok := c.Submit("Hello")
	require.True(t, ok)
	c.Reset(context.Background())

	// A new submission in the new conversation is in flight.
	_, ok = c.Submit("Again")
	require.True(t, ok)

	assert.False(t, c.Resolve(p.Run(context.Background(), &fakeGenerator{err: errors.New("late")})))

	st := c.State()
	assert.True(t, st.IsLoading)
	assert.False(t, st.HasError())
	require.Len(t, st.Messages, 1)
	assert.Equal(t, "Again", st.Messages[0].Text)
}

func TestRun_ConcurrentWithEditing(t *testing.T) {
	c := newController(nil)
	g := &fakeGenerator{reply: textReply("pong")}

	p, ok := c.Submit("ping")
	require.True(t, ok)

	results := make(chan Result, 1)
	go func() { results <- p.Run(context.Background(), g) }()

	c.SetInput("typing while waiting")
	require.True(t, c.Resolve(<-results))

	st := c.State()
	assert.Len(t, st.Messages, 2)
	assert.Equal(t, "typing while waiting", st.PendingInput)
}

// =============================================================================
// RESET TESTS
// =============================================================================

func TestReset_EmptyIsNoop(t *testing.T) {
	c := newController(nil)
	c.SetInput("draft")

	assert.False(t, c.NeedsConfirmation())
	assert.False(t, c.Reset(context.Background()))

	st := c.State()
	assert.Equal(t, "draft", st.PendingInput)
	assert.Zero(t, st.Generation)
}

func TestReset_ClearsEverything(t *testing.T) {
	sp := &fakeSpeaker{}
	c := newController(sp)
	g := &fakeGenerator{err: errors.New("down")}

	require.True(t, c.Send(context.Background(), g, "Hi"))
	c.SetInput("draft")
	require.True(t, c.NeedsConfirmation())

	require.True(t, c.Reset(context.Background()))

	st := c.State()
	assert.Empty(t, st.Messages)
	assert.Empty(t, st.PendingInput)
	assert.False(t, st.HasError())
	assert.Equal(t, uint64(1), st.Generation)
	assert.Zero(t, sp.stops, "no speech was active")
}

func TestReset_StopsSpeech(t *testing.T) {
	sp := &fakeSpeaker{}
	c := newController(sp)
	require.True(t, c.Send(context.Background(), &fakeGenerator{reply: textReply("speak me")}, "Hi"))

	reply, ok := c.LastReply()
	require.True(t, ok)
	pb, err := c.ToggleSpeech(context.Background(), reply.ID)
	require.NoError(t, err)
	require.NotNil(t, pb)

	c.Reset(context.Background())

	st := c.State()
	assert.False(t, st.IsSpeaking)
	assert.Empty(t, st.SpeakingID)
	assert.Equal(t, 1, sp.stops)

	assert.False(t, c.SpeechFinished(pb.Token))
}

// =============================================================================
// SPEECH TESTS
// =============================================================================

func TestToggleSpeech_StartAndStop(t *testing.T) {
	sp := &fakeSpeaker{}
	c := newController(sp)
	require.True(t, c.Send(context.Background(), &fakeGenerator{reply: textReply("Hello there")}, "Hi"))
	reply, _ := c.LastReply()

	pb, err := c.ToggleSpeech(context.Background(), reply.ID)
	require.NoError(t, err)
	require.NotNil(t, pb)
	assert.Equal(t, reply.ID, pb.MessageID)
	assert.Equal(t, []string{"Hello there"}, sp.spoken)

	st := c.State()
	assert.True(t, st.IsSpeaking)
	assert.Equal(t, reply.ID, st.SpeakingID)

	pb2, err := c.ToggleSpeech(context.Background(), reply.ID)
	require.NoError(t, err)
	assert.Nil(t, pb2)
	assert.Equal(t, 1, sp.stops)
	assert.False(t, c.State().IsSpeaking)
}

func TestToggleSpeech_WhileSpeakingStopsRegardlessOfTarget(t *testing.T) {
	sp := &fakeSpeaker{}
	c := newController(sp)
	g := &fakeGenerator{reply: textReply("a")}
	require.True(t, c.Send(context.Background(), g, "1"))
	require.True(t, c.Send(context.Background(), g, "2"))
	ids := c.ReplyIDs()
	require.Len(t, ids, 2)

	_, err := c.ToggleSpeech(context.Background(), ids[0])
	require.NoError(t, err)

	pb, err := c.ToggleSpeech(context.Background(), ids[1])
	require.NoError(t, err)
	assert.Nil(t, pb)
	assert.False(t, c.State().IsSpeaking)
	assert.Len(t, sp.spoken, 1)
}

func TestToggleSpeech_BusyEngineIsNoop(t *testing.T) {
	sp := &fakeSpeaker{busy: true}
	c := newController(sp)
	require.True(t, c.Send(context.Background(), &fakeGenerator{reply: textReply("x")}, "Hi"))
	reply, _ := c.LastReply()

	pb, err := c.ToggleSpeech(context.Background(), reply.ID)
	require.NoError(t, err)
	assert.Nil(t, pb)
	assert.Empty(t, sp.spoken)
	assert.Zero(t, sp.stops)
	assert.False(t, c.State().IsSpeaking)
}

func TestToggleSpeech_RepeatedWhileEngineBusy(t *testing.T) {
	sp := &fakeSpeaker{busy: true}
	c := newController(sp)
	require.True(t, c.Send(context.Background(), &fakeGenerator{reply: textReply("x")}, "Hi"))
	reply, _ := c.LastReply()

	for i := 0; i < 2; i++ {
		pb, err := c.ToggleSpeech(context.Background(), reply.ID)
		require.NoError(t, err)
		assert.Nil(t, pb, "toggle %d", i+1)
	}
	assert.Empty(t, sp.spoken)
	assert.Zero(t, sp.stops)
	assert.True(t, sp.IsBusy(), "engine playback must not be interrupted")
	assert.False(t, c.State().IsSpeaking)
}

func TestToggleSpeech_Errors(t *testing.T) {
	sp := &fakeSpeaker{}
	c := newController(sp)
	require.True(t, c.Send(context.Background(), &fakeGenerator{reply: textReply("x")}, "Hi"))
	user := c.State().Messages[0]

	_, err := c.ToggleSpeech(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = c.ToggleSpeech(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrNotModelMessage)

	sp.speakFn = func() error { return errors.New("no audio device") }
	reply, _ := c.LastReply()
	_, err = c.ToggleSpeech(context.Background(), reply.ID)
	assert.Error(t, err)
	assert.False(t, c.State().IsSpeaking)
}

func TestToggleSpeech_AllowedWhileLoading(t *testing.T) {
	sp := &fakeSpeaker{}
	c := newController(sp)
	require.True(t, c.Send(context.Background(), &fakeGenerator{reply: textReply("x")}, "Hi"))
	reply, _ := c.LastReply()

	_, ok := c.Submit("next")
	require.True(t, ok)

	pb, err := c.ToggleSpeech(context.Background(), reply.ID)
	require.NoError(t, err)
	assert.NotNil(t, pb)
	assert.True(t, c.State().IsLoading)
}

func TestSpeechFinished_OnlyActivePlayback(t *testing.T) {
	sp := &fakeSpeaker{}
	c := newController(sp)
	require.True(t, c.Send(context.Background(), &fakeGenerator{reply: textReply("x")}, "Hi"))
	reply, _ := c.LastReply()

	first, err := c.ToggleSpeech(context.Background(), reply.ID)
	require.NoError(t, err)
	_, _ = c.ToggleSpeech(context.Background(), reply.ID) // stop

	second, err := c.ToggleSpeech(context.Background(), reply.ID)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.False(t, c.SpeechFinished(first.Token), "stale token must not clear the flag")
	assert.True(t, c.State().IsSpeaking)

	assert.True(t, c.SpeechFinished(second.Token))
	assert.False(t, c.State().IsSpeaking)
	assert.False(t, c.SpeechFinished(second.Token))
}
