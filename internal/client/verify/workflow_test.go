package verify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	mu sync.Mutex

	send   SendResult
	submit SubmitResult

	requested []string
	submitted [][2]string

	// block, when set, is received from before answering.
	block chan struct{}
}

func (s *stubVerifier) RequestCode(_ context.Context, recipient string) SendResult {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requested = append(s.requested, recipient)
	return s.send
}

func (s *stubVerifier) SubmitCode(_ context.Context, recipient, code string) SubmitResult {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, [2]string{recipient, code})
	return s.submit
}

func TestFilterCode(t *testing.T) {
	tests := map[string]string{
		"12a3b4c5": "1234",
		"":         "",
		"abc":      "",
		"98":       "98",
		"1 2-3_4":  "1234",
		"١٢٣٤":     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FilterCode(in), in)
	}
}

func TestFilterRecipient(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	assert.Equal(t, long[:MaxRecipientLength], FilterRecipient(long))
	assert.Equal(t, "a b@c.d!", FilterRecipient("a b@c.d!"), "no character filtering")

	cyr := "абвгдеёжзийклмнопрстуфхцчшщъыьэюя"
	assert.Len(t, []rune(FilterRecipient(cyr)), MaxRecipientLength)
}

func TestWorkflow_HappyPath(t *testing.T) {
	v := &stubVerifier{}
	var verified string
	w := New(v, Options{OnSuccess: func(_ context.Context, r string) { verified = r }})
	ctx := context.Background()

	assert.Equal(t, StageInputRecipient, w.Stage())
	_, err := w.SetInput("a@b.com")
	require.NoError(t, err)
	require.NoError(t, w.Next(ctx))
	assert.Equal(t, StageInputCode, w.Stage())

	stored, err := w.SetInput("12a3b4c5")
	require.NoError(t, err)
	assert.Equal(t, "1234", stored)
	require.NoError(t, w.Next(ctx))

	assert.True(t, w.Finished())
	assert.Equal(t, "a@b.com", verified)
	assert.Equal(t, []string{"a@b.com"}, v.requested)
	assert.Equal(t, [][2]string{{"a@b.com", "1234"}}, v.submitted)

	assert.ErrorIs(t, w.Next(ctx), ErrFinished)
}

func TestWorkflow_RequestFailureReturnsToRecipient(t *testing.T) {
	tests := []struct {
		name string
		res  SendResult
		msg  string
	}{
		{"bad recipient", SendBadRecipient, "no such mailbox"},
		{"error", SendError, "try later"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := &stubVerifier{send: tc.res}
			w := New(v, Options{
				Recipient: "a@b",
				Messages:  Messages{BadRecipient: "no such mailbox", SendError: "try later"},
			})

			require.NoError(t, w.Next(context.Background()))
			assert.Equal(t, StageInputRecipient, w.Stage())
			assert.Equal(t, tc.msg, w.Message())
			assert.Equal(t, "a@b", w.Recipient())
			assert.False(t, w.Finished())
		})
	}
}

func TestWorkflow_BadCodeKeepsRecipientAndCode(t *testing.T) {
	v := &stubVerifier{submit: SubmitBadCode}
	called := false
	w := New(v, Options{Recipient: "a@b.com", OnSuccess: func(context.Context, string) { called = true }})
	ctx := context.Background()

	require.NoError(t, w.Next(ctx))
	_, _ = w.SetInput("0000")
	require.NoError(t, w.Next(ctx))

	assert.Equal(t, StageInputCode, w.Stage())
	assert.Equal(t, DefaultMessages.BadCode, w.Message())
	assert.Equal(t, "a@b.com", w.Recipient())
	assert.Equal(t, "0000", w.Code())
	assert.False(t, called)

	v.submit = SubmitError
	require.NoError(t, w.Next(ctx))
	assert.Equal(t, StageInputCode, w.Stage())
	assert.Equal(t, DefaultMessages.SubmitError, w.Message())
}

func TestWorkflow_Back(t *testing.T) {
	v := &stubVerifier{}
	cancelled := 0
	w := New(v, Options{Recipient: "@tg", OnCancel: func() { cancelled++ }})
	ctx := context.Background()

	require.NoError(t, w.Next(ctx))
	_, _ = w.SetInput("12")

	require.NoError(t, w.Back())
	assert.Equal(t, StageInputRecipient, w.Stage())
	assert.Empty(t, w.Code())
	assert.Equal(t, "@tg", w.Recipient())
	assert.Zero(t, cancelled)

	require.NoError(t, w.Back())
	assert.Equal(t, 1, cancelled)
	assert.True(t, w.Finished())
	assert.ErrorIs(t, w.Back(), ErrFinished)
}

func TestWorkflow_EmptyInputIsRejected(t *testing.T) {
	v := &stubVerifier{}
	w := New(v, Options{})
	ctx := context.Background()

	_, _ = w.SetInput("   ")
	assert.ErrorIs(t, w.Next(ctx), ErrEmptyInput)
	assert.Empty(t, v.requested)

	_, _ = w.SetInput("a@b.com")
	require.NoError(t, w.Next(ctx))
	_, _ = w.SetInput("xx")
	assert.ErrorIs(t, w.Next(ctx), ErrEmptyInput)
	assert.Empty(t, v.submitted)
}

func TestWorkflow_DisabledWhileRequesting(t *testing.T) {
	v := &stubVerifier{block: make(chan struct{})}
	w := New(v, Options{Recipient: "a@b.com"})

	done := make(chan error, 1)
	go func() { done <- w.Next(context.Background()) }()

	require.Eventually(t, w.Disabled, time.Second, time.Millisecond)
	assert.Equal(t, StageRequestCode, w.Stage())

	_, err := w.SetInput("other")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, w.Back(), ErrBusy)
	assert.ErrorIs(t, w.Next(context.Background()), ErrBusy)

	close(v.block)
	require.NoError(t, <-done)
	assert.False(t, w.Disabled())
	assert.Equal(t, StageInputCode, w.Stage())
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "INPUT_RECIPIENT", StageInputRecipient.String())
	assert.Equal(t, "REQUEST_SUBMIT", StageRequestSubmit.String())
}
