// Package verify implements the two-stage "request a code, then submit it"
// flow shared by login and channel binding.
//
// A Workflow moves through four stages:
//
//	INPUT_RECIPIENT -> REQUEST_CODE -> INPUT_CODE -> REQUEST_SUBMIT
//
// REQUEST_CODE and REQUEST_SUBMIT last exactly as long as the Verifier call;
// input is refused while they are active. A failed request returns to the
// stage it came from with a message. A successful submit ends the workflow
// and reports the verified recipient through OnSuccess.
//
// After a rejected code the entered code is kept, so the user edits it
// rather than retyping it. Going back from INPUT_CODE discards the code and
// keeps the recipient.
package verify

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrBusy is returned when the workflow is waiting for a request.
	ErrBusy = errors.New("verification request in progress")
	// ErrWrongStage is returned for an action the current stage does not accept.
	ErrWrongStage = errors.New("action not allowed at this stage")
	// ErrEmptyInput is returned when submitting an empty field.
	ErrEmptyInput = errors.New("field is empty")
	// ErrFinished is returned after the workflow succeeded or was cancelled.
	ErrFinished = errors.New("verification finished")
)

const (
	// MaxRecipientLength caps the recipient field, in characters.
	MaxRecipientLength = 32
	// CodeLength caps the code field, in digits.
	CodeLength = 4
)

type Stage int

const (
	StageInputRecipient Stage = iota
	StageRequestCode
	StageInputCode
	StageRequestSubmit
)

func (s Stage) String() string {
	switch s {
	case StageInputRecipient:
		return "INPUT_RECIPIENT"
	case StageRequestCode:
		return "REQUEST_CODE"
	case StageInputCode:
		return "INPUT_CODE"
	case StageRequestSubmit:
		return "REQUEST_SUBMIT"
	}
	return "UNKNOWN"
}

// SendResult is the outcome of asking for a code.
type SendResult int

const (
	SendOK SendResult = iota
	SendBadRecipient
	SendError
)

// SubmitResult is the outcome of submitting a code.
type SubmitResult int

const (
	SubmitOK SubmitResult = iota
	SubmitBadCode
	SubmitError
)

// Verifier backs a workflow with the remote operations of one call site.
type Verifier interface {
	RequestCode(ctx context.Context, recipient string) SendResult
	SubmitCode(ctx context.Context, recipient, code string) SubmitResult
}

// Messages are shown to the user after a failed request.
type Messages struct {
	BadRecipient string
	SendError    string
	BadCode      string
	SubmitError  string
}

// DefaultMessages are used for any message left empty.
var DefaultMessages = Messages{
	BadRecipient: "Could not send a code to this address",
	SendError:    "Could not send the code, try again later",
	BadCode:      "Wrong code",
	SubmitError:  "Could not check the code, try again later",
}

func (m Messages) withDefaults() Messages {
	if m.BadRecipient == "" {
		m.BadRecipient = DefaultMessages.BadRecipient
	}
	if m.SendError == "" {
		m.SendError = DefaultMessages.SendError
	}
	if m.BadCode == "" {
		m.BadCode = DefaultMessages.BadCode
	}
	if m.SubmitError == "" {
		m.SubmitError = DefaultMessages.SubmitError
	}
	return m
}

// Options configure a Workflow. Both callbacks run without the workflow
// lock held.
type Options struct {
	Messages Messages
	// Recipient pre-fills the recipient field.
	Recipient string
	// OnSuccess receives the verified recipient.
	OnSuccess func(ctx context.Context, recipient string)
	// OnCancel is called when going back from INPUT_RECIPIENT.
	OnCancel func()
}

// Workflow walks one recipient through code verification: enter the
// recipient, request a code, enter the code, submit it. Input is refused
// while a request is running (see Disabled), and after success or cancel
// the workflow is finished and refuses everything.
type Workflow struct {
	mu sync.Mutex

	verifier Verifier
	opts     Options

	stage     Stage
	recipient string
	code      string
	message   string
	finished  bool
}

// New returns a workflow at INPUT_RECIPIENT. The recipient is pre-filled
// from opts.Recipient, and empty messages fall back to DefaultMessages.
func New(v Verifier, opts Options) *Workflow {
	opts.Messages = opts.Messages.withDefaults()
	return &Workflow{
		verifier:  v,
		opts:      opts,
		recipient: FilterRecipient(opts.Recipient),
	}
}

// FilterRecipient caps s at MaxRecipientLength characters.
func FilterRecipient(s string) string {
	r := []rune(s)
	if len(r) > MaxRecipientLength {
		r = r[:MaxRecipientLength]
	}
	return string(r)
}

// FilterCode keeps the first CodeLength digits of s.
func FilterCode(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == CodeLength {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}

func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

func (w *Workflow) Recipient() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.recipient
}

func (w *Workflow) Code() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.code
}

// Message returns the message left by the last failed request, or "".
func (w *Workflow) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// Disabled reports whether input is refused because a request is running.
func (w *Workflow) Disabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy()
}

// Finished reports whether the workflow succeeded or was cancelled.
func (w *Workflow) Finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finished
}

func (w *Workflow) busy() bool {
	return w.stage == StageRequestCode || w.stage == StageRequestSubmit
}

func (w *Workflow) check() error {
	if w.finished {
		return ErrFinished
	}
	if w.busy() {
		return ErrBusy
	}
	return nil
}

// SetInput replaces the field of the current stage with the filtered value
// and returns what was stored.
func (w *Workflow) SetInput(s string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.check(); err != nil {
		return "", err
	}
	if w.stage == StageInputCode {
		w.code = FilterCode(s)
		return w.code, nil
	}
	w.recipient = FilterRecipient(s)
	return w.recipient, nil
}

// Next submits the field of the current stage and blocks until the
// verifier answers.
func (w *Workflow) Next(ctx context.Context) error {
	w.mu.Lock()
	if err := w.check(); err != nil {
		w.mu.Unlock()
		return err
	}

	switch w.stage {
	case StageInputRecipient:
		if strings.TrimSpace(w.recipient) == "" {
			w.mu.Unlock()
			return ErrEmptyInput
		}
		w.stage = StageRequestCode
		w.message = ""
		recipient := w.recipient
		w.mu.Unlock()

		res := w.verifier.RequestCode(ctx, recipient)

		w.mu.Lock()
		defer w.mu.Unlock()
		switch res {
		case SendOK:
			w.stage = StageInputCode
		case SendBadRecipient:
			w.stage = StageInputRecipient
			w.message = w.opts.Messages.BadRecipient
		default:
			w.stage = StageInputRecipient
			w.message = w.opts.Messages.SendError
		}
		return nil

	case StageInputCode:
		if w.code == "" {
			w.mu.Unlock()
			return ErrEmptyInput
		}
		w.stage = StageRequestSubmit
		w.message = ""
		recipient, code := w.recipient, w.code
		w.mu.Unlock()

		res := w.verifier.SubmitCode(ctx, recipient, code)

		w.mu.Lock()
		switch res {
		case SubmitOK:
			w.finished = true
			w.mu.Unlock()
			if w.opts.OnSuccess != nil {
				w.opts.OnSuccess(ctx, recipient)
			}
			return nil
		case SubmitBadCode:
			w.message = w.opts.Messages.BadCode
		default:
			w.message = w.opts.Messages.SubmitError
		}
		w.stage = StageInputCode
		w.mu.Unlock()
		return nil
	}

	w.mu.Unlock()
	return ErrWrongStage
}

// Back returns from INPUT_CODE to INPUT_RECIPIENT. From INPUT_RECIPIENT it
// finishes the workflow and calls OnCancel.
func (w *Workflow) Back() error {
	w.mu.Lock()
	if err := w.check(); err != nil {
		w.mu.Unlock()
		return err
	}

	if w.stage == StageInputCode {
		w.stage = StageInputRecipient
		w.code = ""
		w.message = ""
		w.mu.Unlock()
		return nil
	}

	w.finished = true
	w.mu.Unlock()
	if w.opts.OnCancel != nil {
		w.opts.OnCancel()
	}
	return nil
}
