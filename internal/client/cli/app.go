package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/state"
	"github.com/ascor/notifycli/internal/logging"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// SessionReader exposes the stored session for whoami and the prompt.
type SessionReader interface {
	Session(ctx context.Context) (models.Session, error)
}

// App drives a state.Machine from text commands, one per input line.
type App struct {
	machine *state.Machine
	session SessionReader
	log     logging.Logger

	interactive bool
	rendered    uint64
}

// NewApp returns an App over m. s supplies the e-mail shown in the prompt
// and by whoami.
func NewApp(m *state.Machine, s SessionReader, log logging.Logger) *App {
	return &App{machine: m, session: s, log: log}
}

// Run reads commands from in until the user exits or in is exhausted.
// Prompts are printed only when in is a terminal.
func (a *App) Run(ctx context.Context, in io.Reader) {
	if f, ok := in.(*os.File); ok {
		a.interactive = isTerminal(int(f.Fd()))
	}
	if a.interactive {
		printlnFn("Notification client (type 'help' for commands)")
	}
	a.log.Info(ctx, "cli started", "interactive", a.interactive)
	runREPL(ctx, a, bufio.NewScanner(in))
	a.log.Info(ctx, "cli stopped")
}

// settle runs LOADING to completion and renders the screen if it changed
// since it was last shown.
func (a *App) settle(ctx context.Context) {
	if a.machine.State().Screen == state.ScreenLoading {
		if a.interactive {
			printlnFn("Loading...")
		}
		if err := a.machine.Load(ctx); err != nil {
			a.log.Error(ctx, "load failed", "error", err)
		}
	}

	st := a.machine.State()
	if st.Generation != a.rendered {
		a.rendered = st.Generation
		render(st)
	}
}

func (a *App) done() bool {
	return a.machine.State().Exit
}

func (a *App) showPrompt() bool {
	return a.interactive
}

func (a *App) prompt(ctx context.Context) string {
	st := a.machine.State()
	p := "notify"
	if s, err := a.session.Session(ctx); err == nil && s.Email != "" {
		p += " [" + s.Email + "]"
	}
	p += " " + st.Screen.String()
	if st.Workflow != nil {
		p += " (" + fieldPrompt(st) + ")"
	}
	return p + "> "
}
