package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/session"
	"github.com/ascor/notifycli/internal/client/state"
	"github.com/ascor/notifycli/internal/client/verify"
)

var helpText = map[state.Screen]string{
	state.ScreenLoaded: "Commands: show, reload, channel <vk|telegram>, enable|disable <channel>, " +
		"subscription <group|teacher>, logout, whoami, exit",
	state.ScreenRequireAuth:      "Type the value and press Enter; an empty line or 'next' submits, 'back' goes back, exit",
	state.ScreenEditChannel:      "Type the value and press Enter; an empty line or 'next' submits, 'back' cancels, exit",
	state.ScreenEditSubscription: "Commands: options, select <n|none>, toggle <channel>, apply, back, exit",
	state.ScreenNoConnectivity:   "Commands: host <address>, retry, exit",
}

// exec runs one input line on the current screen and reports whether the
// user asked to quit.
func (a *App) exec(ctx context.Context, line string) bool {
	st := a.machine.State()
	fields := strings.Fields(line)
	cmd := ""
	if len(fields) > 0 {
		cmd = fields[0]
	}
	args := fields[min(1, len(fields)):]

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		printlnFn(helpText[st.Screen])
		return false
	}

	var err error
	switch st.Screen {
	case state.ScreenLoaded:
		err = a.execLoaded(ctx, cmd, args)
	case state.ScreenRequireAuth, state.ScreenEditChannel:
		err = a.execForm(ctx, st, cmd, line)
	case state.ScreenEditSubscription:
		err = a.execSubscription(ctx, cmd, args)
	case state.ScreenNoConnectivity:
		err = a.execNoConnectivity(ctx, cmd, args)
	}
	a.report(st, err)
	return false
}

var errUsage = errors.New("usage")

// report prints the error of an action, or the inline message it left when
// the screen stayed the same.
func (a *App) report(before state.State, err error) {
	switch {
	case errors.Is(err, errUsage):
		printlnFn(err.Error())
		return
	case err != nil:
		printlnFn("Error:", err)
		return
	}

	after := a.machine.State()
	if after.Generation != before.Generation {
		return
	}
	if after.Message != "" && after.Message != before.Message {
		printlnFn(after.Message)
	}
}

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

func unknown(cmd string) error {
	return usage("unknown command %q, type 'help'", cmd)
}

func (a *App) execLoaded(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "", "show":
		renderAccount(a.machine.State().Data)
		return nil
	case "reload":
		return a.machine.Reload(ctx)
	case "logout":
		return a.machine.Logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "channel":
		if len(args) != 1 {
			return usage("channel <vk|telegram>")
		}
		c, err := models.ParseChannelType(args[0])
		if err != nil {
			return err
		}
		return a.machine.EditChannel(ctx, c)
	case "enable", "disable":
		if len(args) != 1 {
			return usage("%s <vk|telegram>", cmd)
		}
		c, err := models.ParseChannelType(args[0])
		if err != nil {
			return err
		}
		return a.machine.SetChannelActive(ctx, c, cmd == "enable")
	case "subscription":
		if len(args) != 1 {
			return usage("subscription <group|teacher>")
		}
		t, err := models.ParseSubscriptionType(args[0])
		if err != nil {
			return err
		}
		return a.machine.EditSubscription(ctx, t)
	}
	return unknown(cmd)
}

func (a *App) execForm(ctx context.Context, before state.State, cmd, line string) error {
	switch cmd {
	case "", "next":
		if err := a.machine.Submit(ctx); err != nil {
			if errors.Is(err, verify.ErrEmptyInput) {
				return usage("type a value first")
			}
			return err
		}
	case "back":
		if err := a.machine.Back(ctx); err != nil {
			return err
		}
	default:
		if _, err := a.machine.Input(strings.TrimSpace(line)); err != nil {
			return err
		}
	}

	st := a.machine.State()
	if st.Generation == before.Generation && !st.Workflow.Finished() {
		renderField(st)
	}
	return nil
}

func (a *App) execSubscription(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "", "options":
		renderDraft(a.machine.State().Draft)
		return nil
	case "select":
		if len(args) != 1 {
			return usage("select <n|none>")
		}
		i := 0
		if args[0] != "none" {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return usage("select <n|none>")
			}
			i = n
		}
		if err := a.machine.SelectOption(i); err != nil {
			return err
		}
		renderDraft(a.machine.State().Draft)
		return nil
	case "toggle":
		if len(args) != 1 {
			return usage("toggle <vk|telegram|email>")
		}
		c, err := models.ParseChannelType(args[0])
		if err != nil {
			return err
		}
		if err := a.machine.ToggleDraftChannel(c); err != nil {
			return err
		}
		renderDraft(a.machine.State().Draft)
		return nil
	case "apply":
		return a.machine.Apply(ctx)
	case "back":
		return a.machine.Back(ctx)
	}
	return unknown(cmd)
}

func (a *App) execNoConnectivity(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "host":
		if len(args) != 1 {
			return usage("host <address>")
		}
		if err := a.machine.SetHost(ctx, args[0]); err != nil {
			return err
		}
		printlnFn("Host set to", args[0])
		return nil
	case "retry", "reload":
		return a.machine.Retry(ctx)
	case "":
		return nil
	}
	return unknown(cmd)
}

func (a *App) whoami(ctx context.Context) error {
	s, err := a.session.Session(ctx)
	if err != nil {
		return err
	}
	printlnFn("Host:", s.Host)
	printlnFn("Email:", s.Email)

	info, ok := session.InspectToken(s.Token)
	if !ok {
		return nil
	}
	if info.Subject != "" {
		printlnFn("Subject:", info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		expiry := info.ExpiresAt.Format(time.RFC3339)
		if info.Expired(time.Now()) {
			expiry += " (expired)"
		}
		printlnFn("Expires:", expiry)
	}
	return nil
}
