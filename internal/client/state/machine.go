package state

import (
	"context"
	"sync"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/services"
	"github.com/ascor/notifycli/internal/client/verify"
	"github.com/ascor/notifycli/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Machine owns the current screen of a session. Every transition bumps the
// generation, and a result computed for an older generation is dropped.
// Methods are safe for concurrent use; the API calls they make run without
// the lock held.
type Machine struct {
	api API
	log logging.Logger

	mu sync.Mutex
	st State
}

// New returns a machine on the LOADING screen at generation 1. Nothing is
// fetched until Load is called.
func New(api API, log logging.Logger) *Machine {
	return &Machine{
		api: api,
		log: log,
		st:  State{Screen: ScreenLoading, Generation: 1},
	}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.st
	if st.Draft != nil {
		st.Draft = st.Draft.clone()
	}
	return st
}

func (m *Machine) current() (State, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st, m.st.Generation
}

// apply replaces the state if it is still at generation gen. It reports
// whether the transition happened.
func (m *Machine) apply(ctx context.Context, gen uint64, next State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.st.Generation != gen {
		m.log.Debug(ctx, "stale result dropped", "generation", gen, "current", m.st.Generation, "next", next.Screen)
		return false
	}
	if next.Data == nil && keepsData(next.Screen) {
		next.Data = m.st.Data
	}
	next.Exit = next.Exit || m.st.Exit
	next.Generation = gen + 1

	m.log.Debug(ctx, "transition", "from", m.st.Screen, "to", next.Screen, "generation", next.Generation)
	m.st = next
	return true
}

func keepsData(s Screen) bool {
	return s == ScreenLoaded || s == ScreenEditChannel || s == ScreenEditSubscription
}

// notify leaves an inline message without changing the screen.
func (m *Machine) notify(gen uint64, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st.Generation == gen {
		m.st.Message = msg
	}
}

// transitionFrom moves to next if the current screen is one of from.
func (m *Machine) transitionFrom(ctx context.Context, next State, from ...Screen) error {
	st, gen := m.current()
	for _, s := range from {
		if st.Screen == s {
			m.enter(ctx, gen, next)
			return nil
		}
	}
	return ErrWrongScreen
}

// enter applies next and attaches what the screen needs.
func (m *Machine) enter(ctx context.Context, gen uint64, next State) bool {
	if next.Screen == ScreenRequireAuth && next.Workflow == nil {
		next = m.loginState(ctx, gen+1)
	}
	return m.apply(ctx, gen, next)
}

// outcome maps the status of an action on an edit or account screen: ok
// reloads, forbidden asks for login, an error only leaves msg.
func (m *Machine) outcome(ctx context.Context, gen uint64, st services.Status, msg string) {
	switch st {
	case services.StatusOK:
		m.enter(ctx, gen, State{Screen: ScreenLoading})
	case services.StatusForbidden:
		m.enter(ctx, gen, State{Screen: ScreenRequireAuth})
	case services.StatusNoConnectivity:
		m.enter(ctx, gen, State{Screen: ScreenNoConnectivity})
	default:
		m.notify(gen, msg)
	}
}

// Load runs the LOADING refresh: account, group options and teacher
// options are fetched concurrently and combined once all have settled.
func (m *Machine) Load(ctx context.Context) error {
	st, gen := m.current()
	if st.Screen != ScreenLoading {
		return ErrWrongScreen
	}

	if !m.api.HasHost(ctx) {
		m.enter(ctx, gen, State{Screen: ScreenNoConnectivity})
		return nil
	}

	var (
		r LoadResult
		g errgroup.Group
	)
	g.Go(func() error {
		r.Account, r.AccountStatus = m.api.GetUserAccount(ctx)
		return nil
	})
	g.Go(func() error {
		r.Groups, r.GroupsStatus = m.api.GetSubscriptionOptions(ctx, models.SubscriptionGroup)
		return nil
	})
	g.Go(func() error {
		r.Teachers, r.TeachersStatus = m.api.GetSubscriptionOptions(ctx, models.SubscriptionTeacher)
		return nil
	})
	_ = g.Wait()

	next := Combine(r)
	m.log.Info(ctx, "loaded", "account", r.AccountStatus, "groups", r.GroupsStatus, "teachers", r.TeachersStatus, "screen", next.Screen)
	m.enter(ctx, gen, next)
	return nil
}

// Reload goes back to LOADING from the account screen or the connectivity screen.
func (m *Machine) Reload(ctx context.Context) error {
	return m.transitionFrom(ctx, State{Screen: ScreenLoading}, ScreenLoaded, ScreenNoConnectivity)
}

// Retry is Reload for the NO_CONNECTIVITY screen.
func (m *Machine) Retry(ctx context.Context) error {
	return m.transitionFrom(ctx, State{Screen: ScreenLoading}, ScreenNoConnectivity)
}

// SetHost changes the service host. Only the connectivity screen offers it.
func (m *Machine) SetHost(ctx context.Context, host string) error {
	st, _ := m.current()
	if st.Screen != ScreenNoConnectivity {
		return ErrWrongScreen
	}
	return m.api.SetHost(ctx, host)
}

// Logout forgets the session and shows the login screen.
func (m *Machine) Logout(ctx context.Context) error {
	st, gen := m.current()
	if st.Screen != ScreenLoaded {
		return ErrWrongScreen
	}
	if err := m.api.Logout(ctx); err != nil {
		return err
	}
	m.enter(ctx, gen, State{Screen: ScreenRequireAuth})
	return nil
}

// loginVerifier runs the e-mail login. Losing the host mid-session sends
// the user to the connectivity screen instead of leaving a failure message.
type loginVerifier struct {
	m   *Machine
	gen uint64
}

func (v loginVerifier) RequestCode(ctx context.Context, email string) verify.SendResult {
	switch v.m.api.RequestCode(ctx, email) {
	case services.RequestCodeOK:
		return verify.SendOK
	case services.RequestCodeBadRecipient:
		return verify.SendBadRecipient
	default:
		v.checkHost(ctx)
		return verify.SendError
	}
}

func (v loginVerifier) SubmitCode(ctx context.Context, email, code string) verify.SubmitResult {
	switch v.m.api.Login(ctx, email, code) {
	case services.LoginOK:
		return verify.SubmitOK
	case services.LoginBadCode:
		return verify.SubmitBadCode
	default:
		v.checkHost(ctx)
		return verify.SubmitError
	}
}

func (v loginVerifier) checkHost(ctx context.Context) {
	if !v.m.api.HasHost(ctx) {
		v.m.enter(ctx, v.gen, State{Screen: ScreenNoConnectivity})
	}
}

// loginState builds the REQUIRE_AUTH screen that will be current at
// generation gen. The e-mail field starts with the last used address.
func (m *Machine) loginState(ctx context.Context, gen uint64) State {
	var email string
	if s, err := m.api.Session(ctx); err == nil {
		email = s.Email
	} else {
		m.log.Warn(ctx, "reading session failed", "error", err)
	}

	wf := verify.New(loginVerifier{m: m, gen: gen}, verify.Options{
		Messages:  loginMessages,
		Recipient: email,
		OnSuccess: func(ctx context.Context, _ string) {
			m.enter(ctx, gen, State{Screen: ScreenLoading})
		},
		OnCancel: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.st.Generation == gen {
				m.st.Exit = true
			}
		},
	})
	return State{Screen: ScreenRequireAuth, Form: loginForm, Workflow: wf}
}

func (m *Machine) workflow() (*verify.Workflow, error) {
	st, _ := m.current()
	if st.Workflow == nil || (st.Screen != ScreenRequireAuth && st.Screen != ScreenEditChannel) {
		return nil, ErrWrongScreen
	}
	return st.Workflow, nil
}

// Input sets the field of the current verification stage and returns the
// value actually stored.
func (m *Machine) Input(s string) (string, error) {
	wf, err := m.workflow()
	if err != nil {
		return "", err
	}
	return wf.SetInput(s)
}

// Submit advances the current verification workflow.
func (m *Machine) Submit(ctx context.Context) error {
	wf, err := m.workflow()
	if err != nil {
		return err
	}
	return wf.Next(ctx)
}

// Back steps back on the current screen: inside a verification workflow it
// goes to the previous stage or cancels it; the subscription editor
// returns to LOADING.
func (m *Machine) Back(ctx context.Context) error {
	st, gen := m.current()
	switch st.Screen {
	case ScreenRequireAuth, ScreenEditChannel:
		return st.Workflow.Back()
	case ScreenEditSubscription:
		m.enter(ctx, gen, State{Screen: ScreenLoading})
		return nil
	}
	return ErrWrongScreen
}
