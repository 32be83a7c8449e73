package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ascor/notifycli/internal/client/client"
	"github.com/ascor/notifycli/internal/client/db"
	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/session"
	"github.com/ascor/notifycli/internal/fakeserver"
	"github.com/ascor/notifycli/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *session.Manager {
	t.Helper()
	conn, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "notify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return session.NewManager(conn, logging.Nop())
}

// newService returns a facade pointed at host with a fresh session.
func newService(t *testing.T, host string) (*APIService, *session.Manager) {
	t.Helper()
	s := newSession(t)
	if host != "" {
		require.NoError(t, s.SetHost(context.Background(), host))
	}
	return NewAPIService(client.NewTransport(0, logging.Nop()), s, logging.Nop()), s
}

func newFake(t *testing.T) (*fakeserver.Server, string) {
	t.Helper()
	fake := fakeserver.New()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	return fake, ts.URL
}

func statusServer(t *testing.T, code int) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}))
	t.Cleanup(ts.Close)
	return ts.URL
}

func deadHost(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	return url
}

func authenticatedOps() map[string]func(ctx context.Context, s *APIService) Status {
	name := "IKBO-01-21"
	return map[string]func(ctx context.Context, s *APIService) Status{
		"get account": func(ctx context.Context, s *APIService) Status {
			_, st := s.GetUserAccount(ctx)
			return st
		},
		"get options": func(ctx context.Context, s *APIService) Status {
			_, st := s.GetSubscriptionOptions(ctx, models.SubscriptionGroup)
			return st
		},
		"subscribe": func(ctx context.Context, s *APIService) Status {
			return s.Subscribe(ctx, models.SubscriptionGroup, &name)
		},
		"subscription channels": func(ctx context.Context, s *APIService) Status {
			return s.UpdateSubscriptionChannels(ctx, models.SubscriptionGroup, []models.ChannelType{models.ChannelVK})
		},
		"channel code": func(ctx context.Context, s *APIService) Status {
			return s.RequestChannelRecipientCode(ctx, models.ChannelTelegram, "@me")
		},
		"channel recipient": func(ctx context.Context, s *APIService) Status {
			return s.UpdateChannelRecipient(ctx, models.ChannelTelegram, "@me", "1234")
		},
		"channel active": func(ctx context.Context, s *APIService) Status {
			return s.UpdateChannelActive(ctx, models.ChannelTelegram, false)
		},
	}
}

func TestAuthenticatedOps_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		code int
		want Status
	}{
		{"unauthorized", http.StatusUnauthorized, StatusForbidden},
		{"forbidden", http.StatusForbidden, StatusForbidden},
		{"unprocessable", http.StatusUnprocessableEntity, StatusError},
		{"server error", http.StatusInternalServerError, StatusError},
		{"not found", http.StatusNotFound, StatusError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newService(t, statusServer(t, tc.code))
			for op, call := range authenticatedOps() {
				assert.Equal(t, tc.want, call(context.Background(), svc), op)
			}
		})
	}
}

func TestAuthenticatedOps_TransportFailureIsError(t *testing.T) {
	svc, _ := newService(t, deadHost(t))
	for op, call := range authenticatedOps() {
		assert.Equal(t, StatusError, call(context.Background(), svc), op)
	}
}

type countingTransport struct{ calls int }

func (c *countingTransport) Do(context.Context, string, client.Request) (*client.Response, error) {
	c.calls++
	return &client.Response{StatusCode: http.StatusOK}, nil
}

func TestNoHost_ShortCircuits(t *testing.T) {
	tr := &countingTransport{}
	svc := NewAPIService(tr, newSession(t), logging.Nop())
	ctx := context.Background()

	for op, call := range authenticatedOps() {
		assert.Equal(t, StatusNoConnectivity, call(ctx, svc), op)
	}
	assert.Equal(t, RequestCodeError, svc.RequestCode(ctx, "a@b.com"))
	assert.Equal(t, LoginError, svc.Login(ctx, "a@b.com", "1234"))
	assert.Zero(t, tr.calls, "no request may leave without a host")
	assert.False(t, svc.HasHost(ctx))
}

func TestRequestCode(t *testing.T) {
	tests := []struct {
		name string
		code int
		want RequestCodeStatus
	}{
		{"ok", http.StatusOK, RequestCodeOK},
		{"bad recipient", http.StatusUnprocessableEntity, RequestCodeBadRecipient},
		{"unauthorized", http.StatusUnauthorized, RequestCodeError},
		{"server error", http.StatusInternalServerError, RequestCodeError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newService(t, statusServer(t, tc.code))
			assert.Equal(t, tc.want, svc.RequestCode(context.Background(), "a@b.com"))
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		svc, _ := newService(t, deadHost(t))
		assert.Equal(t, RequestCodeError, svc.RequestCode(context.Background(), "a@b.com"))
	})
}

func TestLogin_StoresTokenAndEmail(t *testing.T) {
	_, url := newFake(t)
	svc, sess := newService(t, url)
	ctx := context.Background()

	require.Equal(t, RequestCodeOK, svc.RequestCode(ctx, "a@b.com"))
	require.Equal(t, LoginOK, svc.Login(ctx, "a@b.com", fakeserver.DefaultCode))

	stored, err := sess.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Token)
	assert.Equal(t, "a@b.com", stored.Email)

	account, st := svc.GetUserAccount(ctx)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, "a@b.com", account.Email)
}

func TestLogin_FailureKeepsPriorToken(t *testing.T) {
	tests := []struct {
		name string
		host func(t *testing.T) string
		want LoginStatus
	}{
		{"bad code", func(t *testing.T) string { return statusServer(t, http.StatusUnauthorized) }, LoginBadCode},
		{"forbidden", func(t *testing.T) string { return statusServer(t, http.StatusForbidden) }, LoginBadCode},
		{"server error", func(t *testing.T) string { return statusServer(t, http.StatusBadGateway) }, LoginError},
		{"ok without token", func(t *testing.T) string { return statusServer(t, http.StatusOK) }, LoginError},
		{"transport failure", deadHost, LoginError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, sess := newService(t, tc.host(t))
			ctx := context.Background()
			require.NoError(t, sess.SetToken(ctx, "old"))

			assert.Equal(t, tc.want, svc.Login(ctx, "a@b.com", "0000"))
			stored, err := sess.Snapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, "old", stored.Token)
			assert.Empty(t, stored.Email)
		})
	}
}

func TestLogout_KeepsHost(t *testing.T) {
	fake, url := newFake(t)
	svc, sess := newService(t, url)
	ctx := context.Background()
	require.NoError(t, sess.SetToken(ctx, fake.IssueToken("a@b.com")))
	require.NoError(t, sess.SetEmail(ctx, "a@b.com"))

	require.NoError(t, svc.Logout(ctx))

	got, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Session{Host: url}, got)

	_, st := svc.GetUserAccount(ctx)
	assert.Equal(t, StatusForbidden, st)
}

func TestAccountOperations_AgainstFakeServer(t *testing.T) {
	fake, url := newFake(t)
	svc, sess := newService(t, url)
	ctx := context.Background()
	require.NoError(t, sess.SetToken(ctx, fake.IssueToken("a@b.com")))

	groups, st := svc.GetSubscriptionOptions(ctx, models.SubscriptionGroup)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, fake.Groups, groups)

	teachers, st := svc.GetSubscriptionOptions(ctx, models.SubscriptionTeacher)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, fake.Teachers, teachers)

	require.Equal(t, StatusOK, svc.Subscribe(ctx, models.SubscriptionGroup, &groups[0]))
	require.Equal(t, StatusOK, svc.UpdateSubscriptionChannels(ctx, models.SubscriptionGroup,
		[]models.ChannelType{models.ChannelEmail, models.ChannelTelegram, models.ChannelEmail}))

	require.Equal(t, StatusOK, svc.RequestChannelRecipientCode(ctx, models.ChannelTelegram, "@student"))
	assert.Equal(t, StatusForbidden, svc.UpdateChannelRecipient(ctx, models.ChannelTelegram, "@student", "9999"),
		"a rejected code is reported as forbidden")
	require.Equal(t, StatusOK, svc.UpdateChannelRecipient(ctx, models.ChannelTelegram, "@student", fakeserver.DefaultCode))
	require.Equal(t, StatusOK, svc.UpdateChannelActive(ctx, models.ChannelTelegram, false))

	account, st := svc.GetUserAccount(ctx)
	require.Equal(t, StatusOK, st)

	sub, err := account.Subscription(models.SubscriptionGroup)
	require.NoError(t, err)
	assert.Equal(t, groups[0], sub.NameOrEmpty())
	if diff := cmp.Diff([]models.ChannelType{models.ChannelTelegram, models.ChannelEmail}, sub.Channels); diff != "" {
		t.Errorf("subscription channels mismatch (-want +got):\n%s", diff)
	}

	tg, err := account.Channel(models.ChannelTelegram)
	require.NoError(t, err)
	assert.Equal(t, "@student", tg.RecipientOrEmpty())
	assert.False(t, tg.Active)

	require.Equal(t, StatusOK, svc.Subscribe(ctx, models.SubscriptionGroup, nil))
	account, _ = svc.GetUserAccount(ctx)
	sub, _ = account.Subscription(models.SubscriptionGroup)
	assert.Nil(t, sub.Name)
}

func TestGetUserAccount_MalformedBodyIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"email":`))
	}))
	t.Cleanup(ts.Close)

	svc, _ := newService(t, ts.URL)
	account, st := svc.GetUserAccount(context.Background())
	assert.Equal(t, StatusError, st)
	assert.Nil(t, account)
}

func TestGetSubscriptionOptions_NullIsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	t.Cleanup(ts.Close)

	svc, _ := newService(t, ts.URL)
	options, st := svc.GetSubscriptionOptions(context.Background(), models.SubscriptionTeacher)
	require.Equal(t, StatusOK, st)
	assert.NotNil(t, options)
	assert.Empty(t, options)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "forbidden", StatusForbidden.String())
	assert.Equal(t, "no connectivity", StatusNoConnectivity.String())
	assert.Equal(t, "bad recipient", RequestCodeBadRecipient.String())
	assert.Equal(t, "bad code", LoginBadCode.String())
}
