// Package fakeserver is an in-memory stand-in for the notification service.
// It speaks the same REST contract as the real backend and is used by tests
// and by cmd/devserver.
//
// Every code is Server.Code. Responses for a route can be forced with
// FailWith, and Calls counts requests per route.
package fakeserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DefaultCode is the verification code accepted by a new Server.
const DefaultCode = "1234"

// Server is an in-memory notification service speaking the client's REST
// API. Code, Groups and Teachers may be changed between requests under test.
type Server struct {
	mu sync.Mutex

	Code     string
	Groups   []string
	Teachers []string

	tokens   map[string]string // token -> email
	accounts map[string]*models.UserAccount
	pending  map[string]string // email|channel -> recipient awaiting a code
	forced   map[string]int
	calls    map[string]int

	router chi.Router
}

// New returns a server with two groups, two teachers and no accounts. An
// account is created when a token is first issued for its e-mail.
func New() *Server {
	s := &Server{
		Code:     DefaultCode,
		Groups:   []string{"IKBO-01-21", "IKBO-02-21"},
		Teachers: []string{"Ivanov I.I.", "Petrova A.S."},
		tokens:   make(map[string]string),
		accounts: make(map[string]*models.UserAccount),
		pending:  make(map[string]string),
		forced:   make(map[string]int),
		calls:    make(map[string]int),
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		s.handle(r, http.MethodPost, "/auth/code", s.requestCode)
		s.handle(r, http.MethodPost, "/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			s.handle(r, http.MethodGet, "/account", s.account)
			s.handle(r, http.MethodGet, "/subscriptions/{type}", s.options)
			s.handle(r, http.MethodPost, "/subscriptions/{type}", s.subscribe)
			s.handle(r, http.MethodPut, "/subscriptions/{type}/channels", s.subscriptionChannels)
			s.handle(r, http.MethodPost, "/communication-channels/{id}/code", s.channelCode)
			s.handle(r, http.MethodPut, "/communication-channels/{id}/id", s.channelRecipient)
			s.handle(r, http.MethodPut, "/communication-channels/{id}/active", s.channelActive)
		})
	})
	return r
}

func routeKey(method, pattern string) string {
	return method + " " + pattern
}

func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	key := routeKey(method, pattern)
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.calls[key]++
		status, forced := s.forced[key]
		s.mu.Unlock()

		if forced {
			w.WriteHeader(status)
			return
		}
		h(w, req)
	}))
}

// FailWith makes every request to the route answer with status until
// Reset is called. pattern is relative to /api/v1, e.g. "/account".
func (s *Server) FailWith(method, pattern string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced[routeKey(method, pattern)] = status
}

// Reset removes all forced responses.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = make(map[string]int)
}

// Calls returns how many requests reached the route.
func (s *Server) Calls(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, pattern)]
}

// IssueToken creates (if needed) the account for email and returns a valid
// token for it, skipping the code exchange.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueToken(email)
}

func (s *Server) issueToken(email string) string {
	if _, ok := s.accounts[email]; !ok {
		s.accounts[email] = newAccount(email)
	}
	token := uuid.NewString()
	s.tokens[token] = email
	return token
}

// RevokeAll invalidates every issued token.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// Account returns a copy of the stored account.
func (s *Server) Account(email string) (models.UserAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return models.UserAccount{}, false
	}
	data, _ := json.Marshal(a)
	var out models.UserAccount
	_ = json.Unmarshal(data, &out)
	return out, true
}

// BindChannel attaches a recipient to a channel of an existing account.
func (s *Server) BindChannel(email string, c models.ChannelType, recipient string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return
	}
	a.Channels[c] = models.CommunicationChannel{Type: c, Recipient: &recipient, Active: active}
}

func newAccount(email string) *models.UserAccount {
	return &models.UserAccount{
		Email: email,
		Subscriptions: map[models.SubscriptionType]models.NotificationSubscription{
			models.SubscriptionGroup:   {Channels: []models.ChannelType{}},
			models.SubscriptionTeacher: {Channels: []models.ChannelType{}},
		},
		Channels: map[models.ChannelType]models.CommunicationChannel{
			models.ChannelVK:       {Type: models.ChannelVK},
			models.ChannelTelegram: {Type: models.ChannelTelegram},
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1
}
