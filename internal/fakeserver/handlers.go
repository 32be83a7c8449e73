package fakeserver

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/go-chi/chi/v5"
)

type ctxKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		s.mu.Lock()
		email, ok := s.tokens[token]
		s.mu.Unlock()

		if token == "" || !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, email)))
	})
}

func emailFrom(r *http.Request) string {
	email, _ := r.Context().Value(ctxKey{}).(string)
	return email
}

func (s *Server) requestCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decode(r, &body) || !validEmail(body.Email) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	s.mu.Lock()
	s.pending[body.Email+"|login"] = body.Email
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !decode(r, &body) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := body.Email + "|login"
	if _, ok := s.pending[key]; !ok || body.Code != s.Code {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	delete(s.pending, key)
	writeJSON(w, map[string]string{"token": s.issueToken(body.Email)})
}

func (s *Server) account(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.accounts[emailFrom(r)])
}

func (s *Server) subscriptionType(r *http.Request) (models.SubscriptionType, []string, bool) {
	t, err := models.ParseSubscriptionType(chi.URLParam(r, "type"))
	if err != nil {
		return 0, nil, false
	}
	if t == models.SubscriptionGroup {
		return t, s.Groups, true
	}
	return t, s.Teachers, true
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, options, ok := s.subscriptionType(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, options)
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name *string `json:"name"`
	}
	if !decode(r, &body) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, options, ok := s.subscriptionType(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if body.Name != nil && !slices.Contains(options, *body.Name) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	a := s.accounts[emailFrom(r)]
	sub := a.Subscriptions[t]
	sub.Name = body.Name
	a.Subscriptions[t] = sub
	w.WriteHeader(http.StatusOK)
}

func (s *Server) subscriptionChannels(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Channels []string `json:"channels"`
	}
	if !decode(r, &body) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.subscriptionType(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	a := s.accounts[emailFrom(r)]
	sub := a.Subscriptions[t]
	sub.Channels = models.ParseChannels(body.Channels)
	a.Subscriptions[t] = sub
	w.WriteHeader(http.StatusOK)
}

func channelParam(r *http.Request) (models.ChannelType, bool) {
	c, err := models.ParseChannelType(chi.URLParam(r, "id"))
	if err != nil || !c.Editable() {
		return 0, false
	}
	return c, true
}

func (s *Server) channelCode(w http.ResponseWriter, r *http.Request) {
	c, ok := channelParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var body struct {
		Recipient string `json:"recipient"`
	}
	if !decode(r, &body) || strings.TrimSpace(body.Recipient) == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	s.pending[emailFrom(r)+"|"+c.String()] = body.Recipient
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) channelRecipient(w http.ResponseWriter, r *http.Request) {
	c, ok := channelParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var body struct {
		Recipient string `json:"recipient"`
		Code      string `json:"code"`
	}
	if !decode(r, &body) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := emailFrom(r)
	key := email + "|" + c.String()
	if s.pending[key] != body.Recipient || body.Code != s.Code {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	delete(s.pending, key)

	recipient := body.Recipient
	s.accounts[email].Channels[c] = models.CommunicationChannel{Type: c, Recipient: &recipient, Active: true}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) channelActive(w http.ResponseWriter, r *http.Request) {
	c, ok := channelParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var body struct {
		Active bool `json:"active"`
	}
	if !decode(r, &body) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.accounts[emailFrom(r)]
	ch := a.Channels[c]
	if !ch.Bound() {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	ch.Active = body.Active
	a.Channels[c] = ch
	w.WriteHeader(http.StatusOK)
}
