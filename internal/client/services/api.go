// Package services is the client's facade over the notification service.
//
// Each remote operation is one method that classifies the HTTP outcome into
// a small status enum:
//
//  1. transport failure or timeout   -> error
//  2. 200                            -> ok (payload decoded)
//  3. 401 / 403                      -> forbidden, or bad code for code submission
//  4. 422 on login code request      -> bad recipient
//  5. anything else                  -> error
//
// When no host is configured, authenticated operations return
// StatusNoConnectivity and the code/login operations return their error
// variant; no request is made in either case.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ascor/notifycli/internal/client/client"
	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/logging"
)

// Transport performs a single request against a host.
type Transport interface {
	Do(ctx context.Context, host string, r client.Request) (*client.Response, error)
}

// SessionStore persists the session between runs.
type SessionStore interface {
	Snapshot(ctx context.Context) (models.Session, error)
	SetToken(ctx context.Context, token string) error
	SetEmail(ctx context.Context, email string) error
	SetHost(ctx context.Context, host string) error
	Host(ctx context.Context) string
	HasHost(ctx context.Context) bool
	Clear(ctx context.Context) error
}

// APIService is the facade. It is safe for concurrent use as long as the
// transport and the session store are.
type APIService struct {
	transport Transport
	session   SessionStore
	log       logging.Logger
}

// NewAPIService wires the facade to a transport and the session store that
// supplies the host and bearer token of every call.
func NewAPIService(t Transport, s SessionStore, log logging.Logger) *APIService {
	return &APIService{transport: t, session: s, log: log}
}

// call snapshots the session so that a concurrent login or logout cannot
// change the token half way through the request.
func (s *APIService) call(ctx context.Context, method, path string, body any) (*client.Response, error) {
	sess, err := s.session.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrTransport, err)
	}
	if !sess.HasHost() {
		return nil, client.ErrNoHost
	}
	return s.transport.Do(ctx, sess.Host, client.Request{
		Method: method,
		Path:   path,
		Body:   body,
		Token:  sess.Token,
	})
}

func (s *APIService) classify(ctx context.Context, op string, resp *client.Response, err error) Status {
	if err != nil {
		if errors.Is(err, client.ErrNoHost) {
			return StatusNoConnectivity
		}
		s.log.Warn(ctx, "operation failed", "op", op, "error", err)
		return StatusError
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return StatusOK
	case http.StatusUnauthorized, http.StatusForbidden:
		return StatusForbidden
	default:
		s.log.Warn(ctx, "unexpected status", "op", op, "status", resp.StatusCode)
		return StatusError
	}
}

// HasHost reports whether a host is configured.
func (s *APIService) HasHost(ctx context.Context) bool {
	return s.session.HasHost(ctx)
}

// Host returns the configured host.
func (s *APIService) Host(ctx context.Context) string {
	return s.session.Host(ctx)
}

// SetHost changes the service host.
func (s *APIService) SetHost(ctx context.Context, host string) error {
	return s.session.SetHost(ctx, host)
}

// Session returns the current session.
func (s *APIService) Session(ctx context.Context) (models.Session, error) {
	return s.session.Snapshot(ctx)
}
