package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/ascor/notifycli/internal/client/client"
)

type requestCodeBody struct {
	Email string `json:"email"`
}

type loginBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// RequestCode asks the service to e-mail a login code.
func (s *APIService) RequestCode(ctx context.Context, email string) RequestCodeStatus {
	resp, err := s.call(ctx, http.MethodPost, "auth/code", requestCodeBody{Email: email})
	if err != nil {
		if !errors.Is(err, client.ErrNoHost) {
			s.log.Warn(ctx, "operation failed", "op", "request code", "error", err)
		}
		return RequestCodeError
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return RequestCodeOK
	case http.StatusUnprocessableEntity:
		return RequestCodeBadRecipient
	default:
		s.log.Warn(ctx, "unexpected status", "op", "request code", "status", resp.StatusCode)
		return RequestCodeError
	}
}

// Login submits the e-mailed code. On success the returned token and the
// e-mail become the new session; on any other outcome the session is left
// untouched.
func (s *APIService) Login(ctx context.Context, email, code string) LoginStatus {
	resp, err := s.call(ctx, http.MethodPost, "auth/login", loginBody{Email: email, Code: code})
	if err != nil {
		if !errors.Is(err, client.ErrNoHost) {
			s.log.Warn(ctx, "operation failed", "op", "login", "error", err)
		}
		return LoginError
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return LoginBadCode
	default:
		s.log.Warn(ctx, "unexpected status", "op", "login", "status", resp.StatusCode)
		return LoginError
	}

	var body loginResponse
	if err := resp.DecodeJSON(&body); err != nil || body.Token == "" {
		s.log.Warn(ctx, "login response without token", "error", err)
		return LoginError
	}
	if err := s.session.SetToken(ctx, body.Token); err != nil {
		s.log.Error(ctx, "storing token failed", "error", err)
		return LoginError
	}
	if err := s.session.SetEmail(ctx, email); err != nil {
		s.log.Warn(ctx, "storing e-mail failed", "error", err)
	}

	s.log.Info(ctx, "logged in", "email", email)
	return LoginOK
}

// Logout forgets the token locally. The service is not contacted.
func (s *APIService) Logout(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return err
	}
	s.log.Info(ctx, "logged out")
	return nil
}
