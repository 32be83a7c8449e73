package models

// Session is the client-held authentication state.
type Session struct {
	Token string
	Host  string
	Email string
}

// HasHost reports whether a service host is configured.
func (s Session) HasHost() bool {
	return s.Host != ""
}
