// Package auth provides the session context handed to components that talk
// to the race server.
package auth

import "net/http"

// Session identifies the signed-in user.
type Session interface {
	Username() string
	Token() string
}

// Static is a Session with fixed credentials.
type Static struct {
	User        string
	BearerToken string
}

// Username implements Session.
func (s Static) Username() string { return s.User }

// Token implements Session.
func (s Static) Token() string { return s.BearerToken }

// Header returns request headers carrying the session's bearer token.
func Header(s Session) http.Header {
	h := http.Header{}
	if s == nil {
		return h
	}
	if token := s.Token(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
