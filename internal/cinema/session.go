package cinema

import (
	"net/http"
	"sort"
	"strings"
)

const (
	sessionCookieName = "sessionid"
	csrfCookieName    = "csrftoken"
)

// Session carries the upstream cookies for one user. It lives server-side
// in the gateway session; the browser never sees upstream credentials. The
// zero value is a guest session.
type Session struct {
	Cookies map[string]string `json:"cookies"`
}

func NewSession() *Session {
	return &Session{Cookies: make(map[string]string)}
}

// Authenticated reports whether an upstream session cookie is held. It is
// the local proof-of-session check; the upstream remains the authority and
// may still answer 401.
func (s *Session) Authenticated() bool {
	return s != nil && s.Cookies[sessionCookieName] != ""
}

func (s *Session) csrfToken() string {
	if s == nil {
		return ""
	}
	return s.Cookies[csrfCookieName]
}

func (s *Session) cookieHeader() string {
	if s == nil || len(s.Cookies) == 0 {
		return ""
	}

	names := make([]string, 0, len(s.Cookies))
	for name := range s.Cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+s.Cookies[name])
	}

	return strings.Join(pairs, "; ")
}

// absorb merges Set-Cookie headers from an upstream response into the
// session, honoring deletions.
func (s *Session) absorb(resp *http.Response) {
	if s == nil {
		return
	}

	for _, cookie := range resp.Cookies() {
		if s.Cookies == nil {
			s.Cookies = make(map[string]string)
		}

		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(s.Cookies, cookie.Name)
			continue
		}

		s.Cookies[cookie.Name] = cookie.Value
	}
}
