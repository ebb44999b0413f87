package auth

import (
	"crypto/subtle"
	"sync"
)

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

// Gate is the admin session state machine of one front-end session. It guards
// the admin views only; the ledger and registry never consult it.
type Gate struct {
	mu    sync.Mutex
	auth  Authenticator
	state State
	user  string
	token SessionToken
}

func NewGate(a Authenticator) *Gate { return &Gate{auth: a} }

// Login moves to LoggedIn on a credential match. A failed attempt leaves the state as it was.
func (g *Gate) Login(user, pass string) (SessionToken, error) {
	tok, err := g.auth.Authenticate(user, pass)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = LoggedIn
	g.user = user
	g.token = tok
	return tok, nil
}

func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = LoggedOut
	g.user = ""
	g.token = ""
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) LoggedIn() bool { return g.State() == LoggedIn }

func (g *Gate) User() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user
}

// Valid reports whether tok is the token of the current login.
func (g *Gate) Valid(tok SessionToken) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == LoggedIn && tok != "" &&
		subtle.ConstantTimeCompare([]byte(g.token), []byte(tok)) == 1
}

// Sessions keeps one Gate per key: a chat id for the bot, a cookie token for the web.
type Sessions struct {
	mu    sync.Mutex
	auth  Authenticator
	gates map[string]*Gate
}

func NewSessions(a Authenticator) *Sessions {
	return &Sessions{auth: a, gates: make(map[string]*Gate)}
}

// Gate returns the gate for key, creating a logged-out one if needed.
func (s *Sessions) Gate(key string) *Gate {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[key]
	if !ok {
		g = NewGate(s.auth)
		s.gates[key] = g
	}
	return g
}

func (s *Sessions) Lookup(key string) (*Gate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[key]
	return g, ok
}

// Drop logs the gate under key out and forgets it.
func (s *Sessions) Drop(key string) {
	s.mu.Lock()
	g, ok := s.gates[key]
	delete(s.gates, key)
	s.mu.Unlock()
	if ok {
		g.Logout()
	}
}

// Login opens a new gate keyed by the token it issues.
func (s *Sessions) Login(user, pass string) (SessionToken, error) {
	g := NewGate(s.auth)
	tok, err := g.Login(user, pass)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.gates[string(tok)] = g
	s.mu.Unlock()
	return tok, nil
}

// Valid reports whether tok belongs to a logged-in gate opened by Login.
func (s *Sessions) Valid(tok SessionToken) bool {
	g, ok := s.Lookup(string(tok))
	return ok && g.Valid(tok)
}
