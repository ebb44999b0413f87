package auth

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vi13x/antc-trx/internal/domain"
)

type SessionToken string

// Authenticator checks operator credentials. It returns domain.ErrDenied on mismatch.
type Authenticator interface {
	Authenticate(user, pass string) (SessionToken, error)
}

// Credential is one allow-list entry; Hash is a bcrypt hash of the password.
type Credential struct {
	Username string `mapstructure:"username" yaml:"username"`
	Hash     string `mapstructure:"hash" yaml:"hash"`
}

// StaticAuthenticator checks against a fixed allow-list loaded from config.
type StaticAuthenticator struct {
	users map[string][]byte
}

func NewStatic(creds []Credential) *StaticAuthenticator {
	a := &StaticAuthenticator{users: make(map[string][]byte, len(creds))}
	for _, c := range creds {
		a.users[strings.TrimSpace(c.Username)] = []byte(c.Hash)
	}
	return a
}

func (a *StaticAuthenticator) Authenticate(user, pass string) (SessionToken, error) {
	h, ok := a.users[strings.TrimSpace(user)]
	if !ok || bcrypt.CompareHashAndPassword(h, []byte(pass)) != nil {
		return "", domain.ErrDenied
	}
	return SessionToken(uuid.NewString()), nil
}

func HashPassword(pass string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// IsHash reports whether s parses as a bcrypt hash.
func IsHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
