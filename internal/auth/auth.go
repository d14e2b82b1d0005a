// Package auth is the cosmetic credential gate in front of the random pick screen.
// It protects nothing: the credentials ship with the binary.
package auth

import (
	"crypto/subtle"
	"sync"

	"github.com/pkg/errors"

	"github.com/alvarorichard/gokino/internal/util"
)

// Default credentials
const (
	DefaultUsername = "elshappo"
	DefaultPassword = "42"
)

// ErrInvalidCredentials is returned by Login for a wrong username or password
var ErrInvalidCredentials = errors.New("неверный логин или пароль")

// Gate remembers whether the user logged in during this session
type Gate struct {
	username string
	password string

	mu         sync.RWMutex
	authorized bool
}

// NewGate returns a gate for the given credentials. Empty values use the defaults.
func NewGate(username, password string) *Gate {
	if username == "" {
		username = DefaultUsername
	}
	if password == "" {
		password = DefaultPassword
	}
	return &Gate{username: username, password: password}
}

// Login authorizes the session when the credentials match
func (g *Gate) Login(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	if !userOK || !passOK {
		util.Debug("login rejected", "username", username)
		return ErrInvalidCredentials
	}

	g.mu.Lock()
	g.authorized = true
	g.mu.Unlock()
	util.Debug("login accepted", "username", username)
	return nil
}

// Logout clears the session
func (g *Gate) Logout() {
	g.mu.Lock()
	g.authorized = false
	g.mu.Unlock()
}

// Authorized reports whether Login succeeded since the last Logout
func (g *Gate) Authorized() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authorized
}
