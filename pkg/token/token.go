// Package token implements the CSRF security token checked on every form
// submission. Token values are minted per browser session and compared in
// constant time.
package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"sync/atomic"

	"github.com/strata-dev/strata/pkg/session"
)

// DefaultName is the submitted field name carrying the token value.
const DefaultName = "SecurityID"

// sessionKeyPrefix namespaces token values inside the session store.
const sessionKeyPrefix = "SecurityToken."

// globalEnabled is the process-wide default for new forms. Individual forms
// may still enable or disable their own token.
var globalEnabled atomic.Bool

func init() {
	globalEnabled.Store(true)
}

// EnableGlobally turns the global CSRF default on.
func EnableGlobally() { globalEnabled.Store(true) }

// DisableGlobally turns the global CSRF default off. Intended for tests and
// for deployments that handle CSRF at an outer layer.
func DisableGlobally() { globalEnabled.Store(false) }

// GloballyEnabled reports the process-wide default.
func GloballyEnabled() bool { return globalEnabled.Load() }

// Token is the security-token contract consumed by the form layer.
type Token interface {
	// Name is the submitted field name carrying the token value.
	Name() string

	// Value returns the session's token value, minting one on first use.
	Value(sess session.Store) string

	// IsEnabled reports whether submissions must carry a valid token.
	IsEnabled() bool

	// CheckRequest reports whether the request carries the session's token.
	CheckRequest(r *http.Request, sess session.Store) bool

	// Reset discards the session's token so the next Value mints a new one.
	Reset(sess session.Store)
}

// Default returns a live SecurityToken or a NullToken depending on the
// global default.
func Default() Token {
	if GloballyEnabled() {
		return New(DefaultName)
	}
	return NullToken{name: DefaultName}
}

// SecurityToken is the live Token implementation.
type SecurityToken struct {
	name string
}

// New creates a SecurityToken under the given field name. An empty name
// falls back to DefaultName.
func New(name string) *SecurityToken {
	if name == "" {
		name = DefaultName
	}
	return &SecurityToken{name: name}
}

// Name returns the submitted field name.
func (t *SecurityToken) Name() string { return t.name }

// IsEnabled always reports true for a live token.
func (t *SecurityToken) IsEnabled() bool { return true }

// Value returns the session's token, minting and storing one if absent.
func (t *SecurityToken) Value(sess session.Store) string {
	key := sessionKeyPrefix + t.name
	if v, ok := sess.Get(key); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	minted := mintValue()
	sess.Set(key, minted)
	return minted
}

// CheckRequest compares the submitted token field against the session value
// in constant time. A missing session token never matches.
func (t *SecurityToken) CheckRequest(r *http.Request, sess session.Store) bool {
	submitted := r.PostFormValue(t.name)
	if submitted == "" {
		submitted = r.URL.Query().Get(t.name)
	}
	if submitted == "" {
		return false
	}
	stored, ok := sess.Get(sessionKeyPrefix + t.name)
	if !ok {
		return false
	}
	current, _ := stored.(string)
	if current == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(current)) == 1
}

// Reset discards the session's token value.
func (t *SecurityToken) Reset(sess session.Store) {
	sess.Clear(sessionKeyPrefix + t.name)
}

// NullToken is the disabled variant: it never injects a field and accepts
// every request.
type NullToken struct {
	name string
}

// NewNullToken creates a NullToken reporting the given field name.
func NewNullToken(name string) NullToken {
	if name == "" {
		name = DefaultName
	}
	return NullToken{name: name}
}

func (t NullToken) Name() string { return t.name }

func (t NullToken) IsEnabled() bool { return false }

func (t NullToken) Value(session.Store) string { return "" }

func (t NullToken) CheckRequest(*http.Request, session.Store) bool { return true }

func (t NullToken) Reset(session.Store) {}

func mintValue() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
