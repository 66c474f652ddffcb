package token

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/strata-dev/strata/pkg/session"
)

func postWithToken(t *testing.T, name, value string) *http.Request {
	t.Helper()
	form := url.Values{}
	form.Set(name, value)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestValueIsStableWithinSession(t *testing.T) {
	sess := session.NewValues()
	tok := New("")

	first := tok.Value(sess)
	if first == "" {
		t.Fatal("expected a minted token value")
	}
	if second := tok.Value(sess); second != first {
		t.Errorf("token value changed within one session: %q vs %q", first, second)
	}
}

func TestCheckRequestAcceptsSessionToken(t *testing.T) {
	sess := session.NewValues()
	tok := New(DefaultName)
	value := tok.Value(sess)

	if !tok.CheckRequest(postWithToken(t, DefaultName, value), sess) {
		t.Error("valid token should be accepted")
	}
}

func TestCheckRequestRejectsWrongToken(t *testing.T) {
	sess := session.NewValues()
	tok := New(DefaultName)
	tok.Value(sess)

	if tok.CheckRequest(postWithToken(t, DefaultName, "bogus"), sess) {
		t.Error("wrong token should be rejected")
	}
}

func TestCheckRequestRejectsWhenSessionHasNoToken(t *testing.T) {
	sess := session.NewValues()
	tok := New(DefaultName)

	if tok.CheckRequest(postWithToken(t, DefaultName, "anything"), sess) {
		t.Error("request must be rejected when the session holds no token")
	}
}

func TestResetMintsNewValue(t *testing.T) {
	sess := session.NewValues()
	tok := New(DefaultName)

	first := tok.Value(sess)
	tok.Reset(sess)
	if second := tok.Value(sess); second == first {
		t.Error("reset should discard the stored token")
	}
}

func TestNullTokenAcceptsEverything(t *testing.T) {
	sess := session.NewValues()
	tok := NewNullToken("")

	if tok.IsEnabled() {
		t.Error("null token must report disabled")
	}
	if !tok.CheckRequest(httptest.NewRequest(http.MethodPost, "/", nil), sess) {
		t.Error("null token must accept every request")
	}
	if tok.Value(sess) != "" {
		t.Error("null token must not mint values")
	}
}

func TestDefaultHonorsGlobalSwitch(t *testing.T) {
	DisableGlobally()
	defer EnableGlobally()

	if Default().IsEnabled() {
		t.Error("Default should return a disabled token while globally off")
	}

	EnableGlobally()
	if !Default().IsEnabled() {
		t.Error("Default should return a live token while globally on")
	}
}
