package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesGetSet(t *testing.T) {
	v := NewValues()

	_, ok := v.Get("FormInfo.ContactForm.result")
	assert.False(t, ok, "missing key should not be present")

	v.Set("FormInfo.ContactForm.result", "stored")
	got, ok := v.Get("FormInfo.ContactForm.result")
	require.True(t, ok)
	assert.Equal(t, "stored", got)
}

func TestValuesClearRemovesSubtree(t *testing.T) {
	v := NewValues()
	v.Set("FormInfo.ContactForm.result", "r")
	v.Set("FormInfo.ContactForm.data", "d")
	v.Set("FormInfo.OtherForm.result", "keep")

	v.Clear("FormInfo.ContactForm")

	_, ok := v.Get("FormInfo.ContactForm.result")
	assert.False(t, ok)
	_, ok = v.Get("FormInfo.ContactForm.data")
	assert.False(t, ok)
	_, ok = v.Get("FormInfo.OtherForm.result")
	assert.True(t, ok, "sibling form state must survive")
}

func TestManagerResolveCreatesSession(t *testing.T) {
	m := NewManager(WithTTL(time.Minute))
	defer m.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	store := m.Resolve(rec, req)
	require.NotNil(t, store)
	assert.Equal(t, 1, m.Count())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestManagerResolveReusesSession(t *testing.T) {
	m := NewManager(WithTTL(time.Minute))
	defer m.Close()

	rec := httptest.NewRecorder()
	first := m.Resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	first.Set("marker", 42)

	cookie := rec.Result().Cookies()[0]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	second := m.Resolve(httptest.NewRecorder(), req)
	got, ok := second.Get("marker")
	require.True(t, ok, "same cookie should resolve the same session")
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, m.Count())
}

func TestManagerExpiredSessionReplaced(t *testing.T) {
	m := NewManager(WithTTL(-time.Second), WithCleanupInterval(time.Hour))
	defer m.Close()

	rec := httptest.NewRecorder()
	first := m.Resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	first.Set("marker", "old")

	cookie := rec.Result().Cookies()[0]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	second := m.Resolve(httptest.NewRecorder(), req)
	_, ok := second.Get("marker")
	assert.False(t, ok, "expired session must not be reused")
}

func TestManagerLookup(t *testing.T) {
	m := NewManager(WithTTL(time.Minute))
	defer m.Close()

	rec := httptest.NewRecorder()
	m.Resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rec.Result().Cookies()[0].Value

	_, ok := m.Lookup(id)
	assert.True(t, ok)
	_, ok = m.Lookup("missing")
	assert.False(t, ok)
}
