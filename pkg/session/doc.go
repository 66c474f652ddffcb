// Package session provides the per-browser-session key/value store the form
// layer persists its redisplay state into.
//
// Keys are dotted paths ("FormInfo.ContactForm.result"). Clearing a key also
// clears everything nested under it. The Manager resolves a Store per HTTP
// request via a session cookie and expires idle sessions in the background.
//
// Concurrent requests from the same browser session race on these keys with
// last-write-wins semantics. The stored data is advisory redisplay state, not
// a system of record, so no locking beyond map safety is provided.
package session
