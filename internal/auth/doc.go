// Package auth implements authentication for the catalog server.
//
// Two modes are supported, selected via configuration:
//
//   - none: every request is served as the anonymous default user.
//   - local: credentials are checked against the local user database.
//
// In local mode a request may authenticate with HTTP Basic credentials
// (the mechanism e-reader OPDS clients speak) or with a session cookie
// established through the login form. Basic credentials are verified
// with bcrypt on every request; sessions are stored server-side via
// scs with a SQLite-backed store.
//
// Unauthenticated requests receive a 401 response carrying a
// WWW-Authenticate Basic challenge before any library data is touched,
// except for browser requests which are redirected to the login form.
package auth
