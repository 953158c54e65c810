// Package account holds the identities the discipline cascade acts on: users, the
// customer and employee profiles attached to them, warnings and blacklist entries.
package account
