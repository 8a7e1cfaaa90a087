// Package models defines the core domain models for the to-do list.
//
// # Models
//
//   - User: a registered account, created on sign-up and never updated
//   - Task: a to-do entry owned by exactly one user
//
// The session (logged-in flag plus identity) lives in the session package,
// since it is local client state rather than a stored document.
//
// # Identity
//
// Both models carry the ID assigned by the document store. The ID is kept
// for the storage layer only: callers identify a task by its
// (Label, Item, FullDescription) triple, so two tasks with identical triples
// are indistinguishable and update/delete act on every match.
package models
