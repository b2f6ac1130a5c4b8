// Package api contains the HTTP handlers, request/response models and
// error mapping for the card curation API. Handlers are thin: they
// decode and validate requests, call into the store, session and
// gateway layers, and translate errors to status codes without leaking
// internal details.
package api
