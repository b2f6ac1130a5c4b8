// Package review implements the review session: a state machine that
// walks one card collection with a cursor, drives approve/skip/edit
// transitions, submits approved cards through the remote gateway, and
// persists every decision through the store so an interrupted session
// resumes at the first undecided card.
//
// Sessions are safe for concurrent callers but transitions are strictly
// sequential per session: a second transition while one is in flight is
// rejected with ErrBusy rather than queued.
package review
