// Package domain defines the core business entities of the curator:
// card records, card collections, their lifecycle statuses and the
// advisory validation warnings attached to card content.
//
// Entities in this package carry their own validation rules and
// transition helpers but perform no I/O. Persistence belongs to the
// store package and remote submission to the anki package.
package domain
