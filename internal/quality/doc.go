// Package quality produces advisory validation warnings for card
// content. Checkers are pure functions of the card's text: no I/O, no
// randomness, and a stable warning order for identical input.
//
// Warnings never block a review transition. The worst severity a
// checker assigns to model-valid content is warning; the error
// severity is reserved for structural problems the domain layer
// rejects before a checker runs.
//
// Two engines live behind the same interface: HeuristicChecker, the
// default reasoned engine, and StrictChecker, the older mechanical
// rule set kept for callers that still want it.
package quality
