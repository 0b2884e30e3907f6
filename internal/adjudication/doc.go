// Package adjudication implements the constitutional adjudication engine:
// the component that decides whether AI-produced candidate work may be
// accepted, must be revised, or requires a human waiver, and — when several
// candidates compete for the same task — which one wins through bounded,
// evidence-weighted debate rounds.
//
// One adjudication call is a single logical pipeline:
//
//	candidates → intake & examination → evidence gathering
//	           → (optional debate rounds) → verdict calculation
//	           → provenance publication → caller
//
// The engine fails closed: every call returns either one complete,
// internally consistent Verdict or one error. Partial verdicts are never
// constructed. Calls are stateless across invocations, so callers may retry
// a whole adjudication from scratch after any error, and concurrent
// adjudications for different tasks share no mutable state.
//
// External collaborators (policy validation, claim extraction, consensus
// review, cryptographic signing) are modeled as narrow interfaces the engine
// borrows for the duration of a call; see collaborators.go.
package adjudication
