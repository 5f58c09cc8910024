// Package questreward computes token rewards for quest completions and audits
// client-claimed amounts against the server-computed ones.
package questreward

// Reward maps a submitted score to a token amount. Implementations are pure:
// once constructed they never fail and have no side effects.
type Reward interface {
	// NeedScore reports whether the rule is a function of the score. The
	// endpoint rejects score-less attempts at rules that need one.
	NeedScore() bool

	Calculate(score int64) int64
}
