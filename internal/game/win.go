package game

import "strings"

// WinEvaluator watches the final-word field.
//
// It runs on every keystroke, compares the whole field to the target ignoring
// case, and flips to won exactly once. It never reads the letter bag: the win
// is purely textual.
type WinEvaluator struct {
	target    string
	finalWord string
	won       bool
}

// NewWinEvaluator returns an evaluator for target (case-insensitive).
func NewWinEvaluator(target string) *WinEvaluator {
	return &WinEvaluator{target: strings.ToLower(target)}
}

// Evaluate records raw as the current field value and reports whether this
// keystroke is the one that won the game. Once won, later calls only record
// the field and return false.
func (w *WinEvaluator) Evaluate(raw string) bool {
	w.finalWord = raw
	if w.won {
		return false
	}
	if strings.ToLower(raw) != w.target {
		return false
	}
	w.won = true
	return true
}

// Won reports whether the target word has been typed.
func (w *WinEvaluator) Won() bool { return w.won }

// FinalWord returns the raw content of the final-word field.
func (w *WinEvaluator) FinalWord() string { return w.finalWord }
