// internal/game/matcher.go
//
// Answer matching for the two station shapes.
//   - MatchExact:  free-text riddles with a small set of accepted spellings.
//   - MatchLetter: single-letter slots with a candidate list, minus letters
//                  already earned.
//
// Both are pure predicates: they never touch station or bag state.

package game

import (
	"strings"
	"unicode/utf8"
)

// LetterSet is the read side of the letter bag used by MatchLetter.
type LetterSet interface {
	Contains(letter string) bool
}

// MatchExact reports whether raw equals one of accepted, ignoring case and
// surrounding whitespace. There is no partial or fuzzy matching.
func MatchExact(raw string, accepted []string) bool {
	s := normalizeAnswer(raw)
	if s == "" {
		return false
	}
	for _, a := range accepted {
		if s == normalizeAnswer(a) {
			return true
		}
	}
	return false
}

// MatchLetter validates a letter slot.
// raw must be exactly one character (after trimming); its uppercase form must
// be one of candidates and must not already be in earned.
// Returns the uppercase letter on success.
func MatchLetter(raw string, candidates []string, earned LetterSet) (string, bool) {
	s := strings.TrimSpace(raw)
	if utf8.RuneCountInString(s) != 1 {
		return "", false
	}
	letter := strings.ToUpper(s)
	if !containsLetter(candidates, letter) {
		return "", false
	}
	if earned != nil && earned.Contains(letter) {
		return "", false
	}
	return letter, true
}

// normalizeAnswer lowercases and trims an answer for comparison.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsLetter(candidates []string, letter string) bool {
	for _, c := range candidates {
		if strings.ToUpper(c) == letter {
			return true
		}
	}
	return false
}

// pendingSet is the bag plus letters accepted earlier in the same submission,
// so one submit cannot earn the same letter twice through two slots.
type pendingSet struct {
	inv     LetterSet
	pending []string
}

func (p *pendingSet) Contains(letter string) bool {
	for _, l := range p.pending {
		if l == letter {
			return true
		}
	}
	return p.inv.Contains(letter)
}
