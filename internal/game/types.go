// internal/game/types.go
//
// Core type definitions for the scavenger-hunt engine.
// Defines:
//   - SlotState: per-slot validity of a letter slot (unknown/valid/invalid).
//   - SubmitResult: what a single submit did to the letter bag.
//   - Snapshot types: read-only views handed to the presentation layer.
//   - Sentinel errors for malformed events (never for wrong answers).

package game

import "errors"

// SlotState is the validity of one letter slot after the last submit.
//   - "unknown": never submitted, or edited since the last submit.
//   - "valid":   accepted; the slot is locked for good.
//   - "invalid": rejected; the slot stays editable.
type SlotState string

const (
	SlotUnknown SlotState = "unknown"
	SlotValid   SlotState = "valid"
	SlotInvalid SlotState = "invalid"
)

// Wrong answers are flags on the station snapshot, not errors.
// These errors describe events that do not address a real input.
var (
	ErrUnknownStation = errors.New("unknown station")
	ErrPartOutOfRange = errors.New("part out of range")
	ErrSlotOutOfRange = errors.New("slot out of range")
	ErrSlotLocked     = errors.New("slot locked")
	ErrNotAnswerPart  = errors.New("station has no free-text answer")
)

// SubmitResult reports the outcome of one submit event.
type SubmitResult struct {
	Awarded  []string `json:"awarded"`  // letters appended to the bag by this submit
	Mismatch bool     `json:"mismatch"` // nothing matched (the station error flag)
	Noop     bool     `json:"noop"`     // the target was already solved; nothing ran
}

// Snapshot is the full read-only state of a session.
type Snapshot struct {
	ID         string            `json:"id"`
	Venue      string            `json:"venue"`
	Letters    []string          `json:"letters"`
	Stations   []StationSnapshot `json:"stations"`
	FinalWord  string            `json:"finalWord"`
	Won        bool              `json:"won"`
	WinMessage string            `json:"winMessage,omitempty"`
	ClaimCode  string            `json:"claimCode,omitempty"`
	Complete   int               `json:"complete"` // stations with nothing left to solve
	Total      int               `json:"total"`
}

// StationSnapshot describes one station for rendering.
// Answer stations fill Parts; slot stations fill Slots and Error.
type StationSnapshot struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Kind     string         `json:"kind"`
	Prompt   string         `json:"prompt,omitempty"`
	Complete bool           `json:"complete"`
	Error    bool           `json:"error"`
	Parts    []PartSnapshot `json:"parts,omitempty"`
	Slots    []SlotSnapshot `json:"slots,omitempty"`
}

// PartSnapshot is one free-text riddle of an answer station.
type PartSnapshot struct {
	Prompt    string `json:"prompt"`
	Input     string `json:"input"`
	MaxLength int    `json:"maxLength,omitempty"`
	Solved    bool   `json:"solved"`
	Error     bool   `json:"error"`
	Letter    string `json:"letter,omitempty"` // only revealed once solved
}

// SlotSnapshot is one single-letter input of a slot station.
type SlotSnapshot struct {
	Value  string    `json:"value"`
	State  SlotState `json:"state"`
	Locked bool      `json:"locked"`
}
