// internal/game/engine.go
//
// Game session for one play-through of a venue.
// Responsibilities:
//   - Build every station of the venue around one shared letter bag.
//   - Route input/submit events to stations (all stations are open at once).
//   - Run the win check on every final-word keystroke.
//   - Produce read-only snapshots for the presentation layer.
//
// Notes:
//   - A Session is not safe for concurrent use. Callers serialise events
//     (the store runs each event to completion under its lock).
//   - Nothing here is persisted; a session lives as long as its process.
package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/mystere-theatre/internal/catalog"
)

// Session is one play-through: stations, letter bag and win state.
type Session struct {
	ID        string
	CreatedAt time.Time
	WonAt     time.Time
	ClaimCode string // issued by the server once won; shown at the desk

	venue    *catalog.Venue
	inv      *Inventory
	stations []Station
	byID     map[string]Station
	win      *WinEvaluator
}

// New constructs a fresh session for venue. The same Inventory pointer is
// threaded through every station.
func New(venue *catalog.Venue) *Session {
	inv := NewInventory()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		venue:     venue,
		inv:       inv,
		byID:      make(map[string]Station, len(venue.Stations)),
		win:       NewWinEvaluator(venue.Target),
	}
	for _, def := range venue.Stations {
		var st Station
		switch def.Kind {
		case catalog.KindSlots:
			st = NewSlotStation(def, inv)
		default:
			st = NewAnswerStation(def, inv)
		}
		s.stations = append(s.stations, st)
		s.byID[def.ID] = st
	}
	return s
}

// Station looks up a station by id.
func (s *Session) Station(id string) (Station, error) {
	st, ok := s.byID[id]
	if !ok {
		return nil, ErrUnknownStation
	}
	return st, nil
}

// Input applies an input-change event to a station field.
func (s *Session) Input(stationID string, part, slot int, raw string) error {
	st, err := s.Station(stationID)
	if err != nil {
		return err
	}
	return st.Input(part, slot, raw)
}

// Submit applies a submit event using the station's current inputs.
func (s *Session) Submit(stationID string, part int) (SubmitResult, error) {
	st, err := s.Station(stationID)
	if err != nil {
		return SubmitResult{}, err
	}
	return st.Submit(part)
}

// SubmitAnswer types raw into a free-text part and submits it.
func (s *Session) SubmitAnswer(stationID string, part int, raw string) (SubmitResult, error) {
	st, err := s.Station(stationID)
	if err != nil {
		return SubmitResult{}, err
	}
	as, ok := st.(*AnswerStation)
	if !ok {
		return SubmitResult{}, ErrNotAnswerPart
	}
	return as.SubmitAnswer(part, raw)
}

// TypeFinalWord records a keystroke in the final-word field.
// It returns true only for the keystroke that wins (the celebration signal).
func (s *Session) TypeFinalWord(raw string) bool {
	if !s.win.Evaluate(raw) {
		return false
	}
	s.WonAt = time.Now().UTC()
	return true
}

// Won reports whether the session has been won.
func (s *Session) Won() bool { return s.win.Won() }

// Letters returns the earned letters in display order.
func (s *Session) Letters() []string { return s.inv.Letters() }

// Snapshot returns a read-only view of the whole session.
func (s *Session) Snapshot() Snapshot {
	out := Snapshot{
		ID:        s.ID,
		Venue:     s.venue.Name,
		Letters:   s.inv.Letters(),
		Stations:  make([]StationSnapshot, 0, len(s.stations)),
		FinalWord: s.win.FinalWord(),
		Won:       s.win.Won(),
		Total:     len(s.stations),
	}
	for _, st := range s.stations {
		ss := st.Snapshot()
		if ss.Complete {
			out.Complete++
		}
		out.Stations = append(out.Stations, ss)
	}
	if out.Won {
		out.WinMessage = s.venue.WinMessage
		out.ClaimCode = s.ClaimCode
	}
	return out
}
