// internal/game/station.go
//
// Puzzle stations. Two shapes share the Station interface:
//
//   AnswerStation: one or more independent free-text parts. Each part is
//     unanswered → (submit, match) → solved [terminal]
//     unanswered → (submit, no match) → unanswered + error (retry forever)
//   A solved part appends its fixed letter unconditionally.
//
//   SlotStation: N single-letter slots with one shared submit. Every unlocked
//   slot is validated on submit; valid slots lock and append their letter,
//   invalid ones stay editable. The station error is set only when no slot
//   validated (partial credit is silent).

package game

import "github.com/robalobadob/mystere-theatre/internal/catalog"

// Station is the common event surface of both station shapes.
// part selects a free-text part (answer stations), slot selects a letter slot
// (slot stations); the other index must be 0.
type Station interface {
	ID() string
	Input(part, slot int, raw string) error
	Submit(part int) (SubmitResult, error)
	Complete() bool
	Snapshot() StationSnapshot
}

// ------------------------------ answer station -----------------------------

// answerPart is the attempt state of one free-text riddle.
type answerPart struct {
	def    catalog.Part
	input  string
	solved bool
	err    bool
}

// AnswerStation holds one or more independent free-text riddles.
type AnswerStation struct {
	def   catalog.Station
	inv   *Inventory
	parts []*answerPart
}

// NewAnswerStation builds an unanswered station writing into inv.
func NewAnswerStation(def catalog.Station, inv *Inventory) *AnswerStation {
	s := &AnswerStation{def: def, inv: inv}
	for _, p := range def.Parts {
		s.parts = append(s.parts, &answerPart{def: p})
	}
	return s
}

func (s *AnswerStation) ID() string { return s.def.ID }

func (s *AnswerStation) part(i int) (*answerPart, error) {
	if i < 0 || i >= len(s.parts) {
		return nil, ErrPartOutOfRange
	}
	return s.parts[i], nil
}

// Input records a keystroke in a part's field and clears its error.
// Solved parts are read-only; input to them is ignored.
func (s *AnswerStation) Input(part, slot int, raw string) error {
	if slot != 0 {
		return ErrSlotOutOfRange
	}
	p, err := s.part(part)
	if err != nil {
		return err
	}
	if p.solved {
		return nil
	}
	p.input = raw
	p.err = false
	return nil
}

// Submit checks the part's current input.
func (s *AnswerStation) Submit(part int) (SubmitResult, error) {
	p, err := s.part(part)
	if err != nil {
		return SubmitResult{}, err
	}
	return s.submit(p), nil
}

// SubmitAnswer stores raw as the part's input and checks it in one step.
func (s *AnswerStation) SubmitAnswer(part int, raw string) (SubmitResult, error) {
	if err := s.Input(part, 0, raw); err != nil {
		return SubmitResult{}, err
	}
	return s.Submit(part)
}

func (s *AnswerStation) submit(p *answerPart) SubmitResult {
	if p.solved {
		return SubmitResult{Noop: true}
	}
	if !MatchExact(p.input, p.def.Answers) {
		p.err = true
		return SubmitResult{Mismatch: true}
	}
	p.solved = true
	p.err = false
	s.inv.Append(p.def.Letter)
	return SubmitResult{Awarded: []string{p.def.Letter}}
}

// Complete reports whether every part is solved.
func (s *AnswerStation) Complete() bool {
	for _, p := range s.parts {
		if !p.solved {
			return false
		}
	}
	return true
}

func (s *AnswerStation) Snapshot() StationSnapshot {
	out := StationSnapshot{
		ID:       s.def.ID,
		Title:    s.def.Title,
		Kind:     string(catalog.KindAnswer),
		Prompt:   s.def.Prompt,
		Complete: s.Complete(),
		Parts:    make([]PartSnapshot, 0, len(s.parts)),
	}
	for _, p := range s.parts {
		ps := PartSnapshot{
			Prompt:    p.def.Prompt,
			Input:     p.input,
			MaxLength: p.def.MaxLength,
			Solved:    p.solved,
			Error:     p.err,
		}
		if p.solved {
			ps.Letter = p.def.Letter
		}
		out.Parts = append(out.Parts, ps)
	}
	return out
}

// ------------------------------- slot station ------------------------------

// letterSlot is one single-letter input. A locked slot is always valid.
type letterSlot struct {
	value  string
	state  SlotState
	locked bool
}

// SlotStation holds N letter slots validated together.
type SlotStation struct {
	def   catalog.Station
	inv   *Inventory
	slots []letterSlot
	err   bool
}

// NewSlotStation builds a station with def.Slots empty slots writing into inv.
func NewSlotStation(def catalog.Station, inv *Inventory) *SlotStation {
	s := &SlotStation{def: def, inv: inv, slots: make([]letterSlot, def.Slots)}
	for i := range s.slots {
		s.slots[i].state = SlotUnknown
	}
	return s
}

func (s *SlotStation) ID() string { return s.def.ID }

// Input is the slot-station form of the shared Station event.
func (s *SlotStation) Input(part, slot int, raw string) error {
	if part != 0 {
		return ErrPartOutOfRange
	}
	return s.InputSlot(slot, raw)
}

// InputSlot records a keystroke in slot i. It resets that slot to unknown and
// clears the station error. Locked slots reject input.
func (s *SlotStation) InputSlot(i int, raw string) error {
	if i < 0 || i >= len(s.slots) {
		return ErrSlotOutOfRange
	}
	sl := &s.slots[i]
	if sl.locked {
		return ErrSlotLocked
	}
	sl.value = raw
	sl.state = SlotUnknown
	s.err = false
	return nil
}

// Submit is the slot-station form of the shared Station event.
func (s *SlotStation) Submit(part int) (SubmitResult, error) {
	if part != 0 {
		return SubmitResult{}, ErrPartOutOfRange
	}
	return s.SubmitAll(), nil
}

// SubmitAll validates every unlocked slot against the candidates minus the
// letters already in the bag, then appends the accepted letters in slot order.
func (s *SlotStation) SubmitAll() SubmitResult {
	if s.Complete() {
		return SubmitResult{Noop: true}
	}
	earned := &pendingSet{inv: s.inv}
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.locked {
			continue
		}
		letter, ok := MatchLetter(sl.value, s.def.Candidates, earned)
		if !ok {
			sl.state = SlotInvalid
			continue
		}
		sl.state = SlotValid
		sl.locked = true
		earned.pending = append(earned.pending, letter)
	}

	if len(earned.pending) == 0 {
		s.err = true
		return SubmitResult{Mismatch: true}
	}
	s.inv.Append(earned.pending...)
	s.err = false
	return SubmitResult{Awarded: earned.pending}
}

// Complete reports whether every slot is locked.
func (s *SlotStation) Complete() bool {
	for _, sl := range s.slots {
		if !sl.locked {
			return false
		}
	}
	return true
}

func (s *SlotStation) Snapshot() StationSnapshot {
	out := StationSnapshot{
		ID:       s.def.ID,
		Title:    s.def.Title,
		Kind:     string(catalog.KindSlots),
		Prompt:   s.def.Prompt,
		Complete: s.Complete(),
		Error:    s.err,
		Slots:    make([]SlotSnapshot, 0, len(s.slots)),
	}
	for _, sl := range s.slots {
		out.Slots = append(out.Slots, SlotSnapshot{Value: sl.value, State: sl.state, Locked: sl.locked})
	}
	return out
}
