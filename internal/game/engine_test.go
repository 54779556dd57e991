package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mystere-theatre/internal/catalog"
)

func newTheatreSession(t *testing.T) *Session {
	t.Helper()
	v, err := catalog.Default()
	require.NoError(t, err)
	return New(v)
}

func stationSnap(t *testing.T, s *Session, id string) StationSnapshot {
	t.Helper()
	for _, st := range s.Snapshot().Stations {
		if st.ID == id {
			return st
		}
	}
	t.Fatalf("station %q not in snapshot", id)
	return StationSnapshot{}
}

// Scenario A: "l" at the corridor station.
func TestSession_CorridorAwardsL(t *testing.T) {
	s := newTheatreSession(t)

	res, err := s.SubmitAnswer("couloir", 0, "l")
	require.NoError(t, err)

	assert.Equal(t, []string{"L"}, res.Awarded)
	assert.Equal(t, []string{"L"}, s.Letters())
	snap := stationSnap(t, s, "couloir")
	assert.True(t, snap.Complete)
	assert.True(t, snap.Parts[0].Solved)
	assert.Equal(t, "L", snap.Parts[0].Letter)
}

func TestSession_WrongAnswerKeepsInputAndFlagsError(t *testing.T) {
	s := newTheatreSession(t)

	res, err := s.SubmitAnswer("couloir", 0, "x")
	require.NoError(t, err)
	assert.True(t, res.Mismatch)

	snap := stationSnap(t, s, "couloir")
	assert.True(t, snap.Parts[0].Error)
	assert.False(t, snap.Parts[0].Solved)
	assert.Equal(t, "x", snap.Parts[0].Input)
	assert.Empty(t, s.Letters())

	require.NoError(t, s.Input("couloir", 0, 0, "L"))
	assert.False(t, stationSnap(t, s, "couloir").Parts[0].Error, "typing clears the error")

	res, err = s.Submit("couloir", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"L"}, res.Awarded)
}

func TestSession_SolvedStationIsIdempotent(t *testing.T) {
	s := newTheatreSession(t)
	_, err := s.SubmitAnswer("regie", 0, "c")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := s.SubmitAnswer("regie", 0, "c")
		require.NoError(t, err)
		assert.True(t, res.Noop)
	}
	assert.Equal(t, []string{"C"}, s.Letters())
	assert.False(t, s.Won())
	assert.Equal(t, "c", stationSnap(t, s, "regie").Parts[0].Input, "solved input is read-only")
}

// Scenario B: partial credit on a two-slot station.
func TestSession_PartialCredit(t *testing.T) {
	s := newTheatreSession(t)
	require.NoError(t, s.Input("loges", 0, 0, "u"))
	require.NoError(t, s.Input("loges", 0, 1, "x"))

	res, err := s.Submit("loges", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"U"}, res.Awarded)
	assert.False(t, res.Mismatch)

	snap := stationSnap(t, s, "loges")
	assert.Equal(t, SlotValid, snap.Slots[0].State)
	assert.True(t, snap.Slots[0].Locked)
	assert.Equal(t, SlotInvalid, snap.Slots[1].State)
	assert.False(t, snap.Slots[1].Locked)
	assert.False(t, snap.Error)
	assert.False(t, snap.Complete)
	assert.Equal(t, []string{"U"}, s.Letters())
}

func TestSession_SlotStationAllWrongSetsError(t *testing.T) {
	s := newTheatreSession(t)
	require.NoError(t, s.Input("loges", 0, 0, "a"))

	for i := 0; i < 3; i++ {
		res, err := s.Submit("loges", 0)
		require.NoError(t, err)
		assert.True(t, res.Mismatch, "no lockout after repeated failures")
	}
	snap := stationSnap(t, s, "loges")
	assert.True(t, snap.Error)
	assert.Equal(t, SlotInvalid, snap.Slots[0].State)
	assert.Equal(t, SlotInvalid, snap.Slots[1].State, "empty slot fails too")
}

func TestSession_SlotInputResetsStateButNotLocks(t *testing.T) {
	s := newTheatreSession(t)
	require.NoError(t, s.Input("loges", 0, 0, "u"))
	require.NoError(t, s.Input("loges", 0, 1, "x"))
	_, err := s.Submit("loges", 0)
	require.NoError(t, err)

	require.NoError(t, s.Input("loges", 0, 1, "i"))
	snap := stationSnap(t, s, "loges")
	assert.Equal(t, SlotUnknown, snap.Slots[1].State)
	assert.Equal(t, SlotValid, snap.Slots[0].State)

	assert.ErrorIs(t, s.Input("loges", 0, 0, "i"), ErrSlotLocked)
	assert.Equal(t, "u", stationSnap(t, s, "loges").Slots[0].Value)

	res, err := s.Submit("loges", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"I"}, res.Awarded)
	assert.True(t, stationSnap(t, s, "loges").Complete)

	res, err = s.Submit("loges", 0)
	require.NoError(t, err)
	assert.True(t, res.Noop)
	assert.Equal(t, []string{"U", "I"}, s.Letters())
}

func TestSession_SlotErrorClearedByTyping(t *testing.T) {
	s := newTheatreSession(t)
	_, err := s.Submit("public", 0)
	require.NoError(t, err)
	require.True(t, stationSnap(t, s, "public").Error)

	require.NoError(t, s.Input("public", 0, 2, "o"))
	assert.False(t, stationSnap(t, s, "public").Error)
}

// Scenario D: two independent S awards at the stage station.
func TestSession_StageAwardsTwoS(t *testing.T) {
	s := newTheatreSession(t)

	_, err := s.SubmitAnswer("scene", 1, "Shakespeare")
	require.NoError(t, err)
	_, err = s.SubmitAnswer("scene", 0, "bach")
	require.NoError(t, err)

	assert.Equal(t, []string{"S", "S"}, s.Letters())
	snap := stationSnap(t, s, "scene")
	assert.True(t, snap.Complete)
	assert.True(t, snap.Parts[0].Solved)
	assert.True(t, snap.Parts[1].Solved)
}

func TestSession_NoDoubleEarningAcrossStations(t *testing.T) {
	s := newTheatreSession(t)
	_, err := s.SubmitAnswer("scene", 0, "chopin")
	require.NoError(t, err)

	require.NoError(t, s.Input("public", 0, 0, "s"))
	require.NoError(t, s.Input("public", 0, 1, "o"))
	res, err := s.Submit("public", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"O"}, res.Awarded)
	assert.Equal(t, []string{"S", "O"}, s.Letters())
	snap := stationSnap(t, s, "public")
	assert.Equal(t, SlotInvalid, snap.Slots[0].State, "S was already earned at the stage")
}

func TestSession_NoDoubleEarningWithinOneSubmit(t *testing.T) {
	s := newTheatreSession(t)
	require.NoError(t, s.Input("public", 0, 0, "e"))
	require.NoError(t, s.Input("public", 0, 1, "E"))

	res, err := s.Submit("public", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"E"}, res.Awarded)
	snap := stationSnap(t, s, "public")
	assert.Equal(t, SlotValid, snap.Slots[0].State)
	assert.Equal(t, SlotInvalid, snap.Slots[1].State)
}

// Scenario C: the win is textual and ignores the bag.
func TestSession_WinIgnoresBag(t *testing.T) {
	s := newTheatreSession(t)

	assert.False(t, s.TypeFinalWord("COULISSE"))
	assert.True(t, s.TypeFinalWord("COULISSES"))
	assert.True(t, s.Won())
	assert.False(t, s.WonAt.IsZero())

	snap := s.Snapshot()
	assert.True(t, snap.Won)
	assert.Empty(t, snap.Letters)
	assert.NotEmpty(t, snap.WinMessage)
}

func TestSession_Monotonic(t *testing.T) {
	s := newTheatreSession(t)
	events := []func(){
		func() { _, _ = s.SubmitAnswer("couloir", 0, "l") },
		func() { _ = s.TypeFinalWord("coulisses") },
		func() { _, _ = s.SubmitAnswer("couloir", 0, "l") },
		func() { _ = s.Input("loges", 0, 0, "u") },
		func() { _, _ = s.Submit("loges", 0) },
		func() { _ = s.TypeFinalWord("") },
		func() { _, _ = s.Submit("public", 0) },
		func() { _, _ = s.SubmitAnswer("regie", 0, "c") },
	}
	prevLen, wasWon := 0, false
	for _, ev := range events {
		ev()
		assert.GreaterOrEqual(t, len(s.Letters()), prevLen)
		if wasWon {
			assert.True(t, s.Won())
		}
		prevLen, wasWon = len(s.Letters()), s.Won()
	}
	assert.Equal(t, []string{"L", "U", "C"}, s.Letters())
}

func TestSession_BadEvents(t *testing.T) {
	s := newTheatreSession(t)

	_, err := s.Submit("foyer", 0)
	assert.ErrorIs(t, err, ErrUnknownStation)
	_, err = s.Submit("scene", 2)
	assert.ErrorIs(t, err, ErrPartOutOfRange)
	assert.ErrorIs(t, s.Input("loges", 0, 5, "u"), ErrSlotOutOfRange)
	assert.ErrorIs(t, s.Input("couloir", 0, 1, "l"), ErrSlotOutOfRange)
	_, err = s.SubmitAnswer("loges", 0, "u")
	assert.ErrorIs(t, err, ErrNotAnswerPart)
}

func TestSession_FullPlaythrough(t *testing.T) {
	s := newTheatreSession(t)

	_, _ = s.SubmitAnswer("couloir", 0, "l")
	_ = s.Input("loges", 0, 0, "u")
	_ = s.Input("loges", 0, 1, "i")
	_, _ = s.Submit("loges", 0)
	_, _ = s.SubmitAnswer("scene", 0, "mozart")
	_, _ = s.SubmitAnswer("scene", 1, "william shakespeare")
	_ = s.Input("public", 0, 0, "o")
	_ = s.Input("public", 0, 1, "e")
	_, _ = s.Submit("public", 0)
	_, _ = s.SubmitAnswer("regie", 0, "C")

	snap := s.Snapshot()
	assert.Equal(t, []string{"L", "U", "I", "S", "S", "O", "E", "C"}, snap.Letters)
	assert.Equal(t, 4, snap.Complete, "public still has one open slot")
	assert.Equal(t, 5, snap.Total)
	assert.True(t, s.TypeFinalWord("Coulisses"))
}
