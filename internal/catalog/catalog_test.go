package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_TheatreVenue(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "coulisses", v.Target)
	require.Len(t, v.Stations, 5)

	ids := make([]string, 0, len(v.Stations))
	for _, st := range v.Stations {
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []string{"couloir", "loges", "scene", "public", "regie"}, ids)

	loges, ok := v.Station("loges")
	require.True(t, ok)
	assert.Equal(t, KindSlots, loges.Kind)
	assert.Equal(t, 2, loges.Slots)
	assert.Equal(t, []string{"U", "I"}, loges.Candidates)

	scene, ok := v.Station("scene")
	require.True(t, ok)
	require.Len(t, scene.Parts, 2)
	assert.Contains(t, scene.Parts[0].Answers, "johann sebastian bach")
	assert.Equal(t, "S", scene.Parts[1].Letter)
}

func TestParse_Normalizes(t *testing.T) {
	v, err := Parse([]byte(`
name: Test
target: "  Rideau "
stations:
  - id: a
    title: A
    kind: answer
    parts:
      - answers: ["  Molière "]
        letter: r
  - id: b
    title: B
    kind: slots
    slots: 1
    candidates: [i]
`))
	require.NoError(t, err)
	assert.Equal(t, "rideau", v.Target)
	assert.Equal(t, []string{"molière"}, v.Stations[0].Parts[0].Answers)
	assert.Equal(t, "R", v.Stations[0].Parts[0].Letter)
	assert.Equal(t, []string{"I"}, v.Stations[1].Candidates)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key": `
name: T
target: x
bogus: 1
stations: [{id: a, title: A, kind: answer, parts: [{answers: [x], letter: X}]}]`,
		"no stations": `
name: T
target: x`,
		"bad kind": `
name: T
target: x
stations: [{id: a, title: A, kind: riddle, parts: [{answers: [x], letter: X}]}]`,
		"duplicate id": `
name: T
target: x
stations:
  - {id: a, title: A, kind: answer, parts: [{answers: [x], letter: X}]}
  - {id: a, title: B, kind: answer, parts: [{answers: [y], letter: Y}]}`,
		"answer without parts": `
name: T
target: x
stations: [{id: a, title: A, kind: answer}]`,
		"slots without candidates": `
name: T
target: x
stations: [{id: a, title: A, kind: slots, slots: 2}]`,
		"long letter": `
name: T
target: x
stations: [{id: a, title: A, kind: answer, parts: [{answers: [x], letter: XY}]}]`,
		"missing target": `
name: T
stations: [{id: a, title: A, kind: answer, parts: [{answers: [x], letter: X}]}]`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Petit théâtre
target: acte
stations:
  - {id: hall, title: Hall, kind: answer, parts: [{answers: [acte], letter: A}]}
`), 0o644))

	v, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Petit théâtre", v.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestVenueJSON_HidesAnswers(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	s := string(b)
	assert.NotContains(t, s, "coulisses")
	assert.NotContains(t, s, "shakespeare")
	assert.NotContains(t, s, "candidates")
	assert.Contains(t, s, `"title":"Public"`)
}
