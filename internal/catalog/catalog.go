// internal/catalog/catalog.go
//
// Venue catalog: the stations, riddles and target word of one hunt.
//
// Responsibilities:
//   - Parse a venue from YAML (embedded default or a file named by CATALOG_FILE).
//   - Validate its shape (go-playground/validator + cross-field rules).
//   - Normalise answers to lowercase and letters to uppercase.
//   - Produce a public view that never contains answers.
//
// Station kinds:
//   - "answer": one or more independent free-text parts, each awarding one letter.
//   - "slots":  N single-letter inputs validated against a candidate list.

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/mystere-theatre/assets"
)

// Kind is the shape of a station.
type Kind string

const (
	KindAnswer Kind = "answer"
	KindSlots  Kind = "slots"
)

// Venue is a complete hunt definition.
type Venue struct {
	Name       string    `yaml:"name" json:"name" validate:"required"`
	Target     string    `yaml:"target" json:"-" validate:"required"`
	WinMessage string    `yaml:"win_message" json:"-"`
	Stations   []Station `yaml:"stations" json:"stations" validate:"required,min=1,dive"`
}

// Station is one room of the venue.
type Station struct {
	ID         string   `yaml:"id" json:"id" validate:"required"`
	Title      string   `yaml:"title" json:"title" validate:"required"`
	Kind       Kind     `yaml:"kind" json:"kind" validate:"required,oneof=answer slots"`
	Prompt     string   `yaml:"prompt" json:"prompt,omitempty"`
	Parts      []Part   `yaml:"parts" json:"parts,omitempty" validate:"dive"`
	Slots      int      `yaml:"slots" json:"slots,omitempty" validate:"gte=0"`
	Candidates []string `yaml:"candidates" json:"-" validate:"dive,len=1"`
}

// Part is one free-text riddle of an answer station.
type Part struct {
	Prompt    string   `yaml:"prompt" json:"prompt"`
	Answers   []string `yaml:"answers" json:"-" validate:"required,min=1,dive,required"`
	Letter    string   `yaml:"letter" json:"-" validate:"required,len=1"`
	MaxLength int      `yaml:"max_length" json:"maxLength,omitempty" validate:"gte=0"`
}

var validate = validator.New()

// Load reads a venue from path, or the embedded default venue when path is empty.
func Load(path string) (*Venue, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in theatre venue.
func Default() (*Venue, error) {
	data, err := assets.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes, normalises and validates a YAML venue.
// Unknown keys are rejected so typos in a venue file fail loudly.
func Parse(data []byte) (*Venue, error) {
	var v Venue
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	v.normalize()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// Validate checks struct tags and the rules tags cannot express.
func (v *Venue) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(v.Stations))
	for _, st := range v.Stations {
		if _, dup := seen[st.ID]; dup {
			return fmt.Errorf("invalid catalog: duplicate station id %q", st.ID)
		}
		seen[st.ID] = struct{}{}

		switch st.Kind {
		case KindAnswer:
			if len(st.Parts) == 0 {
				return fmt.Errorf("invalid catalog: station %q has no parts", st.ID)
			}
			if st.Slots != 0 || len(st.Candidates) != 0 {
				return fmt.Errorf("invalid catalog: answer station %q cannot have slots", st.ID)
			}
		case KindSlots:
			if st.Slots <= 0 || len(st.Candidates) == 0 {
				return fmt.Errorf("invalid catalog: slot station %q needs slots and candidates", st.ID)
			}
			if len(st.Parts) != 0 {
				return fmt.Errorf("invalid catalog: slot station %q cannot have parts", st.ID)
			}
		}
	}
	if strings.TrimSpace(v.Target) == "" {
		return errors.New("invalid catalog: empty target")
	}
	return nil
}

func (v *Venue) normalize() {
	v.Target = strings.ToLower(strings.TrimSpace(v.Target))
	for i := range v.Stations {
		st := &v.Stations[i]
		st.ID = strings.TrimSpace(st.ID)
		for j := range st.Candidates {
			st.Candidates[j] = strings.ToUpper(strings.TrimSpace(st.Candidates[j]))
		}
		for j := range st.Parts {
			p := &st.Parts[j]
			p.Letter = strings.ToUpper(strings.TrimSpace(p.Letter))
			for k := range p.Answers {
				p.Answers[k] = strings.ToLower(strings.TrimSpace(p.Answers[k]))
			}
		}
	}
}

// Station looks up a station definition by id.
func (v *Venue) Station(id string) (Station, bool) {
	for _, st := range v.Stations {
		if st.ID == id {
			return st, true
		}
	}
	return Station{}, false
}
