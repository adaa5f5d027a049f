package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

type Stats struct {
	HP      int `json:"hp,omitempty" jsonschema:"minimum=1,maximum=255"`
	Attack  int `json:"attack,omitempty" jsonschema:"minimum=1,maximum=255"`
	Defense int `json:"defense,omitempty" jsonschema:"minimum=1,maximum=255"`
	Speed   int `json:"speed,omitempty" jsonschema:"minimum=1,maximum=255"`
	Total   int `json:"total" jsonschema:"required"`
}

// NewStats is the only place Total is computed.
func NewStats(hp, attack, defense, speed int) Stats {
	return Stats{
		HP:      hp,
		Attack:  attack,
		Defense: defense,
		Speed:   speed,
		Total:   hp + attack + defense + speed,
	}
}

// HasBase reports whether all four base stats are present. Documents that
// predate the add form only carry a total.
func (s Stats) HasBase() bool {
	return s.HP > 0 && s.Attack > 0 && s.Defense > 0 && s.Speed > 0
}

type Entry struct {
	ID     int64  `json:"id" jsonschema:"required,minimum=1"`
	Name   string `json:"name" jsonschema:"required,minLength=1"`
	Types  []Type `json:"type" jsonschema:"required,minItems=1,maxItems=2"`
	Region Region `json:"region" jsonschema:"required"`
	Image  string `json:"image" jsonschema:"required"`
	Stats  Stats  `json:"stats" jsonschema:"required"`
}

// Document is the shape of pokemon-data.json.
type Document struct {
	Pokemon []Entry `json:"pokemon" jsonschema:"required"`
}

// HasType reports whether t is one of the entry's types.
func (e Entry) HasType(t Type) bool {
	for _, et := range e.Types {
		if et == t {
			return true
		}
	}
	return false
}

// Matches applies the search rule: an empty term matches everything,
// otherwise the folded term must be a substring of the name or of a type.
func (e Entry) Matches(term string) bool {
	if term == "" {
		return true
	}
	needle := Fold(term)
	if strings.Contains(Fold(e.Name), needle) {
		return true
	}
	for _, t := range e.Types {
		if strings.Contains(Fold(string(t)), needle) {
			return true
		}
	}
	return false
}

// Fold returns the case-folded form of s for case-insensitive comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Clone returns a copy that shares no slices with e.
func (e Entry) Clone() Entry {
	out := e
	if e.Types != nil {
		out.Types = append([]Type(nil), e.Types...)
	}
	return out
}
