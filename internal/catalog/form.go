package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// NewEntry is an entry as submitted by the add form: everything but the id
// and the derived total.
type NewEntry struct {
	Name    string `json:"name"`
	Types   []Type `json:"type"`
	Region  Region `json:"region"`
	Image   string `json:"image"`
	HP      int    `json:"hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Speed   int    `json:"speed"`
}

// ValidationErrors maps a form field to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, v[f])
	}
	return strings.Join(parts, "; ")
}

// Validate runs the add form checks. It returns nil when the input is
// acceptable; the state manager assumes this has been called.
func (in NewEntry) Validate() error {
	errs := ValidationErrors{}

	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required"
	}
	switch {
	case len(in.Types) == 0:
		errs["types"] = "At least one type is required"
	case len(in.Types) > MaxTypes:
		errs["types"] = fmt.Sprintf("At most %d types are allowed", MaxTypes)
	default:
		seen := map[Type]bool{}
		for _, t := range in.Types {
			if !t.IsValid() {
				errs["types"] = fmt.Sprintf("Unknown type %q", t)
				break
			}
			if seen[t] {
				errs["types"] = fmt.Sprintf("Type %s is listed twice", t.Label())
				break
			}
			seen[t] = true
		}
	}
	if in.Region == "" {
		errs["region"] = "Region is required"
	} else if in.Region == RegionAll || !in.Region.IsValid() {
		errs["region"] = fmt.Sprintf("Unknown region %q", in.Region)
	}
	if strings.TrimSpace(in.Image) == "" {
		errs["image"] = "Image URL is required"
	}
	checkStat(errs, "hp", "HP", in.HP)
	checkStat(errs, "attack", "Attack", in.Attack)
	checkStat(errs, "defense", "Defense", in.Defense)
	checkStat(errs, "speed", "Speed", in.Speed)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkStat(errs ValidationErrors, field, label string, v int) {
	switch {
	case v < MinStat:
		errs[field] = fmt.Sprintf("%s must be at least %d", label, MinStat)
	case v > MaxStat:
		errs[field] = fmt.Sprintf("%s must be at most %d", label, MaxStat)
	}
}

// Total is the live sum shown by the form while typing.
func (in NewEntry) Total() int {
	return in.HP + in.Attack + in.Defense + in.Speed
}

// Build assigns id and the derived total. Name and image are trimmed the
// way the form submits them.
func (in NewEntry) Build(id int64) Entry {
	return Entry{
		ID:     id,
		Name:   strings.TrimSpace(in.Name),
		Types:  append([]Type(nil), in.Types...),
		Region: in.Region,
		Image:  strings.TrimSpace(in.Image),
		Stats:  NewStats(in.HP, in.Attack, in.Defense, in.Speed),
	}
}
