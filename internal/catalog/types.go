package catalog

import (
	"fmt"
	"strings"
)

type Region string

const (
	RegionAll    Region = "All"
	RegionKanto  Region = "Kanto"
	RegionJohto  Region = "Johto"
	RegionHoenn  Region = "Hoenn"
	RegionSinnoh Region = "Sinnoh"
	RegionUnova  Region = "Unova"
	RegionKalos  Region = "Kalos"
	RegionUrobos Region = "Urobos"
	RegionAlola  Region = "Alola"
	RegionGalar  Region = "Galar"
	RegionHisui  Region = "Hisui"
	RegionPaldea Region = "Paldea"
)

var regions = []Region{
	RegionAll,
	RegionKanto,
	RegionJohto,
	RegionHoenn,
	RegionSinnoh,
	RegionUnova,
	RegionKalos,
	RegionUrobos,
	RegionAlola,
	RegionGalar,
	RegionHisui,
	RegionPaldea,
}

// Regions returns every region in display order, starting with the All wildcard.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// SelectableRegions returns the regions a new entry may be assigned to.
func SelectableRegions() []Region {
	out := make([]Region, 0, len(regions)-1)
	for _, r := range regions {
		if r != RegionAll {
			out = append(out, r)
		}
	}
	return out
}

// IsValid reports whether r is a known region. All counts as known.
func (r Region) IsValid() bool {
	for _, known := range regions {
		if r == known {
			return true
		}
	}
	return false
}

// Matches reports whether an entry in region other passes a filter on r.
func (r Region) Matches(other Region) bool {
	return r == RegionAll || r == other
}

// ParseRegion accepts a region name in any case. Empty input means All.
func ParseRegion(input string) (Region, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return RegionAll, nil
	}
	for _, r := range regions {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown region: %q", input)
}

type Type string

const (
	TypeFire     Type = "fire"
	TypeWater    Type = "water"
	TypeGrass    Type = "grass"
	TypeElectric Type = "electric"
	TypePsychic  Type = "psychic"
	TypeIce      Type = "ice"
	TypeDragon   Type = "dragon"
	TypeDark     Type = "dark"
	TypeFairy    Type = "fairy"
	TypeFighting Type = "fighting"
	TypePoison   Type = "poison"
	TypeGround   Type = "ground"
	TypeFlying   Type = "flying"
	TypeBug      Type = "bug"
	TypeRock     Type = "rock"
	TypeGhost    Type = "ghost"
	TypeSteel    Type = "steel"
	TypeNormal   Type = "normal"
)

var types = []Type{
	TypeFire, TypeWater, TypeGrass, TypeElectric, TypePsychic, TypeIce,
	TypeDragon, TypeDark, TypeFairy, TypeFighting, TypePoison, TypeGround,
	TypeFlying, TypeBug, TypeRock, TypeGhost, TypeSteel, TypeNormal,
}

// Types returns the 18 known types in form order.
func Types() []Type {
	out := make([]Type, len(types))
	copy(out, types)
	return out
}

func (t Type) IsValid() bool {
	for _, known := range types {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the capitalized display form ("fire" -> "Fire").
func (t Type) Label() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func ParseType(input string) (Type, error) {
	t := Type(strings.TrimSpace(strings.ToLower(input)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown type: %q", input)
	}
	return t, nil
}

const (
	MinStat  = 1
	MaxStat  = 255
	MaxTypes = 2
)
