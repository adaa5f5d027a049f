package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pokehub/internal/catalog"
)

// PokeHub theme (CLI + TUI).

const (
	IconHeart      = "♥"
	IconHeartEmpty = "♡"
	IconSparkle    = "✨"
	IconPlus       = "➕"
	IconSearch     = "🔎"
	IconGlobe      = "🌍"
	IconWarn       = "⚠️"
	IconError      = "🧨"
	IconDone       = "✅"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
	cDragon  = lipgloss.Color("99")  // violet
	cFire    = lipgloss.Color("202")
	cElec    = lipgloss.Color("226")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Fav   = lipgloss.NewStyle().Bold(true).Foreground(cBad)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
	Selected    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(cAccent).Padding(0, 1)
	Chip        = lipgloss.NewStyle().Padding(0, 1)
)

var typeColors = map[catalog.Type]lipgloss.Color{
	catalog.TypeFire:     lipgloss.Color("202"),
	catalog.TypeWater:    lipgloss.Color("33"),
	catalog.TypeGrass:    lipgloss.Color("34"),
	catalog.TypeElectric: lipgloss.Color("220"),
	catalog.TypePsychic:  lipgloss.Color("205"),
	catalog.TypeIce:      lipgloss.Color("117"),
	catalog.TypeDragon:   lipgloss.Color("99"),
	catalog.TypeDark:     lipgloss.Color("240"),
	catalog.TypeFairy:    lipgloss.Color("218"),
	catalog.TypeFighting: lipgloss.Color("160"),
	catalog.TypePoison:   lipgloss.Color("128"),
	catalog.TypeGround:   lipgloss.Color("178"),
	catalog.TypeFlying:   lipgloss.Color("111"),
	catalog.TypeBug:      lipgloss.Color("106"),
	catalog.TypeRock:     lipgloss.Color("136"),
	catalog.TypeGhost:    lipgloss.Color("54"),
	catalog.TypeSteel:    lipgloss.Color("250"),
	catalog.TypeNormal:   lipgloss.Color("252"),
}

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// TypeBadge renders a type as a colored badge. Unknown types are muted.
func TypeBadge(t catalog.Type) string {
	c, ok := typeColors[t]
	if !ok {
		return Chip.Foreground(cMuted).Render(string(t))
	}
	return Chip.Bold(true).Foreground(lipgloss.Color("16")).Background(c).Render(t.Label())
}

// StatStyle colors a stat value: ≥100 dragon, ≥80 fire, ≥60 electric.
func StatStyle(v int) lipgloss.Style {
	switch {
	case v >= 100:
		return lipgloss.NewStyle().Bold(true).Foreground(cDragon)
	case v >= 80:
		return lipgloss.NewStyle().Bold(true).Foreground(cFire)
	case v >= 60:
		return lipgloss.NewStyle().Bold(true).Foreground(cElec)
	default:
		return Muted
	}
}

// StatBarMax is the total that fills the stat bar.
const StatBarMax = 1000

// StatBar renders total as a bar of width cells, full at StatBarMax.
func StatBar(total int, width int) string {
	if width <= 3 {
		width = 3
	}
	if total < 0 {
		total = 0
	}
	filled := total * width / StatBarMax
	if filled > width {
		filled = width
	}
	return StatStyle(total).Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

func Heart(fav bool) string {
	if fav {
		return Fav.Render(IconHeart)
	}
	return Muted.Render(IconHeartEmpty)
}
