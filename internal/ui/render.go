package ui

import (
	"fmt"
	"strings"

	"pokehub/internal/catalog"
	"pokehub/internal/engine"
)

// CardLine renders one entry as a single list line.
func CardLine(e catalog.Entry, fav bool) string {
	badges := make([]string, 0, len(e.Types))
	for _, t := range e.Types {
		badges = append(badges, TypeBadge(t))
	}
	return fmt.Sprintf("%s %s %s %s %s %s %s",
		Heart(fav),
		Muted.Render(fmt.Sprintf("#%03d", e.ID)),
		H2.Render(e.Name),
		strings.Join(badges, " "),
		Muted.Render(string(e.Region)+" Region"),
		StatBar(e.Stats.Total, 20),
		StatStyle(e.Stats.Total).Render(fmt.Sprintf("%d", e.Stats.Total)),
	)
}

// Card renders an entry as a bordered panel with its base stats.
func Card(e catalog.Entry, fav bool) string {
	badges := make([]string, 0, len(e.Types))
	for _, t := range e.Types {
		badges = append(badges, TypeBadge(t))
	}
	lines := []string{
		fmt.Sprintf("%s %s %s", H2.Render(e.Name), Muted.Render(fmt.Sprintf("#%03d", e.ID)), Heart(fav)),
		strings.Join(badges, " "),
		Muted.Render(string(e.Region) + " Region"),
	}
	if e.Stats.HasBase() {
		lines = append(lines,
			fmt.Sprintf("HP %s  ATK %s  DEF %s  SPD %s",
				StatStyle(e.Stats.HP).Render(fmt.Sprint(e.Stats.HP)),
				StatStyle(e.Stats.Attack).Render(fmt.Sprint(e.Stats.Attack)),
				StatStyle(e.Stats.Defense).Render(fmt.Sprint(e.Stats.Defense)),
				StatStyle(e.Stats.Speed).Render(fmt.Sprint(e.Stats.Speed)),
			))
	}
	lines = append(lines, fmt.Sprintf("Total Stats %s %s", StatStyle(e.Stats.Total).Render(fmt.Sprint(e.Stats.Total)), StatBar(e.Stats.Total, 20)))
	if e.Image != "" {
		lines = append(lines, Muted.Render(e.Image))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

// RegionStrip renders every region with its count. Regions without entries
// (other than All) are muted since they cannot be usefully selected.
func RegionStrip(counts map[catalog.Region]int, selected catalog.Region) string {
	parts := make([]string, 0, len(counts))
	for _, r := range catalog.Regions() {
		label := fmt.Sprintf("%s %d", r, counts[r])
		switch {
		case r == selected:
			parts = append(parts, Selected.Render(label))
		case counts[r] == 0 && r != catalog.RegionAll:
			parts = append(parts, Chip.Inherit(Muted).Render(label))
		default:
			parts = append(parts, Chip.Inherit(Key).Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// Summary is the "Showing N Pokemon …" line above the list.
func Summary(n int, f engine.Filter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Showing %d Pokemon", n)
	if f.Region != "" && f.Region != catalog.RegionAll {
		fmt.Fprintf(&b, " from %s", f.Region)
	}
	if f.Search != "" {
		fmt.Fprintf(&b, " matching %q", f.Search)
	}
	if f.FavoritesOnly {
		b.WriteString(" (favorites only)")
	}
	return b.String()
}

// EmptyState returns the title and hint shown when nothing matches.
func EmptyState(f engine.Filter) (string, string) {
	switch {
	case f.FavoritesOnly:
		return "No Favorites Yet!", "Start adding some Pokemon to your favorites collection."
	case f.Search != "":
		return "No Pokemon Found", "Try adjusting your search or region filter."
	default:
		return "No Pokemon Found", "No Pokemon available in this region yet."
	}
}
