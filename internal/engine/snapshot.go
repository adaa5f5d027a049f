package engine

import (
	"sort"

	"pokehub/internal/catalog"
)

// Snapshot is an immutable view of the service state. Entries and the
// favorites set are replaced, never edited, so a Snapshot can be read from
// any goroutine.
type Snapshot struct {
	Version uint64
	Loading bool
	Err     error

	entries   []catalog.Entry
	favorites map[int64]struct{}
}

// All returns every entry in collection order.
func (s Snapshot) All() []catalog.Entry {
	return cloneEntries(s.entries)
}

func (s Snapshot) Len() int { return len(s.entries) }

// Entry looks up an entry by id.
func (s Snapshot) Entry(id int64) (catalog.Entry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return catalog.Entry{}, false
}

// FilteredEntries returns the entries that are in region (All matches every
// entry) and match term, in collection order.
func (s Snapshot) FilteredEntries(region catalog.Region, term string) []catalog.Entry {
	out := make([]catalog.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !region.Matches(e.Region) {
			continue
		}
		if !e.Matches(term) {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}

// CountsByRegion maps every known region to its entry count. All maps to
// the collection size; regions without entries map to 0. Entries with an
// unknown region are counted under All only.
func (s Snapshot) CountsByRegion() map[catalog.Region]int {
	counts := make(map[catalog.Region]int, len(catalog.Regions()))
	for _, r := range catalog.Regions() {
		counts[r] = 0
	}
	counts[catalog.RegionAll] = len(s.entries)
	for _, e := range s.entries {
		if e.Region == catalog.RegionAll {
			continue
		}
		if _, ok := counts[e.Region]; ok {
			counts[e.Region]++
		}
	}
	return counts
}

func (s Snapshot) IsFavorite(id int64) bool {
	_, ok := s.favorites[id]
	return ok
}

// FavoriteIDs returns the favorites set in ascending order. Ids that match
// no entry are included.
func (s Snapshot) FavoriteIDs() []int64 {
	ids := make([]int64, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s Snapshot) FavoriteCount() int { return len(s.favorites) }

// FavoritesOnly narrows an already filtered list to favorited entries.
func (s Snapshot) FavoritesOnly(entries []catalog.Entry) []catalog.Entry {
	out := make([]catalog.Entry, 0, len(entries))
	for _, e := range entries {
		if s.IsFavorite(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Filter is the full set of list controls offered by the presentation layer.
type Filter struct {
	Region        catalog.Region
	Search        string
	FavoritesOnly bool
}

// Apply runs FilteredEntries and, when requested, FavoritesOnly.
func (s Snapshot) Apply(f Filter) []catalog.Entry {
	region := f.Region
	if region == "" {
		region = catalog.RegionAll
	}
	out := s.FilteredEntries(region, f.Search)
	if f.FavoritesOnly {
		out = s.FavoritesOnly(out)
	}
	return out
}

func (s Snapshot) maxID() int64 {
	var max int64
	for _, e := range s.entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}

func cloneEntries(in []catalog.Entry) []catalog.Entry {
	out := make([]catalog.Entry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
