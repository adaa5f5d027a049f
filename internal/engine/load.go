package engine

import (
	"context"
	"errors"

	"pokehub/internal/catalog"
)

const loadFailedMsg = "Failed to load Pokemon data"

// Load fetches the collection from the data source. The favorites set is
// read from its store on the first call only. On failure the state carries
// a *LoadError and the previous collection is kept; call Load again to
// retry.
func (s *Service) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.commit(func(next *Snapshot) {
		next.Loading = true
	})

	s.favsOnce.Do(func() {
		favs := s.readFavorites(ctx)
		s.commit(func(next *Snapshot) {
			next.favorites = favs
		})
	})

	doc, err := s.source.Fetch(ctx)
	if err != nil {
		lerr := &LoadError{Msg: loadFailedMsg, Err: err}
		s.log.Error("load catalog", "err", err)
		s.commit(func(next *Snapshot) {
			next.Loading = false
			next.Err = lerr
		})
		return lerr
	}

	entries := s.normalize(doc.Pokemon)
	s.commit(func(next *Snapshot) {
		next.Loading = false
		next.Err = nil
		next.entries = entries
	})
	s.log.Info("catalog loaded", "entries", len(entries), "favorites", s.Snapshot().FavoriteCount())
	return nil
}

// Reload is the retry action offered after a LoadError.
func (s *Service) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// normalize copies loaded entries and re-derives totals where the base stats
// are present. Unknown regions and types are kept as loaded.
func (s *Service) normalize(in []catalog.Entry) []catalog.Entry {
	out := make([]catalog.Entry, 0, len(in))
	unknown := 0
	for _, e := range in {
		e = e.Clone()
		if e.Stats.HasBase() {
			e.Stats = catalog.NewStats(e.Stats.HP, e.Stats.Attack, e.Stats.Defense, e.Stats.Speed)
		}
		if !knownEntry(e) {
			unknown++
		}
		out = append(out, e)
	}
	if unknown > 0 {
		s.log.Warn("entries with unknown region or type kept as loaded", "count", unknown)
	}
	return out
}

func knownEntry(e catalog.Entry) bool {
	if e.Region == catalog.RegionAll || !e.Region.IsValid() {
		return false
	}
	for _, t := range e.Types {
		if !t.IsValid() {
			return false
		}
	}
	return true
}

func (s *Service) readFavorites(ctx context.Context) map[int64]struct{} {
	favs := map[int64]struct{}{}
	if s.favorites == nil {
		return favs
	}
	ids, err := s.favorites.LoadFavorites(ctx)
	if err != nil {
		if errors.Is(err, ErrMalformedFavorites) {
			s.log.Warn("ignoring stored favorites", "err", err)
		} else {
			s.log.Error("read favorites", "err", err)
		}
		return favs
	}
	for _, id := range ids {
		favs[id] = struct{}{}
	}
	return favs
}
