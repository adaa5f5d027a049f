package engine

import (
	"context"

	"pokehub/internal/catalog"
)

// AddEntry appends a new entry built from in. The id is one more than the
// largest existing id (1 for an empty collection) and the stat total is
// derived from the base stats. in is expected to have passed
// catalog.NewEntry.Validate.
//
// The entry is visible to subscribers before the persister is called. If
// the persister fails, the collection is restored to what it was before the
// call and a *PersistError is returned.
func (s *Service) AddEntry(ctx context.Context, in catalog.NewEntry) (catalog.Entry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.Snapshot()
	entry := in.Build(prev.maxID() + 1)

	updated := make([]catalog.Entry, 0, len(prev.entries)+1)
	updated = append(updated, prev.entries...)
	updated = append(updated, entry)

	s.commit(func(next *Snapshot) {
		next.entries = updated
	})

	if err := s.persister.Save(ctx, catalog.Document{Pokemon: cloneEntries(updated)}); err != nil {
		s.commit(func(next *Snapshot) {
			next.entries = prev.entries
		})
		s.log.Error("persist entry, rolled back", "id", entry.ID, "name", entry.Name, "err", err)
		return catalog.Entry{}, &PersistError{Entry: entry, Err: err}
	}

	s.log.Info("entry added", "id", entry.ID, "name", entry.Name, "total", entry.Stats.Total)
	return entry.Clone(), nil
}
