package engine

import (
	"log/slog"
	"sync"

	"pokehub/internal/catalog"
)

// Service owns the entry collection, the favorites set and the load status.
// Nothing outside the service mutates either container; every change
// publishes a new Snapshot.
type Service struct {
	source    DataSource
	favorites FavoritesStore
	persister Persister
	log       *slog.Logger

	// writeMu serializes mutations, including the persist call of AddEntry.
	writeMu  sync.Mutex
	favsOnce sync.Once

	mu   sync.RWMutex
	snap Snapshot

	subsMu sync.Mutex
	subs   map[*subscriber]struct{}
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService wires the state manager. favs may be nil for a session-only
// favorites set; p may be nil, in which case adds are never persisted.
func NewService(src DataSource, favs FavoritesStore, p Persister, opts ...Option) *Service {
	if p == nil {
		p = PersisterFunc(nopSave)
	}
	s := &Service{
		source:    src,
		favorites: favs,
		persister: p,
		log:       slog.Default(),
		snap: Snapshot{
			favorites: map[int64]struct{}{},
			Loading:   true,
		},
		subs: map[*subscriber]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state. The returned value is never modified
// by the service.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Service) Entries() []catalog.Entry {
	return s.Snapshot().All()
}

func (s *Service) Loading() bool { return s.Snapshot().Loading }

// Err returns the last LoadError, or nil.
func (s *Service) Err() error { return s.Snapshot().Err }

func (s *Service) FilteredEntries(region catalog.Region, term string) []catalog.Entry {
	return s.Snapshot().FilteredEntries(region, term)
}

func (s *Service) CountsByRegion() map[catalog.Region]int {
	return s.Snapshot().CountsByRegion()
}

func (s *Service) IsFavorite(id int64) bool {
	return s.Snapshot().IsFavorite(id)
}

// commit replaces the state and notifies subscribers. Callers hold writeMu.
func (s *Service) commit(update func(next *Snapshot)) Snapshot {
	s.mu.Lock()
	next := s.snap
	update(&next)
	next.Version++
	s.snap = next
	s.mu.Unlock()

	s.publish(next)
	return next
}
