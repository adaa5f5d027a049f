package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"pokehub/internal/storage"
)

// FavoritesKey is the local storage key holding the favorites array.
const FavoritesKey = "pokemon-favorites"

// FavoritesStore persists the favorites set between sessions.
type FavoritesStore interface {
	LoadFavorites(ctx context.Context) ([]int64, error)
	SaveFavorites(ctx context.Context, ids []int64) error
}

// KVFavorites stores the favorites set as a JSON array under FavoritesKey.
type KVFavorites struct {
	KV *storage.KVRepo
}

func NewKVFavorites(kv *storage.KVRepo) *KVFavorites {
	return &KVFavorites{KV: kv}
}

// LoadFavorites returns nil when nothing was stored yet.
func (f *KVFavorites) LoadFavorites(ctx context.Context) ([]int64, error) {
	row, err := f.KV.Get(ctx, FavoritesKey)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(row.Value), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFavorites, err)
	}
	return ids, nil
}

func (f *KVFavorites) SaveFavorites(ctx context.Context, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}
	return f.KV.Set(ctx, FavoritesKey, string(data))
}

// ToggleFavorite adds id to the favorites set, or removes it if present, and
// writes the new set to the store. It reports whether id is now a favorite.
// id does not have to match a loaded entry. If the store write fails the
// set is left as it was.
func (s *Service) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	next := make(map[int64]struct{}, len(cur.favorites)+1)
	for k := range cur.favorites {
		next[k] = struct{}{}
	}
	_, was := next[id]
	if was {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}

	if s.favorites != nil {
		ids := Snapshot{favorites: next}.FavoriteIDs()
		if err := s.favorites.SaveFavorites(ctx, ids); err != nil {
			return was, fmt.Errorf("save favorites: %w", err)
		}
	}

	s.commit(func(snap *Snapshot) {
		snap.favorites = next
	})
	s.log.Debug("favorite toggled", "id", id, "favorite", !was)
	return !was, nil
}
