package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"pokehub/internal/catalog"
	"pokehub/internal/storage"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func openTestStore(t *testing.T) *storage.KVRepo {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewKVRepo(db)
}

func staticSource(entries ...catalog.Entry) DataSource {
	return SourceFunc(func(context.Context) (catalog.Document, error) {
		return catalog.Document{Pokemon: entries}, nil
	})
}

func newTestService(t *testing.T, src DataSource, p Persister) (*Service, *storage.KVRepo) {
	t.Helper()
	kv := openTestStore(t)
	svc := NewService(src, NewKVFavorites(kv), p, WithLogger(quietLog))
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc, kv
}

func entry(id int64, name string, region catalog.Region, types ...catalog.Type) catalog.Entry {
	return catalog.Entry{ID: id, Name: name, Types: types, Region: region, Image: name + ".png", Stats: catalog.Stats{Total: 300}}
}

func newEntry(name string) catalog.NewEntry {
	return catalog.NewEntry{
		Name:    name,
		Types:   []catalog.Type{catalog.TypeWater},
		Region:  catalog.RegionJohto,
		Image:   "https://img.example/" + name + ".png",
		HP:      50,
		Attack:  65,
		Defense: 64,
		Speed:   44,
	}
}

func ids(entries []catalog.Entry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestAddEntryComputesTotal(t *testing.T) {
	svc, _ := newTestService(t, staticSource(), nil)
	ctx := context.Background()

	in := newEntry("Totodile")
	got, err := svc.AddEntry(ctx, in)
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	want := in.HP + in.Attack + in.Defense + in.Speed
	if got.Stats.Total != want {
		t.Fatalf("total=%d, want %d", got.Stats.Total, want)
	}
	stored, ok := svc.Snapshot().Entry(got.ID)
	if !ok || stored.Stats.Total != want {
		t.Fatalf("stored entry=%+v, want total %d", stored, want)
	}
}

func TestAddEntryAssignsSequentialIDs(t *testing.T) {
	svc, _ := newTestService(t, staticSource(), nil)
	ctx := context.Background()

	for i, name := range []string{"A", "B", "C"} {
		e, err := svc.AddEntry(ctx, newEntry(name))
		if err != nil {
			t.Fatalf("AddEntry %s: %v", name, err)
		}
		if e.ID != int64(i+1) {
			t.Fatalf("id=%d, want %d", e.ID, i+1)
		}
	}
	if got := ids(svc.Entries()); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Fatalf("ids=%v, want [1 2 3]", got)
	}
}

func TestAddEntryUsesMaxIDNotLength(t *testing.T) {
	src := staticSource(
		entry(25, "Pikachu", catalog.RegionKanto, catalog.TypeElectric),
		entry(4, "Charmander", catalog.RegionKanto, catalog.TypeFire),
	)
	svc, _ := newTestService(t, src, nil)

	e, err := svc.AddEntry(context.Background(), newEntry("Chikorita"))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if e.ID != 26 {
		t.Fatalf("id=%d, want 26", e.ID)
	}
	if got := ids(svc.Entries()); !reflect.DeepEqual(got, []int64{25, 4, 26}) {
		t.Fatalf("order=%v, want insertion order", got)
	}
}

func TestAddEntryRollsBackOnPersistFailure(t *testing.T) {
	boom := errors.New("backend down")
	src := staticSource(entry(1, "Bulbasaur", catalog.RegionKanto, catalog.TypeGrass))
	var saw int
	svc, _ := newTestService(t, src, PersisterFunc(func(ctx context.Context, doc catalog.Document) error {
		saw = len(doc.Pokemon)
		return boom
	}))
	before := svc.Entries()

	_, err := svc.AddEntry(context.Background(), newEntry("Cyndaquil"))
	var perr *PersistError
	if !errors.As(err, &perr) {
		t.Fatalf("err=%v, want *PersistError", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err does not wrap persister error: %v", err)
	}
	if perr.Entry.Name != "Cyndaquil" {
		t.Fatalf("PersistError entry=%q", perr.Entry.Name)
	}
	if saw != 2 {
		t.Fatalf("persister saw %d entries, want full updated collection of 2", saw)
	}
	if after := svc.Entries(); !reflect.DeepEqual(after, before) {
		t.Fatalf("collection after failure=%v, want %v", after, before)
	}
}

func TestAddEntryVisibleBeforePersistCompletes(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	svc, _ := newTestService(t, staticSource(), PersisterFunc(func(ctx context.Context, doc catalog.Document) error {
		close(entered)
		<-release
		return nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := svc.AddEntry(context.Background(), newEntry("Marill"))
		done <- err
	}()

	<-entered
	if n := svc.Snapshot().Len(); n != 1 {
		t.Fatalf("optimistic len=%d, want 1", n)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
}

func TestToggleFavoriteIsItsOwnInverse(t *testing.T) {
	svc, kv := newTestService(t, staticSource(entry(1, "Bulbasaur", catalog.RegionKanto, catalog.TypeGrass)), nil)
	ctx := context.Background()

	if _, err := svc.ToggleFavorite(ctx, 3); err != nil {
		t.Fatalf("seed toggle: %v", err)
	}
	before := svc.Snapshot().FavoriteIDs()

	on, err := svc.ToggleFavorite(ctx, 1)
	if err != nil || !on {
		t.Fatalf("first toggle=%v,%v, want true", on, err)
	}
	if !svc.IsFavorite(1) {
		t.Fatalf("expected 1 to be favorite")
	}
	off, err := svc.ToggleFavorite(ctx, 1)
	if err != nil || off {
		t.Fatalf("second toggle=%v,%v, want false", off, err)
	}
	if after := svc.Snapshot().FavoriteIDs(); !reflect.DeepEqual(after, before) {
		t.Fatalf("favorites=%v, want %v", after, before)
	}

	row, err := kv.Get(ctx, FavoritesKey)
	if err != nil || row == nil {
		t.Fatalf("stored favorites=%v,%v", row, err)
	}
	if row.Value != "[3]" {
		t.Fatalf("stored=%s, want [3]", row.Value)
	}
}

func TestToggleFavoriteWithoutEntryIsInert(t *testing.T) {
	svc, _ := newTestService(t, staticSource(entry(1, "Bulbasaur", catalog.RegionKanto, catalog.TypeGrass)), nil)
	if _, err := svc.ToggleFavorite(context.Background(), 99); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	snap := svc.Snapshot()
	if !snap.IsFavorite(99) {
		t.Fatalf("expected 99 in favorites set")
	}
	if got := snap.Apply(Filter{FavoritesOnly: true}); len(got) != 0 {
		t.Fatalf("favorites-only list=%v, want empty", got)
	}
}

func TestFavoritesSurviveRestart(t *testing.T) {
	kv := openTestStore(t)
	ctx := context.Background()
	src := staticSource(entry(7, "Squirtle", catalog.RegionKanto, catalog.TypeWater))

	first := NewService(src, NewKVFavorites(kv), nil, WithLogger(quietLog))
	if err := first.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := first.ToggleFavorite(ctx, 7); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	second := NewService(src, NewKVFavorites(kv), nil, WithLogger(quietLog))
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !second.IsFavorite(7) {
		t.Fatalf("favorite lost across sessions")
	}
}

func TestMalformedFavoritesAreIgnored(t *testing.T) {
	kv := openTestStore(t)
	ctx := context.Background()
	if err := kv.Set(ctx, FavoritesKey, `{"not":"an array"}`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewService(staticSource(), NewKVFavorites(kv), nil, WithLogger(quietLog))
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n := svc.Snapshot().FavoriteCount(); n != 0 {
		t.Fatalf("favorites=%d, want 0", n)
	}
	if _, err := svc.ToggleFavorite(ctx, 5); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	row, _ := kv.Get(ctx, FavoritesKey)
	if row == nil || row.Value != "[5]" {
		t.Fatalf("stored=%v, want [5]", row)
	}
}

func TestFilteredEntries(t *testing.T) {
	src := staticSource(
		entry(1, "Charmander", catalog.RegionKanto, catalog.TypeFire),
		entry(2, "Charizard", catalog.RegionJohto, catalog.TypeFire, catalog.TypeFlying),
		entry(3, "Squirtle", catalog.RegionKanto, catalog.TypeWater),
	)
	svc, _ := newTestService(t, src, nil)

	if got := ids(svc.FilteredEntries(catalog.RegionAll, "")); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Fatalf("All/empty=%v, want every entry in order", got)
	}
	if got := ids(svc.FilteredEntries(catalog.RegionKanto, "char")); !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("Kanto/char=%v, want [1]", got)
	}
	if got := ids(svc.FilteredEntries(catalog.RegionAll, "FLY")); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("All/FLY=%v, want [2]", got)
	}
	if got := svc.FilteredEntries(catalog.RegionHoenn, ""); len(got) != 0 {
		t.Fatalf("Hoenn=%v, want empty", got)
	}
}

func TestFilteredEntriesReturnsCopies(t *testing.T) {
	svc, _ := newTestService(t, staticSource(entry(1, "Eevee", catalog.RegionKanto, catalog.TypeNormal)), nil)
	got := svc.FilteredEntries(catalog.RegionAll, "")
	got[0].Name = "changed"
	got[0].Types[0] = catalog.TypeDark
	e, _ := svc.Snapshot().Entry(1)
	if e.Name != "Eevee" || e.Types[0] != catalog.TypeNormal {
		t.Fatalf("caller mutated service state: %+v", e)
	}
}

func TestCountsByRegion(t *testing.T) {
	svc, _ := newTestService(t, staticSource(), nil)
	counts := svc.CountsByRegion()
	if len(counts) != len(catalog.Regions()) {
		t.Fatalf("counts has %d regions, want %d", len(counts), len(catalog.Regions()))
	}
	for _, r := range catalog.Regions() {
		n, ok := counts[r]
		if !ok || n != 0 {
			t.Fatalf("counts[%s]=%d,%v, want 0", r, n, ok)
		}
	}

	src := staticSource(
		entry(1, "Charmander", catalog.RegionKanto, catalog.TypeFire),
		entry(2, "Chikorita", catalog.RegionJohto, catalog.TypeGrass),
		entry(3, "Pikachu", catalog.RegionKanto, catalog.TypeElectric),
		entry(4, "Missingno", catalog.Region("Orre"), catalog.TypeNormal),
	)
	svc, _ = newTestService(t, src, nil)
	counts = svc.CountsByRegion()
	if counts[catalog.RegionAll] != 4 || counts[catalog.RegionKanto] != 2 || counts[catalog.RegionJohto] != 1 || counts[catalog.RegionPaldea] != 0 {
		t.Fatalf("counts=%v", counts)
	}
	if _, ok := counts[catalog.Region("Orre")]; ok {
		t.Fatalf("unknown region should not get its own count")
	}
}

func TestLoadRederivesTotalsFromBaseStats(t *testing.T) {
	e := entry(1, "Onix", catalog.RegionKanto, catalog.TypeRock)
	e.Stats = catalog.Stats{HP: 35, Attack: 45, Defense: 160, Speed: 70, Total: 1}
	svc, _ := newTestService(t, staticSource(e, entry(2, "Mew", catalog.RegionKanto, catalog.TypePsychic)), nil)

	onix, _ := svc.Snapshot().Entry(1)
	if onix.Stats.Total != 310 {
		t.Fatalf("total=%d, want 310", onix.Stats.Total)
	}
	mew, _ := svc.Snapshot().Entry(2)
	if mew.Stats.Total != 300 {
		t.Fatalf("total-only entry changed: %d", mew.Stats.Total)
	}
}

func TestLoadErrorAndRetry(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(context.Context) (catalog.Document, error) {
		if calls.Add(1) == 1 {
			return catalog.Document{}, errors.New("connection refused")
		}
		return catalog.Document{Pokemon: []catalog.Entry{entry(1, "Togepi", catalog.RegionJohto, catalog.TypeFairy)}}, nil
	})
	svc := NewService(src, nil, nil, WithLogger(quietLog))
	if !svc.Loading() {
		t.Fatalf("expected loading before first Load")
	}

	err := svc.Load(context.Background())
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("err=%v, want *LoadError", err)
	}
	if lerr.Msg == "" {
		t.Fatalf("LoadError without message")
	}
	if svc.Loading() || svc.Err() == nil {
		t.Fatalf("state after failure: loading=%v err=%v", svc.Loading(), svc.Err())
	}

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if svc.Err() != nil || svc.Snapshot().Len() != 1 {
		t.Fatalf("state after retry: err=%v len=%d", svc.Err(), svc.Snapshot().Len())
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	svc, _ := newTestService(t, staticSource(), nil)
	ch, cancel := svc.Subscribe()
	defer cancel()

	initial := <-ch
	if _, err := svc.AddEntry(context.Background(), newEntry("Wooper")); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	select {
	case snap := <-ch:
		if snap.Version <= initial.Version || snap.Len() != 1 {
			t.Fatalf("snapshot version=%d len=%d", snap.Version, snap.Len())
		}
	case <-time.After(time.Second):
		t.Fatalf("no snapshot published")
	}

	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after cancel")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFile)
	doc := catalog.Document{Pokemon: []catalog.Entry{entry(1, "Lapras", catalog.RegionKanto, catalog.TypeWater, catalog.TypeIce)}}
	data, _ := json.Marshal(doc)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := FileSource{Path: path}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got.Pokemon) != 1 || got.Pokemon[0].Types[1] != catalog.TypeIce {
		t.Fatalf("doc=%+v", got)
	}

	if _, err := (FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app/" + DataFile:
			_, _ = w.Write([]byte(`{"pokemon":[{"id":1,"name":"Eevee","type":["normal"],"region":"Kanto","image":"e.png","stats":{"total":325}}]}`))
		case "/broken/" + DataFile:
			_, _ = w.Write([]byte(`{"pokemon": [`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	doc, err := NewHTTPSource(srv.URL+"/app/", srv.Client()).Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(doc.Pokemon) != 1 || doc.Pokemon[0].Name != "Eevee" {
		t.Fatalf("doc=%+v", doc)
	}
	if _, err := NewHTTPSource(srv.URL+"/missing", srv.Client()).Fetch(ctx); err == nil {
		t.Fatalf("expected error on 404")
	}
	if _, err := NewHTTPSource(srv.URL+"/broken", srv.Client()).Fetch(ctx); err == nil {
		t.Fatalf("expected error on bad json")
	}
}

func TestHTTPPersister(t *testing.T) {
	var got catalog.Document
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if fail {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewHTTPPersister(srv.URL+"/api/pokemon", srv.Client())
	doc := catalog.Document{Pokemon: []catalog.Entry{entry(1, "Snorlax", catalog.RegionKanto, catalog.TypeNormal)}}
	if err := p.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(got.Pokemon) != 1 || got.Pokemon[0].Name != "Snorlax" {
		t.Fatalf("server got %+v", got)
	}

	fail = true
	if err := p.Save(context.Background(), doc); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestStorePersisterRoundTripsThroughStoreSource(t *testing.T) {
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	repo := storage.NewEntryRepo(db)
	ctx := context.Background()

	svc := NewService(StoreSource{Entries: repo}, nil, StorePersister{Entries: repo}, WithLogger(quietLog))
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	added, err := svc.AddEntry(ctx, newEntry("Mareep"))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	next := NewService(StoreSource{Entries: repo}, nil, nil, WithLogger(quietLog))
	if err := next.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := next.Snapshot().Entry(added.ID)
	if !ok {
		t.Fatalf("added entry not in store")
	}
	if !reflect.DeepEqual(got, added) {
		t.Fatalf("stored=%+v, want %+v", got, added)
	}
}

func TestDelayPersister(t *testing.T) {
	if err := (DelayPersister{Delay: time.Millisecond}).Save(context.Background(), catalog.Document{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (DelayPersister{Delay: time.Hour}).Save(ctx, catalog.Document{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
