package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pokehub/internal/catalog"
	"pokehub/internal/engine"
	"pokehub/internal/storage"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func seed() []catalog.Entry {
	return []catalog.Entry{
		{ID: 1, Name: "Bulbasaur", Types: []catalog.Type{catalog.TypeGrass, catalog.TypePoison}, Region: catalog.RegionKanto, Image: "b.png", Stats: catalog.NewStats(45, 49, 49, 45)},
		{ID: 4, Name: "Charmander", Types: []catalog.Type{catalog.TypeFire}, Region: catalog.RegionKanto, Image: "c.png", Stats: catalog.NewStats(39, 52, 43, 65)},
		{ID: 152, Name: "Chikorita", Types: []catalog.Type{catalog.TypeGrass}, Region: catalog.RegionJohto, Image: "k.png", Stats: catalog.NewStats(45, 49, 65, 45)},
	}
}

func newTestServer(t *testing.T, src engine.DataSource, p engine.Persister) (*engine.Service, *httptest.Server) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if src == nil {
		src = engine.SourceFunc(func(context.Context) (catalog.Document, error) {
			return catalog.Document{Pokemon: seed()}, nil
		})
	}
	svc := engine.NewService(src, engine.NewKVFavorites(storage.NewKVRepo(db)), p, engine.WithLogger(quietLog))
	_ = svc.Load(context.Background())

	srv := httptest.NewServer(New(svc, quietLog).Routes())
	t.Cleanup(srv.Close)
	return svc, srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any, v any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestListFilters(t *testing.T) {
	_, srv := newTestServer(t, nil, nil)

	var all []catalog.Entry
	if code := getJSON(t, srv.URL+"/api/pokemon", &all); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if len(all) != 3 {
		t.Fatalf("len=%d, want 3", len(all))
	}

	var kanto []catalog.Entry
	getJSON(t, srv.URL+"/api/pokemon?region=kanto&q=CHAR", &kanto)
	if len(kanto) != 1 || kanto[0].ID != 4 {
		t.Fatalf("kanto/char=%+v", kanto)
	}

	var grass []catalog.Entry
	getJSON(t, srv.URL+"/api/pokemon?q=grass", &grass)
	if len(grass) != 2 {
		t.Fatalf("grass len=%d, want 2", len(grass))
	}

	if code := getJSON(t, srv.URL+"/api/pokemon?region=Orre", nil); code != http.StatusBadRequest {
		t.Fatalf("unknown region status=%d, want 400", code)
	}
}

func TestRegionsInDisplayOrder(t *testing.T) {
	_, srv := newTestServer(t, nil, nil)

	var got []regionCount
	getJSON(t, srv.URL+"/api/regions", &got)
	if len(got) != len(catalog.Regions()) {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].Region != catalog.RegionAll || got[0].Count != 3 {
		t.Fatalf("first=%+v", got[0])
	}
	want := map[catalog.Region]int{catalog.RegionKanto: 2, catalog.RegionJohto: 1, catalog.RegionPaldea: 0}
	for _, rc := range got {
		if n, ok := want[rc.Region]; ok && n != rc.Count {
			t.Fatalf("%s=%d, want %d", rc.Region, rc.Count, n)
		}
	}
}

func TestToggleFavoriteAndFavoritesFilter(t *testing.T) {
	_, srv := newTestServer(t, nil, nil)

	var tb toggleBody
	if code := postJSON(t, srv.URL+"/api/favorites/152", nil, &tb); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if !tb.Favorite || tb.ID != 152 {
		t.Fatalf("toggle=%+v", tb)
	}

	var favs []int64
	getJSON(t, srv.URL+"/api/favorites", &favs)
	if len(favs) != 1 || favs[0] != 152 {
		t.Fatalf("favorites=%v", favs)
	}

	var only []catalog.Entry
	getJSON(t, srv.URL+"/api/pokemon?favorites=1", &only)
	if len(only) != 1 || only[0].Name != "Chikorita" {
		t.Fatalf("favorites only=%+v", only)
	}

	postJSON(t, srv.URL+"/api/favorites/152", nil, &tb)
	if tb.Favorite {
		t.Fatalf("second toggle should clear favorite")
	}

	if code := postJSON(t, srv.URL+"/api/favorites/abc", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("bad id status=%d", code)
	}
}

func validBody() catalog.NewEntry {
	return catalog.NewEntry{
		Name:    "Mudkip",
		Types:   []catalog.Type{catalog.TypeWater},
		Region:  catalog.RegionHoenn,
		Image:   "m.png",
		HP:      50,
		Attack:  70,
		Defense: 50,
		Speed:   40,
	}
}

func TestAddEntry(t *testing.T) {
	svc, srv := newTestServer(t, nil, nil)

	var added catalog.Entry
	if code := postJSON(t, srv.URL+"/api/pokemon", validBody(), &added); code != http.StatusCreated {
		t.Fatalf("status=%d", code)
	}
	if added.ID != 153 || added.Stats.Total != 210 {
		t.Fatalf("added=%+v", added)
	}
	if svc.Snapshot().Len() != 4 {
		t.Fatalf("len=%d, want 4", svc.Snapshot().Len())
	}

	bad := validBody()
	bad.Name = ""
	bad.HP = 0
	var eb errorBody
	if code := postJSON(t, srv.URL+"/api/pokemon", bad, &eb); code != http.StatusBadRequest {
		t.Fatalf("invalid status=%d", code)
	}
	if eb.Fields["name"] == "" || eb.Fields["hp"] == "" {
		t.Fatalf("fields=%v", eb.Fields)
	}
}

func TestAddEntryPersistFailure(t *testing.T) {
	fail := engine.PersisterFunc(func(context.Context, catalog.Document) error {
		return errors.New("backend down")
	})
	svc, srv := newTestServer(t, nil, fail)

	var eb errorBody
	if code := postJSON(t, srv.URL+"/api/pokemon", validBody(), &eb); code != http.StatusBadGateway {
		t.Fatalf("status=%d, want 502", code)
	}
	if !strings.Contains(eb.Error, "backend down") {
		t.Fatalf("error=%q", eb.Error)
	}
	if svc.Snapshot().Len() != 3 {
		t.Fatalf("collection not rolled back: len=%d", svc.Snapshot().Len())
	}
}

func TestUnavailableAfterFailedLoad(t *testing.T) {
	fail := true
	src := engine.SourceFunc(func(context.Context) (catalog.Document, error) {
		if fail {
			return catalog.Document{}, errors.New("offline")
		}
		return catalog.Document{Pokemon: seed()}, nil
	})
	_, srv := newTestServer(t, src, nil)

	if code := getJSON(t, srv.URL+"/api/pokemon", nil); code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", code)
	}
	var st statusBody
	getJSON(t, srv.URL+"/api/status", &st)
	if st.Error == "" || st.Loading {
		t.Fatalf("status=%+v", st)
	}

	fail = false
	var after statusBody
	if code := postJSON(t, srv.URL+"/api/reload", nil, &after); code != http.StatusOK {
		t.Fatalf("reload status=%d", code)
	}
	if after.Count != 3 || after.Error != "" {
		t.Fatalf("after reload=%+v", after)
	}
	if code := getJSON(t, srv.URL+"/api/pokemon", nil); code != http.StatusOK {
		t.Fatalf("status after reload=%d", code)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	_, srv := newTestServer(t, nil, nil)

	resp, err := http.Get(srv.URL + "/api/schema")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), `"pokemon"`) {
		t.Fatalf("schema body=%s", b)
	}
}

func TestStreamSendsSnapshots(t *testing.T) {
	svc, srv := newTestServer(t, nil, nil)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first snapshotView
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if len(first.Pokemon) != 3 || first.Regions[0].Count != 3 {
		t.Fatalf("initial view=%+v", first)
	}

	if _, err := svc.ToggleFavorite(context.Background(), 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	for {
		var next snapshotView
		if err := conn.ReadJSON(&next); err != nil {
			t.Fatalf("read update: %v", err)
		}
		if next.Version <= first.Version {
			continue
		}
		if len(next.Favorites) != 1 || next.Favorites[0] != 1 {
			t.Fatalf("favorites=%v", next.Favorites)
		}
		return
	}
}
