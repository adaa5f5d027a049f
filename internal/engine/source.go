package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"pokehub/internal/catalog"
	"pokehub/internal/storage"
)

// DataFile is the name of the catalog document relative to a base path.
const DataFile = "pokemon-data.json"

// DataSource returns the full collection in one call.
type DataSource interface {
	Fetch(ctx context.Context) (catalog.Document, error)
}

// SourceFunc adapts a function to DataSource.
type SourceFunc func(ctx context.Context) (catalog.Document, error)

func (f SourceFunc) Fetch(ctx context.Context) (catalog.Document, error) { return f(ctx) }

// FileSource reads the document from a local file.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (catalog.Document, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return catalog.Document{}, fmt.Errorf("open data: %w", err)
	}
	defer f.Close()

	var doc catalog.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return catalog.Document{}, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return doc, nil
}

// HTTPSource fetches DataFile relative to a deployed base URL.
type HTTPSource struct {
	Base string
	HTTP *http.Client
}

func NewHTTPSource(base string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{Base: base, HTTP: client}
}

// URL is the address the document is fetched from.
func (s *HTTPSource) URL() string {
	if strings.HasSuffix(s.Base, ".json") {
		return s.Base
	}
	return strings.TrimRight(s.Base, "/") + "/" + DataFile
}

func (s *HTTPSource) Fetch(ctx context.Context) (catalog.Document, error) {
	u := s.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return catalog.Document{}, err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return catalog.Document{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return catalog.Document{}, fmt.Errorf("get %s: %s", u, resp.Status)
	}
	var doc catalog.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return catalog.Document{}, fmt.Errorf("decode %s: %w", u, err)
	}
	return doc, nil
}

// StoreSource loads the collection last written by StorePersister.
type StoreSource struct {
	Entries *storage.EntryRepo
}

func (s StoreSource) Fetch(ctx context.Context) (catalog.Document, error) {
	rows, err := s.Entries.ListAll(ctx)
	if err != nil {
		return catalog.Document{}, err
	}
	doc := catalog.Document{Pokemon: make([]catalog.Entry, 0, len(rows))}
	for _, r := range rows {
		doc.Pokemon = append(doc.Pokemon, entryFromRow(r))
	}
	return doc, nil
}

func entryFromRow(r storage.EntryRow) catalog.Entry {
	types := make([]catalog.Type, 0, len(r.Types))
	for _, t := range r.Types {
		types = append(types, catalog.Type(t))
	}
	return catalog.Entry{
		ID:     r.ID,
		Name:   r.Name,
		Types:  types,
		Region: catalog.Region(r.Region),
		Image:  r.Image,
		Stats: catalog.Stats{
			HP:      r.HP,
			Attack:  r.Attack,
			Defense: r.Defense,
			Speed:   r.Speed,
			Total:   r.Total,
		},
	}
}

func rowFromEntry(e catalog.Entry) storage.EntryRow {
	types := make([]string, 0, len(e.Types))
	for _, t := range e.Types {
		types = append(types, string(t))
	}
	return storage.EntryRow{
		ID:      e.ID,
		Name:    e.Name,
		Types:   types,
		Region:  string(e.Region),
		Image:   e.Image,
		HP:      e.Stats.HP,
		Attack:  e.Stats.Attack,
		Defense: e.Stats.Defense,
		Speed:   e.Stats.Speed,
		Total:   e.Stats.Total,
	}
}
