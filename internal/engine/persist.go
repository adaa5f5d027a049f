package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pokehub/internal/catalog"
	"pokehub/internal/storage"
)

// Persister records the full updated collection after an add.
type Persister interface {
	Save(ctx context.Context, doc catalog.Document) error
}

type PersisterFunc func(ctx context.Context, doc catalog.Document) error

func (f PersisterFunc) Save(ctx context.Context, doc catalog.Document) error { return f(ctx, doc) }

func nopSave(context.Context, catalog.Document) error { return nil }

// DefaultPersistDelay is how long DelayPersister pretends a save takes.
const DefaultPersistDelay = 500 * time.Millisecond

// DelayPersister is a placeholder for a remote save: it succeeds after
// Delay, or fails with the context error if ctx ends first.
type DelayPersister struct {
	Delay time.Duration
}

func (p DelayPersister) Save(ctx context.Context, _ catalog.Document) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HTTPPersister POSTs the whole document as JSON to URL.
type HTTPPersister struct {
	URL  string
	HTTP *http.Client
}

func NewHTTPPersister(url string, client *http.Client) *HTTPPersister {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPersister{URL: url, HTTP: client}
}

func (p *HTTPPersister) Save(ctx context.Context, doc catalog.Document) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(doc); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("post %s: %s", p.URL, resp.Status)
	}
	return nil
}

// StorePersister writes the collection to the local store, replacing
// whatever was stored before.
type StorePersister struct {
	Entries *storage.EntryRepo
}

func (p StorePersister) Save(ctx context.Context, doc catalog.Document) error {
	rows := make([]storage.EntryRow, 0, len(doc.Pokemon))
	for _, e := range doc.Pokemon {
		rows = append(rows, rowFromEntry(e))
	}
	return p.Entries.ReplaceAll(ctx, rows)
}
