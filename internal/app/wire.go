package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"pokehub/internal/engine"
	"pokehub/internal/storage"
)

// Wire bundles the store, source, persister and service for the CLI.
type Wire struct {
	DB        *sql.DB
	KV        *storage.KVRepo
	Entries   *storage.EntryRepo
	Source    engine.DataSource
	Persister engine.Persister
	Service   *engine.Service
	Log       *slog.Logger
}

// NewWire constructs the dependency graph from cfg. The returned cleanup
// closes the store. The service is not loaded yet.
func NewWire(ctx context.Context, cfg Config, log *slog.Logger) (*Wire, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	w := &Wire{
		DB:      db,
		KV:      storage.NewKVRepo(db),
		Entries: storage.NewEntryRepo(db),
		Log:     log,
	}

	switch {
	case cfg.Data == StoreData:
		w.Source = engine.StoreSource{Entries: w.Entries}
	case isRemote(cfg.Data):
		w.Source = engine.NewHTTPSource(cfg.Data, httpClient)
	default:
		w.Source = engine.FileSource{Path: cfg.Data}
	}

	switch cfg.Persist {
	case PersistStore:
		w.Persister = engine.StorePersister{Entries: w.Entries}
	case PersistHTTP:
		w.Persister = engine.NewHTTPPersister(cfg.PersistURL, httpClient)
	default:
		w.Persister = engine.DelayPersister{Delay: cfg.PersistDelay}
	}

	w.Service = engine.NewService(w.Source, engine.NewKVFavorites(w.KV), w.Persister, engine.WithLogger(log))
	log.Debug("wired", "db", path, "data", cfg.Data, "persist", cfg.Persist)
	return w, cleanup, nil
}
