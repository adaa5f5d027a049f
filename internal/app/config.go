package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"pokehub/internal/engine"
)

// Persister modes accepted by Config.Persist.
const (
	PersistStub  = "stub"
	PersistStore = "store"
	PersistHTTP  = "http"
)

// StoreData is the Config.Data value that loads the collection from the
// local store instead of a document.
const StoreData = "store:"

// Config holds runtime wiring options for building the app.
type Config struct {
	DBPath       string        // local store, e.g. $HOME/.pokehub.db; empty means the default
	Data         string        // file path, http(s) base URL, or StoreData
	Persist      string        // PersistStub, PersistStore or PersistHTTP
	PersistURL   string        // target of the http persister
	PersistDelay time.Duration // delay of the stub persister
	LogLevel     string        // debug, info, warn or error
	HTTP         *http.Client  // optional; defaults to http.DefaultClient
}

func DefaultConfig() Config {
	return Config{
		Data:         engine.DataFile,
		Persist:      PersistStub,
		PersistDelay: engine.DefaultPersistDelay,
		LogLevel:     "warn",
	}
}

// Validate checks the option combinations NewWire cannot recover from.
func (c Config) Validate() error {
	switch c.Persist {
	case PersistStub, PersistStore:
	case PersistHTTP:
		if strings.TrimSpace(c.PersistURL) == "" {
			return fmt.Errorf("--persist=http requires --persist-url")
		}
	default:
		return fmt.Errorf("unknown persist mode %q (stub|store|http)", c.Persist)
	}
	if strings.TrimSpace(c.Data) == "" {
		return fmt.Errorf("--data is required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func isRemote(data string) bool {
	return strings.HasPrefix(data, "http://") || strings.HasPrefix(data, "https://")
}
