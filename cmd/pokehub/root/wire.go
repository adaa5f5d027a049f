package root

import (
	"context"
	"log/slog"

	"pokehub/internal/app"
	"pokehub/internal/engine"
)

// openService wires the service from the global flags. With load set, the
// catalog is loaded before returning and a load failure is returned as is.
func openService(ctx context.Context, load bool) (*engine.Service, func(), error) {
	w, cleanup, err := app.NewWire(ctx, cfg, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	if load {
		if err := w.Service.Load(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return w.Service, cleanup, nil
}
