package app

import (
	"context"
	"time"

	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/utils"
	"github.com/klokku/eventcal/pkg/export"
)

// ExportEvents renders every stored event in format without starting the server.
func ExportEvents(ctx context.Context, cfg config.Application, format string) (export.Payload, error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return export.Payload{}, err
	}
	defer closeStore()

	events, err := store.LoadAll(ctx)
	if err != nil {
		return export.Payload{}, err
	}
	return export.NewExporter(utils.SystemClock{}, time.Local).Export(events, format)
}
