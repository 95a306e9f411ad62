package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/timbermill-backend/pkg/config"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
	"github.com/angelmondragon/timbermill-backend/pkg/storage"
	"github.com/angelmondragon/timbermill-backend/pkg/storage/gcs"
	"github.com/angelmondragon/timbermill-backend/pkg/storage/local"
)

// Backend is the configured upload store plus the handler that serves its
// objects under /uploads.
type Backend struct {
	Name    string
	Store   storage.Store
	Handler http.Handler
}

// Open builds the store selected by TIMBERMILL_UPLOADS_BACKEND.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	if cfg.Uploads.UsesGCS() {
		client, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			return nil, fmt.Errorf("gcs uploads: %w", err)
		}
		return &Backend{Name: config.UploadsBackendGCS, Store: client, Handler: client.RedirectHandler()}, nil
	}

	store, err := local.New(ctx, cfg.Uploads.Dir, logg)
	if err != nil {
		return nil, fmt.Errorf("local uploads: %w", err)
	}
	return &Backend{Name: config.UploadsBackendLocal, Store: store, Handler: store.FileServer()}, nil
}
