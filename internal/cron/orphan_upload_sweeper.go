package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/timbermill-backend/pkg/logger"
	"github.com/angelmondragon/timbermill-backend/pkg/storage"
	"go.uber.org/multierr"
)

const (
	OrphanUploadSweeperName  = "orphan-upload-sweeper"
	defaultOrphanGracePeriod = 24 * time.Hour
)

type imageReferences interface {
	ImageNames(ctx context.Context) ([]string, error)
}

// staleTempRemover is implemented by stores that stage writes in temp files.
type staleTempRemover interface {
	RemoveStaleTemp(ctx context.Context, cutoff time.Time) (int, error)
}

type orphanMetrics interface {
	AddOrphansRemoved(n int)
}

type OrphanUploadSweeperParams struct {
	Logger *logger.Logger
	Store  storage.Store
	Woods  imageReferences
	// GracePeriod protects uploads whose wood record is still being written.
	GracePeriod time.Duration
	Metrics     orphanMetrics
}

// NewOrphanUploadSweeper removes stored images that no wood references.
func NewOrphanUploadSweeper(params OrphanUploadSweeperParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("upload storage required")
	}
	if params.Woods == nil {
		return nil, fmt.Errorf("wood image references required")
	}
	grace := params.GracePeriod
	if grace <= 0 {
		grace = defaultOrphanGracePeriod
	}
	return &orphanUploadSweeper{
		logg:    params.Logger,
		store:   params.Store,
		woods:   params.Woods,
		grace:   grace,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type orphanUploadSweeper struct {
	logg    *logger.Logger
	store   storage.Store
	woods   imageReferences
	grace   time.Duration
	metrics orphanMetrics
	now     func() time.Time
}

func (j *orphanUploadSweeper) Name() string { return OrphanUploadSweeperName }

// Run keeps going past individual delete failures and reports them together.
func (j *orphanUploadSweeper) Run(ctx context.Context) error {
	objects, err := j.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list uploads: %w", err)
	}
	names, err := j.woods.ImageNames(ctx)
	if err != nil {
		return fmt.Errorf("list image references: %w", err)
	}
	referenced := make(map[string]struct{}, len(names))
	for _, name := range names {
		referenced[name] = struct{}{}
	}

	cutoff := j.now().Add(-j.grace)
	var (
		errs    error
		removed int
		kept    int
	)
	for _, obj := range objects {
		if _, ok := referenced[obj.Name]; ok {
			kept++
			continue
		}
		if !obj.UpdatedAt.Before(cutoff) {
			kept++
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		if err := j.store.Delete(ctx, obj.Name); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("delete %s: %w", obj.Name, err))
			continue
		}
		removed++
	}

	tempRemoved := 0
	if remover, ok := j.store.(staleTempRemover); ok && ctx.Err() == nil {
		n, err := remover.RemoveStaleTemp(ctx, cutoff)
		tempRemoved = n
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remove stale temp uploads: %w", err))
		}
	}

	if j.metrics != nil {
		j.metrics.AddOrphansRemoved(removed + tempRemoved)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"scanned":      len(objects),
		"removed":      removed,
		"temp_removed": tempRemoved,
		"kept":         kept,
		"failed":       len(multierr.Errors(errs)),
	}), "cron.orphan_sweep")
	return errs
}
