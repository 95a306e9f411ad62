package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/timbermill-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fakeStore struct {
	objects []storage.Object
	deleted []string
	failOn  map[string]error
	listErr error
}

func (f *fakeStore) Put(context.Context, string, io.Reader, string) error { return nil }

func (f *fakeStore) Delete(_ context.Context, name string) error {
	if err := f.failOn[name]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeStore) List(context.Context) ([]storage.Object, error) {
	return f.objects, f.listErr
}

func (f *fakeStore) Ping(context.Context) error { return nil }

type staticRefs []string

func (s staticRefs) ImageNames(context.Context) ([]string, error) { return s, nil }

type orphanCounter struct{ removed int }

func (o *orphanCounter) AddOrphansRemoved(n int) { o.removed += n }

func newSweeper(t *testing.T, store storage.Store, refs imageReferences, metrics orphanMetrics, now time.Time) *orphanUploadSweeper {
	t.Helper()
	job, err := NewOrphanUploadSweeper(OrphanUploadSweeperParams{
		Logger:      quietLogger(),
		Store:       store,
		Woods:       refs,
		GracePeriod: time.Hour,
		Metrics:     metrics,
	})
	require.NoError(t, err)
	sweeper := job.(*orphanUploadSweeper)
	sweeper.now = func() time.Time { return now }
	return sweeper
}

func TestSweeperDeletesOnlyOldUnreferencedUploads(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{objects: []storage.Object{
		{Name: "old-orphan.png", UpdatedAt: now.Add(-2 * time.Hour)},
		{Name: "old-referenced.png", UpdatedAt: now.Add(-48 * time.Hour)},
		{Name: "fresh-orphan.png", UpdatedAt: now.Add(-10 * time.Minute)},
	}}
	counter := &orphanCounter{}
	sweeper := newSweeper(t, store, staticRefs{"old-referenced.png"}, counter, now)

	require.NoError(t, sweeper.Run(context.Background()))
	assert.Equal(t, []string{"old-orphan.png"}, store.deleted)
	assert.Equal(t, 1, counter.removed)
	assert.Equal(t, OrphanUploadSweeperName, sweeper.Name())
}

func TestSweeperAggregatesDeleteFailures(t *testing.T) {
	now := time.Now()
	old := now.Add(-2 * time.Hour)
	store := &fakeStore{
		objects: []storage.Object{
			{Name: "a.png", UpdatedAt: old},
			{Name: "b.png", UpdatedAt: old},
			{Name: "c.png", UpdatedAt: old},
		},
		failOn: map[string]error{
			"a.png": errors.New("permission denied"),
			"c.png": errors.New("timeout"),
		},
	}
	counter := &orphanCounter{}
	sweeper := newSweeper(t, store, staticRefs{}, counter, now)

	err := sweeper.Run(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, []string{"b.png"}, store.deleted, "failures must not stop the sweep")
	assert.Equal(t, 1, counter.removed)
}

func TestSweeperFailsWhenListingFails(t *testing.T) {
	store := &fakeStore{listErr: errors.New("bucket gone")}
	sweeper := newSweeper(t, store, staticRefs{}, nil, time.Now())
	require.Error(t, sweeper.Run(context.Background()))
}

func TestNewOrphanUploadSweeperValidates(t *testing.T) {
	_, err := NewOrphanUploadSweeper(OrphanUploadSweeperParams{})
	require.Error(t, err)
	_, err = NewOrphanUploadSweeper(OrphanUploadSweeperParams{Logger: quietLogger(), Store: &fakeStore{}})
	require.Error(t, err)
}

type tempAwareStore struct {
	fakeStore
	tempCutoff  time.Time
	tempRemoved int
}

func (s *tempAwareStore) RemoveStaleTemp(_ context.Context, cutoff time.Time) (int, error) {
	s.tempCutoff = cutoff
	return s.tempRemoved, nil
}

func TestSweeperRemovesStaleTempUploads(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &tempAwareStore{tempRemoved: 2}
	counter := &orphanCounter{}
	sweeper := newSweeper(t, store, staticRefs{}, counter, now)

	require.NoError(t, sweeper.Run(context.Background()))
	assert.Equal(t, now.Add(-time.Hour), store.tempCutoff, "temp files share the upload grace period")
	assert.Equal(t, 2, counter.removed)
}
