package woods

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/timbermill-backend/pkg/db/dbtest"
	"github.com/angelmondragon/timbermill-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
	"github.com/angelmondragon/timbermill-backend/pkg/storage"
	"github.com/angelmondragon/timbermill-backend/pkg/storage/local"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadCounter map[string]int

func (u uploadCounter) IncUpload(outcome string) { u[outcome]++ }

type fixture struct {
	svc     Service
	repo    *Repository
	store   *local.Store
	uploads uploadCounter
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	store, err := local.New(context.Background(), filepath.Join(t.TempDir(), "uploads"), nil)
	require.NoError(t, err)
	uploads := uploadCounter{}
	svc, err := NewService(ServiceParams{
		Repo:    repo,
		Storage: store,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Uploads: uploads,
	})
	require.NoError(t, err)
	return fixture{svc: svc, repo: repo, store: store, uploads: uploads}
}

func listNames(t *testing.T, store storage.Store) []string {
	t.Helper()
	objects, err := store.List(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.Name)
	}
	return names
}

func TestCreateCoercesNumericText(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, Input{Name: "Pine", Description: "d", Stock: "5", Price: "100"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, created.Stock)
	assert.Equal(t, float64(100), created.Price)
	assert.Nil(t, created.Image)
	assert.NotEqual(t, uuid.Nil, created.ID)

	listed, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "Pine", listed[0].Name)
	assert.Equal(t, "d", listed[0].Description)
	assert.Equal(t, 5, listed[0].Stock)
	assert.Equal(t, float64(100), listed[0].Price)
}

func TestCreateStoresImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx,
		Input{Name: "Oak", Description: "quarter sawn", Stock: "3", Price: "42.50"},
		&ImageUpload{Filename: "oak.jpg", Body: strings.NewReader("jpeg-bytes")},
	)
	require.NoError(t, err)
	require.NotNil(t, created.Image)
	assert.True(t, strings.HasSuffix(*created.Image, ".jpg"))
	assert.Equal(t, []string{*created.Image}, listNames(t, f.store))
	assert.Equal(t, 1, f.uploads["stored"])

	refs, err := f.repo.ImageNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{*created.Image}, refs)
}

func TestCreateRejectsInvalidInputWithoutStoringImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := []Input{
		{Name: "Pine", Description: "d", Stock: "five", Price: "100"},
		{Name: "Pine", Description: "d", Stock: "5", Price: "free"},
		{Name: "Pine", Description: "d", Stock: "-1", Price: "100"},
		{Name: "Pine", Description: "d", Stock: "1.5", Price: "100"},
		{Name: "", Description: "d", Stock: "1", Price: "1"},
		{Name: "Pine", Description: "  ", Stock: "1", Price: "1"},
	}
	for _, in := range cases {
		_, err := f.svc.Create(ctx, in, &ImageUpload{Filename: "x.png", Body: strings.NewReader("png")})
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err), "input %+v", in)
	}

	listed, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Empty(t, listNames(t, f.store))
}

func TestValidationDetailsNameEveryField(t *testing.T) {
	_, err := validate(Input{Stock: "x", Price: "y"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Len(t, details, 4)
}

type failingRepo struct {
	woodRepository
}

func (failingRepo) Create(context.Context, *models.Wood) error {
	return errors.New("disk full")
}

func TestCreateRemovesImageWhenRecordWriteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uploads := uploadCounter{}
	svc, err := NewService(ServiceParams{
		Repo:    failingRepo{woodRepository: f.repo},
		Storage: f.store,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Uploads: uploads,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx,
		Input{Name: "Ash", Description: "d", Stock: "1", Price: "1"},
		&ImageUpload{Filename: "ash.png", Body: bytes.NewReader([]byte("png"))},
	)
	assert.Equal(t, pkgerrors.CodeInternal, pkgerrors.CodeOf(err))
	assert.Empty(t, listNames(t, f.store))
	assert.Equal(t, 1, uploads["rolled_back"])
}

func TestUpdateReplacesFieldsButKeepsImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx,
		Input{Name: "Oak", Description: "d", Stock: "3", Price: "10"},
		&ImageUpload{Filename: "oak.png", Body: strings.NewReader("png")},
	)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, created.ID.String(), Input{Name: "Red Oak", Description: "kiln dried", Stock: "11", Price: "12.345"})
	require.NoError(t, err)
	assert.Equal(t, "Red Oak", updated.Name)
	assert.Equal(t, "kiln dried", updated.Description)
	assert.Equal(t, 11, updated.Stock)
	assert.Equal(t, 12.35, updated.Price)
	require.NotNil(t, updated.Image)
	assert.Equal(t, *created.Image, *updated.Image)

	_, err = f.svc.Update(ctx, created.ID.String(), Input{Name: "Red Oak", Description: "d", Stock: "nope", Price: "1"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestDeleteThenUpdateOrDeleteIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, Input{Name: "Elm", Description: "d", Stock: "1", Price: "1"}, nil)
	require.NoError(t, err)
	id := created.ID.String()

	require.NoError(t, f.svc.Delete(ctx, id))

	_, err = f.svc.Update(ctx, id, Input{Name: "Elm", Description: "d", Stock: "1", Price: "1"})
	requireNotFound(t, err)
	requireNotFound(t, f.svc.Delete(ctx, id))
	requireNotFound(t, f.svc.Delete(ctx, "not-a-uuid"))
	_, err = f.svc.Update(ctx, "not-a-uuid", Input{})
	requireNotFound(t, err)
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Wood not found", typed.Message())
}

func TestListIsInsertionOrdered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Cedar", "Birch", "Walnut"} {
		wood := &models.Wood{Name: name, Description: "d", Stock: 1, Price: decimal.NewFromInt(1), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, f.repo.Create(ctx, wood))
	}

	listed, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Cedar", listed[0].Name)
	assert.Equal(t, "Birch", listed[1].Name)
	assert.Equal(t, "Walnut", listed[2].Name)
}

func TestRepositoryStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	empty, err := f.repo.Stats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, empty)

	for _, stock := range []int{10, 11, 0, 25} {
		require.NoError(t, f.repo.Create(ctx, &models.Wood{Name: "w", Description: "d", Stock: stock, Price: decimal.NewFromInt(1)}))
	}
	stats, err := f.repo.Stats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalProducts: 4, TotalStock: 46, LowStockCount: 2}, stats)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: &Repository{}})
	require.Error(t, err)
}
