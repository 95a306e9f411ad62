package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/timbermill-backend/internal/contacts"
	"github.com/angelmondragon/timbermill-backend/internal/woods"
	"github.com/angelmondragon/timbermill-backend/pkg/db/dbtest"
	"github.com/angelmondragon/timbermill-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSummaryFixture(t *testing.T) (Service, *woods.Repository, *contacts.Repository) {
	t.Helper()
	conn := dbtest.Open(t)
	woodRepo := woods.NewRepository(conn)
	contactRepo := contacts.NewRepository(conn)
	svc, err := NewService(ServiceParams{Woods: woodRepo, Contacts: contactRepo})
	require.NoError(t, err)
	return svc, woodRepo, contactRepo
}

func TestSummaryEmpty(t *testing.T) {
	svc, _, _ := newSummaryFixture(t)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, *summary)
}

func TestSummaryLowStockBoundary(t *testing.T) {
	ctx := context.Background()
	svc, woodRepo, contactRepo := newSummaryFixture(t)

	for _, stock := range []int{10, 11} {
		require.NoError(t, woodRepo.Create(ctx, &models.Wood{Name: "w", Description: "d", Stock: stock, Price: decimal.NewFromInt(5)}))
	}
	require.NoError(t, contactRepo.Create(ctx, &models.ContactMessage{Name: "A", Message: "hi"}))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalProducts)
	assert.Equal(t, int64(21), summary.TotalStock)
	assert.Equal(t, int64(1), summary.LowStockCount, "stock 10 is low, 11 is not")
	assert.Equal(t, int64(1), summary.TotalEnquiries)
}

func TestSummaryTotalStockMatchesList(t *testing.T) {
	ctx := context.Background()
	svc, woodRepo, _ := newSummaryFixture(t)

	for _, stock := range []int{0, 3, 250, 9} {
		require.NoError(t, woodRepo.Create(ctx, &models.Wood{Name: "w", Description: "d", Stock: stock, Price: decimal.NewFromInt(1)}))
	}
	listed, err := woodRepo.List(ctx)
	require.NoError(t, err)
	var sum int64
	for _, w := range listed {
		sum += int64(w.Stock)
	}

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, sum, summary.TotalStock)
	assert.Equal(t, int64(3), summary.LowStockCount)
}

type brokenCounter struct{}

func (brokenCounter) Count(context.Context) (int64, error) { return 0, errors.New("db down") }

func TestSummarySurfacesStorageErrors(t *testing.T) {
	_, woodRepo, _ := newSummaryFixture(t)
	svc, err := NewService(ServiceParams{Woods: woodRepo, Contacts: brokenCounter{}})
	require.NoError(t, err)

	_, err = svc.Summary(context.Background())
	assert.Equal(t, pkgerrors.CodeInternal, pkgerrors.CodeOf(err))
}

func TestNewServiceRequiresSources(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}
