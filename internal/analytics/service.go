package analytics

import (
	"context"
	"fmt"

	"github.com/angelmondragon/timbermill-backend/internal/woods"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
)

// LowStockThreshold is inclusive: a wood with exactly this many units is low.
const LowStockThreshold = 10

// Summary is the admin dashboard view. It is recomputed on every call.
type Summary struct {
	TotalProducts  int64 `json:"totalProducts"`
	TotalStock     int64 `json:"totalStock"`
	LowStockCount  int64 `json:"lowStockCount"`
	TotalEnquiries int64 `json:"totalEnquiries"`
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type woodStats interface {
	Stats(ctx context.Context, lowStockThreshold int) (woods.Stats, error)
}

type contactCounter interface {
	Count(ctx context.Context) (int64, error)
}

type ServiceParams struct {
	Woods    woodStats
	Contacts contactCounter
}

type service struct {
	woods    woodStats
	contacts contactCounter
}

func NewService(params ServiceParams) (Service, error) {
	if params.Woods == nil {
		return nil, fmt.Errorf("wood stats source is required")
	}
	if params.Contacts == nil {
		return nil, fmt.Errorf("contact counter is required")
	}
	return &service{woods: params.Woods, contacts: params.Contacts}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	stats, err := s.woods.Stats(ctx, LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate woods")
	}
	enquiries, err := s.contacts.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count contact messages")
	}
	return &Summary{
		TotalProducts:  stats.TotalProducts,
		TotalStock:     stats.TotalStock,
		LowStockCount:  stats.LowStockCount,
		TotalEnquiries: enquiries,
	}, nil
}
