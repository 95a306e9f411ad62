package woods

import (
	"io"
	"time"

	"github.com/angelmondragon/timbermill-backend/pkg/db/models"
	"github.com/google/uuid"
)

// WoodDTO keeps the `_id` key the storefront frontend reads.
type WoodDTO struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	Stock       int       `json:"stock"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input is the raw form of a create or edit. Stock and price arrive as text
// from multipart forms and are coerced by the service.
type Input struct {
	Name        string
	Description string
	Stock       string
	Price       string
}

// ImageUpload is an optional image attached to a create.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

func FromModel(w *models.Wood) WoodDTO {
	return WoodDTO{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Image:       w.Image,
		Stock:       w.Stock,
		Price:       w.Price.InexactFloat64(),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func FromModels(ws []models.Wood) []WoodDTO {
	out := make([]WoodDTO, 0, len(ws))
	for i := range ws {
		out = append(out, FromModel(&ws[i]))
	}
	return out
}
