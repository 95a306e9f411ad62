package contacts

import (
	"time"

	"github.com/angelmondragon/timbermill-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateRequest is the public inquiry form. Every field is optional.
type CreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type ContactDTO struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromModel(m *models.ContactMessage) ContactDTO {
	return ContactDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
