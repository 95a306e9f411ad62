package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage is an inquiry submitted through the public contact form.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:text;not null;default:''"`
	Email     string    `gorm:"type:text;not null;default:''"`
	Phone     string    `gorm:"type:text;not null;default:''"`
	Message   string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_contact_messages_created_at"`
}

func (c *ContactMessage) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
