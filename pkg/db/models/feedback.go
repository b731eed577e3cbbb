package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sunilfabrications/backend/pkg/enums"
)

// Feedback is a client testimonial awaiting or past moderation.
type Feedback struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientName string               `gorm:"column:client_name;not null"`
	ClientRole *string              `gorm:"column:client_role"`
	Message    string               `gorm:"column:message;not null"`
	Rating     int                  `gorm:"column:rating;not null;default:5"`
	PhotoURL   *string              `gorm:"column:photo_url"`
	Status     enums.FeedbackStatus `gorm:"column:status;type:text;not null;default:'Pending'"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
