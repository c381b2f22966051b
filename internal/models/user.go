package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User is the directory record of a principal. Matchmaking never reads it;
// it is maintained from connect/disconnect events.
type User struct {
	ID          string         `gorm:"primaryKey" json:"id"` // principal ID (anonymous UUID)
	DisplayName string         `json:"display_name"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	IsOnline    bool           `gorm:"index" json:"is_online"`
	LastSeenAt  time.Time      `json:"last_seen_at"`
}

// BeforeCreate fills in a random ID when the record has none.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
