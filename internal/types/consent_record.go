package types

import (
  "time"
  "github.com/google/uuid"
)

type ConsentStatus string

const (
  ConsentOptedIn  ConsentStatus = "opted_in"
  ConsentOptedOut ConsentStatus = "opted_out"
)

type ConsentRecord struct {
  ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
  Status    ConsentStatus `gorm:"column:status;not null" json:"status"`
  CreatedAt time.Time     `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (ConsentRecord) TableName() string {
  return "consent_record"
}
