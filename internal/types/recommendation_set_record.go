package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// RecommendationSetRecord is the persisted form of an assembled set. The full
// output document is stored as a jsonb payload; the indexed columns exist for
// latest/window lookups and retention trimming.
type RecommendationSetRecord struct {
  ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_rec_set_user_window" json:"user_id"`
  PersonaID   string         `gorm:"column:persona_id;not null" json:"persona_id"`
  TimeWindow  string         `gorm:"column:time_window;not null;index:idx_rec_set_user_window" json:"time_window"`
  Payload     datatypes.JSON `gorm:"type:jsonb;column:payload" json:"payload"`
  GeneratedAt time.Time      `gorm:"not null;index" json:"generated_at"`
  CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (RecommendationSetRecord) TableName() string {
  return "recommendation_set_record"
}
