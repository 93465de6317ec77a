package plants

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScrapeRun is the audit row written once per batch.
type ScrapeRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StartedAt  time.Time      `gorm:"not null;index" json:"started_at"`
	FinishedAt time.Time      `gorm:"not null" json:"finished_at"`
	Requested  int            `gorm:"not null;default:0" json:"requested"`
	Added      int            `gorm:"not null;default:0" json:"added"`
	Updated    int            `gorm:"not null;default:0" json:"updated"`
	Failed     int            `gorm:"not null;default:0" json:"failed"`
	Unresolved int            `gorm:"not null;default:0" json:"unresolved"`
	Stats      datatypes.JSON `gorm:"type:jsonb" json:"stats,omitempty"`
}

func (ScrapeRun) TableName() string { return "scrape_run" }
