package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MetadataRecord holds the editable description of one app, keyed by location.
type MetadataRecord struct {
	Location    string    `gorm:"primaryKey;column:location;size:512" json:"location"`
	Description string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	Category    string    `gorm:"column:category;size:64;not null;default:''" json:"category"`
	Status      string    `gorm:"column:status;size:64;not null;default:''" json:"status"`
	UpdatedBy   string    `gorm:"column:updated_by;size:255;not null" json:"updated_by"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (MetadataRecord) TableName() string {
	return "app_metadata"
}

// MetadataHistory is an append-only copy of every saved MetadataRecord.
type MetadataHistory struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Location    string       `gorm:"column:location;size:512;not null;index" json:"location"`
	Description string       `gorm:"column:description;type:text;not null;default:''" json:"description"`
	Category    string       `gorm:"column:category;size:64;not null;default:''" json:"category"`
	Status      string       `gorm:"column:status;size:64;not null;default:''" json:"status"`
	UpdatedBy   string       `gorm:"column:updated_by;size:255;not null" json:"updated_by"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (MetadataHistory) TableName() string {
	return "app_metadata_history"
}
