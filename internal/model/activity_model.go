package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Activity struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Timestamp   time.Time `gorm:"not null;index"`
	Modality    string    `gorm:"type:varchar(10);not null"`
	AppName     string    `gorm:"type:varchar(255);index"`
	WindowTitle string    `gorm:"type:varchar(512)"`

	ScreenshotPath *string `gorm:"type:text"`
	AudioPath      *string `gorm:"type:text"`
	Transcription  string  `gorm:"type:text"`

	Analysis datatypes.JSON `gorm:"type:jsonb"`
	Tags     string         `gorm:"type:text;index"`
	Priority string         `gorm:"type:varchar(10);default:'low'"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Activity) TableName() string {
	return "activities"
}
