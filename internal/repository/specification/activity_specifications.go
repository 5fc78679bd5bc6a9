package specification

import (
	"time"

	"gorm.io/gorm"
)

// TimeRange filters activities to [Start, End]. A zero bound is open.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (s TimeRange) Apply(db *gorm.DB) *gorm.DB {
	if !s.Start.IsZero() {
		db = db.Where("timestamp >= ?", s.Start)
	}
	if !s.End.IsZero() {
		db = db.Where("timestamp <= ?", s.End)
	}
	return db
}

// AppNameLike filters by a case-insensitive app name fragment.
type AppNameLike struct {
	Name string
}

func (s AppNameLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("app_name ILIKE ?", "%"+s.Name+"%")
}

// TagLike filters by a tag fragment in the flattened tag column.
type TagLike struct {
	Tag string
}

func (s TagLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tags ILIKE ?", "%"+s.Tag+"%")
}

// ModalityIs filters by capture modality.
type ModalityIs struct {
	Modality string
}

func (s ModalityIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("modality = ?", s.Modality)
}

// TextSearch runs a substring match against everything textual about a
// record: window title, stored analysis and transcription.
type TextSearch struct {
	Query string
}

func (s TextSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where(
		"window_title ILIKE ? OR analysis::text ILIKE ? OR transcription ILIKE ?",
		pattern, pattern, pattern,
	)
}
