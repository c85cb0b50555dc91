package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// RunRecord is one persisted sync run.
type RunRecord struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	RunID           string    `gorm:"size:36;uniqueIndex" json:"run_id"`
	Profile         string    `gorm:"size:32" json:"profile"`
	DryRun          bool      `json:"dry_run"`
	Status          string    `gorm:"size:16;index" json:"status"`
	Error           string    `gorm:"type:text" json:"error,omitempty"`
	StartedAt       time.Time `gorm:"index" json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Sources         int       `json:"sources"`
	Targets         int       `json:"targets"`
	Created         int       `json:"created"`
	Updated         int       `json:"updated"`
	Deleted         int       `json:"deleted"`
	SkippedExisting int       `json:"skipped_existing"`
	Failed          int       `json:"failed"`
}

// TableName pins the journal table name.
func (RunRecord) TableName() string {
	return "sync_runs"
}

// Journal persists run records.
type Journal struct {
	db *gorm.DB
}

// NewJournal wraps an open database.
func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// Migrate creates or updates the journal table.
func (j *Journal) Migrate(ctx context.Context) error {
	if err := j.db.WithContext(ctx).AutoMigrate(&RunRecord{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return nil
}

// Record stores a finished run.
func (j *Journal) Record(ctx context.Context, rec *RunRecord) error {
	if err := j.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", rec.RunID, err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first.
func (j *Journal) ListRecent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []RunRecord
	err := j.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return records, nil
}
