package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SweepRunModel: jejak observability per run sweep (processed/started/
// executed + detail JSONB). Dibaca dashboard ops, tidak dipakai logika.
type SweepRunModel struct {
	SweepRunID         uuid.UUID      `gorm:"column:sweep_run_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"sweep_run_id"`
	SweepRunStartedAt  time.Time      `gorm:"column:sweep_run_started_at;not null" json:"sweep_run_started_at"`
	SweepRunFinishedAt time.Time      `gorm:"column:sweep_run_finished_at;not null" json:"sweep_run_finished_at"`
	SweepRunProcessed  int            `gorm:"column:sweep_run_processed;not null;default:0" json:"sweep_run_processed"`
	SweepRunStarted    int            `gorm:"column:sweep_run_started;not null;default:0" json:"sweep_run_started"`
	SweepRunExecuted   int            `gorm:"column:sweep_run_executed;not null;default:0" json:"sweep_run_executed"`
	SweepRunDetails    datatypes.JSON `gorm:"column:sweep_run_details;type:jsonb" json:"sweep_run_details,omitempty"`
	SweepRunCreatedAt  time.Time      `gorm:"column:sweep_run_created_at;autoCreateTime" json:"sweep_run_created_at"`
}

func (SweepRunModel) TableName() string {
	return "sweep_runs"
}
