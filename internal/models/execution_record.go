// Package models holds the gorm-persisted execution audit trail.
package models

import "time"

// ExecutionRecord is the durable audit row for one SwapExecution,
// written by internal/store after Execute returns (success or failure).
// Grounded on the teacher's models package row-per-domain-event shape.
type ExecutionRecord struct {
	ID                uint   `gorm:"primaryKey"`
	QuoteID           string `gorm:"uniqueIndex;size:64"`
	UserAddress       string `gorm:"size:42;index"`
	InputChainID      uint64
	OutputChainID     uint64
	InputTokenAddress string `gorm:"size:42"`
	OutputTokenAddr   string `gorm:"size:42"`
	InputAmount       string `gorm:"size:78"` // decimal string, arbitrary precision
	Aggregator        string `gorm:"size:32"`
	Status            string `gorm:"size:16;index"`
	SourceTxHash      string `gorm:"size:66"`
	DestinationTxHash string `gorm:"size:66"`
	ErrorKind         string `gorm:"size:32"`
	ErrorMessage      string `gorm:"size:512"`
	StartedAtMs       int64
	CompletedAtMs     int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (ExecutionRecord) TableName() string { return "execution_records" }
