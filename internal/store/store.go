// Package store persists the execution audit trail: one row per
// Façade.ExecuteSwap call, written after Execute returns. Grounded on
// the teacher's services layer pattern of a thin gorm-backed repository
// sitting behind the business-logic package it serves.
package store

import (
	"context"

	"gorm.io/gorm"

	"crossfund/internal/errs"
	"crossfund/internal/models"
	"crossfund/internal/types"
)

// Store is the execution-audit repository.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// RecordExecution upserts an ExecutionRecord from a completed or failed
// SwapResult, keyed by QuoteID.
func (s *Store) RecordExecution(ctx context.Context, req types.QuoteRequest, aggregator string, result *types.SwapResult) *errs.Error {
	rec := models.ExecutionRecord{
		UserAddress:       req.UserAddress,
		InputChainID:      req.InputToken.ChainID,
		OutputChainID:     req.OutputToken.ChainID,
		InputTokenAddress: req.InputToken.Address,
		OutputTokenAddr:   req.OutputToken.Address,
		InputAmount:       req.Amount.String(),
		Aggregator:        aggregator,
	}

	if result.Execution != nil {
		rec.QuoteID = result.Execution.QuoteID
		rec.Status = string(result.Execution.Status)
		rec.SourceTxHash = result.Execution.SourceTxHash
		rec.DestinationTxHash = result.Execution.DestinationTxHash
		rec.StartedAtMs = result.Execution.StartedAtMs
		rec.CompletedAtMs = result.Execution.CompletedAtMs
	}
	if result.Error != nil {
		if classified, ok := errs.As(result.Error); ok {
			rec.ErrorKind = string(classified.Kind)
		}
		rec.ErrorMessage = result.Error.Error()
	}

	err := s.db.WithContext(ctx).
		Where(models.ExecutionRecord{QuoteID: rec.QuoteID}).
		Assign(rec).
		FirstOrCreate(&models.ExecutionRecord{}).Error
	if err != nil {
		return errs.UnknownError(err)
	}
	return nil
}

// Get looks up a persisted execution by quote id.
func (s *Store) Get(ctx context.Context, quoteID string) (*models.ExecutionRecord, *errs.Error) {
	var rec models.ExecutionRecord
	if err := s.db.WithContext(ctx).Where("quote_id = ?", quoteID).First(&rec).Error; err != nil {
		return nil, errs.UnknownError(err)
	}
	return &rec, nil
}

// ListRecent returns the most recently started executions, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]models.ExecutionRecord, *errs.Error) {
	var recs []models.ExecutionRecord
	if err := s.db.WithContext(ctx).Order("started_at_ms desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, errs.UnknownError(err)
	}
	return recs, nil
}
