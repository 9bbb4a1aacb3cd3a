package service

import "FinDash/internal/domain/models"

// OutlierDetector classifies rows by quantile thresholds on amount.
type OutlierDetector interface {
	Detect(ds *models.Dataset, p models.OutlierParams) (models.OutlierResult, error)
}

// QueryAnswerer maps a free-text question to exactly one canned answer.
type QueryAnswerer interface {
	Respond(question string, ds *models.Dataset) models.Answer
}
