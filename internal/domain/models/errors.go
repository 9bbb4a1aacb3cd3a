package models

import "errors"

var (
	ErrSessionNotFound   = errors.New("chat session not found")
	ErrSessionBusy       = errors.New("chat session is busy")
	ErrEmptyMessage      = errors.New("message content is empty")
	ErrInvalidMultiplier = errors.New("outlier multiplier must be a positive finite number")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrUnknownHeatmap    = errors.New("unknown heatmap kind")
)
