package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrTemplateData    = errors.New("template data is missing")
	ErrMemoryAppend    = errors.New("memory append failed")
	ErrInventory       = errors.New("inventory lookup failed")
)
