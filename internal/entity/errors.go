package entity

import "errors"

// Domain errors
var (
	// Extraction errors
	ErrNoExtractableText = errors.New("no extractable text in document")

	// External service errors
	ErrEmbeddingFailed   = errors.New("embedding service call failed")
	ErrVectorStoreFailed = errors.New("vector store call failed")
	ErrGenerationFailed  = errors.New("answer generation failed")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
