package rag

import "errors"

var (
	// ErrEmptyDocument is returned when ingested text contains no words.
	ErrEmptyDocument = errors.New("resume text is empty")

	// ErrEmptyQuestion is returned when a query contains no words.
	ErrEmptyQuestion = errors.New("question is empty")
)
