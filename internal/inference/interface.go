package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for AI inference operations
type Client interface {
	GenerateClarifications(ctx context.Context, params GenerateClarificationsRequest) (GenerateClarificationsResponse, error)
}

// WordInput is a single vocabulary word to clarify.
type WordInput struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	GradeLevel int    `json:"grade_level,omitempty"`
}

// GenerateClarificationsRequest holds parameters for clarifying multiple words
type GenerateClarificationsRequest struct {
	Words []WordInput `json:"words"`
}

type GenerateClarificationsResponse struct {
	Clarifications []Clarification
}

// Clarification is a teaching aid for one word: its part of speech, a
// student-friendly statement of what the word is, and a contrast with
// what it is commonly confused with.
type Clarification struct {
	Word         string `json:"word"`
	PartOfSpeech string `json:"part_of_speech"`
	WhatItIs     string `json:"what_it_is"`
	WhatItIsNot  string `json:"what_it_is_not"`
}

const (
	DefaultMaxRetryAttempts = 3
)
