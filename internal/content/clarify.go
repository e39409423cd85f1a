package content

import (
	"context"
	"fmt"
	"time"

	"github.com/lexio-app/lexio/internal/inference"
)

// Clarifier generates clarification notes for a week's vocabulary words
// and stores them on the word rows.
type Clarifier struct {
	vocab  VocabRepository
	client inference.Client

	now func() time.Time
}

// NewClarifier creates a Clarifier.
func NewClarifier(vocab VocabRepository, client inference.Client) *Clarifier {
	return &Clarifier{
		vocab:  vocab,
		client: client,
		now:    time.Now,
	}
}

// ClarifyResult summarizes one clarification run.
type ClarifyResult struct {
	TotalWords int
	Updated    int
	// SkippedWords are words the model answered for that are not in the
	// week, usually a mangled echo of an input word.
	SkippedWords []string
}

// ClarifyWeek sends the week's words to the inference client and persists
// the returned clarifications.
func (c *Clarifier) ClarifyWeek(ctx context.Context, weekID string, gradeLevel int) (*ClarifyResult, error) {
	words, err := c.vocab.FindByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("vocab.FindByWeek > %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("week %q has no vocabulary words", weekID)
	}

	inputs := make([]inference.WordInput, 0, len(words))
	for _, word := range words {
		inputs = append(inputs, inference.WordInput{
			Word:       word.Word,
			Definition: word.Definition,
			GradeLevel: gradeLevel,
		})
	}

	response, err := c.client.GenerateClarifications(ctx, inference.GenerateClarificationsRequest{
		Words: inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("client.GenerateClarifications > %w", err)
	}

	byWord := make(map[string]VocabWord, len(words))
	for _, word := range words {
		byWord[word.Word] = word
	}

	result := &ClarifyResult{TotalWords: len(words)}
	now := c.now()
	for _, clarification := range response.Clarifications {
		word, ok := byWord[clarification.Word]
		if !ok {
			result.SkippedWords = append(result.SkippedWords, clarification.Word)
			continue
		}
		if err := c.vocab.UpdateClarification(ctx, word.ID,
			clarification.PartOfSpeech, clarification.WhatItIs, clarification.WhatItIsNot, now); err != nil {
			return nil, fmt.Errorf("vocab.UpdateClarification(%s) > %w", word.Word, err)
		}
		result.Updated++
	}

	return result, nil
}
