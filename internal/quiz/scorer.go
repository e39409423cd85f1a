package quiz

import (
	"fmt"
	"math"
)

// Response is one submitted answer.
type Response struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex int    `json:"selectedIndex"`
}

// ScoredResponse is a response after answer-key lookup.
type ScoredResponse struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex int    `json:"selectedIndex"`
	IsCorrect     bool   `json:"isCorrect"`
}

// WordOutcome is one scored answer that should feed mastery tracking.
type WordOutcome struct {
	WordID    string
	IsCorrect bool
}

// ScoreResult is the outcome of scoring a full submission.
type ScoreResult struct {
	Responses    []ScoredResponse
	CorrectCount int
	ScorePercent int
	// WordOutcomes lists the word-backed answers in response order.
	// Affix questions carry no word id and are absent.
	WordOutcomes []WordOutcome
}

// Score checks every response against the answer key. A question id not
// present in the key is a hard validation error, never silently skipped.
func Score(key AnswerKey, responses []Response) (ScoreResult, error) {
	if len(responses) == 0 {
		return ScoreResult{}, fmt.Errorf("no responses to score")
	}

	result := ScoreResult{
		Responses: make([]ScoredResponse, 0, len(responses)),
	}

	for _, response := range responses {
		correctIndex, ok := key.CorrectIndex[response.QuestionID]
		if !ok {
			return ScoreResult{}, fmt.Errorf("unknown question id %q", response.QuestionID)
		}

		isCorrect := response.SelectedIndex == correctIndex
		if isCorrect {
			result.CorrectCount++
		}
		result.Responses = append(result.Responses, ScoredResponse{
			QuestionID:    response.QuestionID,
			SelectedIndex: response.SelectedIndex,
			IsCorrect:     isCorrect,
		})

		if wordID, ok := key.WordID[response.QuestionID]; ok {
			result.WordOutcomes = append(result.WordOutcomes, WordOutcome{
				WordID:    wordID,
				IsCorrect: isCorrect,
			})
		}
	}

	result.ScorePercent = int(math.Round(100 * float64(result.CorrectCount) / float64(len(responses))))
	return result, nil
}
