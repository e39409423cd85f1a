package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	key := AnswerKey{
		CorrectIndex: map[string]int{
			"q-1": 0,
			"q-2": 2,
			"q-3": 1,
		},
		WordID: map[string]string{
			"q-1": "word-1",
			"q-2": "word-2",
			// q-3 is an affix question, absent from the word map.
		},
	}

	tests := []struct {
		name             string
		responses        []Response
		wantCorrect      int
		wantScorePercent int
		wantOutcomes     []WordOutcome
		wantErr          string
	}{
		{
			name: "all correct",
			responses: []Response{
				{QuestionID: "q-1", SelectedIndex: 0},
				{QuestionID: "q-2", SelectedIndex: 2},
				{QuestionID: "q-3", SelectedIndex: 1},
			},
			wantCorrect:      3,
			wantScorePercent: 100,
			wantOutcomes: []WordOutcome{
				{WordID: "word-1", IsCorrect: true},
				{WordID: "word-2", IsCorrect: true},
			},
		},
		{
			name: "partially correct rounds",
			responses: []Response{
				{QuestionID: "q-1", SelectedIndex: 0},
				{QuestionID: "q-2", SelectedIndex: 0},
				{QuestionID: "q-3", SelectedIndex: 0},
			},
			wantCorrect:      1,
			wantScorePercent: 33,
			wantOutcomes: []WordOutcome{
				{WordID: "word-1", IsCorrect: true},
				{WordID: "word-2", IsCorrect: false},
			},
		},
		{
			name: "two of three rounds up",
			responses: []Response{
				{QuestionID: "q-1", SelectedIndex: 0},
				{QuestionID: "q-2", SelectedIndex: 2},
				{QuestionID: "q-3", SelectedIndex: 0},
			},
			wantCorrect:      2,
			wantScorePercent: 67,
			wantOutcomes: []WordOutcome{
				{WordID: "word-1", IsCorrect: true},
				{WordID: "word-2", IsCorrect: true},
			},
		},
		{
			name:      "empty responses rejected",
			responses: nil,
			wantErr:   "no responses to score",
		},
		{
			name: "unknown question id rejected",
			responses: []Response{
				{QuestionID: "q-1", SelectedIndex: 0},
				{QuestionID: "q-unknown", SelectedIndex: 1},
			},
			wantErr: `unknown question id "q-unknown"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Score(key, tt.responses)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantCorrect, result.CorrectCount)
			assert.Equal(t, tt.wantScorePercent, result.ScorePercent)
			assert.Equal(t, tt.wantOutcomes, result.WordOutcomes)
			assert.Len(t, result.Responses, len(tt.responses))
		})
	}
}

func TestScore_SubsetOfQuestions(t *testing.T) {
	// The scorer grades what was submitted; completeness checks are the
	// caller's concern.
	key := AnswerKey{
		CorrectIndex: map[string]int{"q-1": 1, "q-2": 3},
		WordID:       map[string]string{"q-1": "word-1", "q-2": "word-2"},
	}

	result, err := Score(key, []Response{{QuestionID: "q-1", SelectedIndex: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 100, result.ScorePercent)
	assert.Equal(t, []WordOutcome{{WordID: "word-1", IsCorrect: true}}, result.WordOutcomes)
}
