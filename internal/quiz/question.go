// Package quiz composes multiple-choice vocabulary quizzes and scores
// submitted attempts. A quiz has two projections: the student-facing
// question list, which never carries answers, and the answer key, a
// separate access-restricted artifact addressed by the same quiz id.
package quiz

// Type enumerates the question templates.
type Type string

const (
	TypeWordToDefinition  Type = "wordToDefinition"
	TypeDefinitionToWord  Type = "definitionToWord"
	TypeAffixToMeaning    Type = "affixToMeaning"
	TypeWordContainsAffix Type = "wordContainsAffix"
	// TypeCloze is reserved; no composer template emits it yet.
	TypeCloze Type = "cloze"
)

// Source identifies the content item a question was generated from.
// Each variant carries only the fields relevant to its kind.
type Source interface {
	isSource()
}

// WordSource marks a question generated from a vocabulary word. Scoring
// such a question feeds the student's mastery record for that word.
type WordSource struct {
	WordID string
}

func (WordSource) isSource() {}

// AffixSource marks a question generated from an affix. Affix questions
// never touch word mastery.
type AffixSource struct {
	AffixID string
}

func (AffixSource) isSource() {}

// Question is the public projection of one quiz question. It carries no
// answer information.
type Question struct {
	ID      string
	Type    Type
	Prompt  string
	Choices []string
	Source  Source
}

// SourceWordID returns the backing word id for word-based questions.
func (q Question) SourceWordID() (string, bool) {
	if s, ok := q.Source.(WordSource); ok {
		return s.WordID, true
	}
	return "", false
}

// SourceAffixID returns the backing affix id for affix-based questions.
func (q Question) SourceAffixID() (string, bool) {
	if s, ok := q.Source.(AffixSource); ok {
		return s.AffixID, true
	}
	return "", false
}

// AnswerKey is the private projection of a quiz: the post-shuffle correct
// choice index per question id, and the source word id for questions that
// should feed mastery tracking.
type AnswerKey struct {
	CorrectIndex map[string]int
	WordID       map[string]string
}

// NewAnswerKey returns an empty answer key.
func NewAnswerKey() AnswerKey {
	return AnswerKey{
		CorrectIndex: make(map[string]int),
		WordID:       make(map[string]string),
	}
}
