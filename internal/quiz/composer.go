package quiz

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

const (
	maxDistractors = 3
	// dailyCurrentWords is how many current-week words lead a daily quiz
	// before the remainder is filled from the due pool.
	dailyCurrentWords = 2
	// fridayAffixSlots caps affix questions on a friday quiz.
	fridayAffixSlots = 2
	// fridaySpiralShare is the share of the budget reserved for spiral
	// review on a friday quiz.
	fridaySpiralShare = 0.4
)

// Word is the composer's view of a vocabulary word.
type Word struct {
	ID         string
	Word       string
	Definition string
}

// Affix is the composer's view of an affix.
type Affix struct {
	ID      string
	Affix   string
	Meaning string
}

// Params are the already-fetched pools a quiz is composed from. DueWords
// must be ordered oldest due first; the selection truncates from the front.
type Params struct {
	Mode           Mode
	NumQuestions   int
	CurrentWords   []Word
	CurrentAffixes []Affix
	DueWords       []Word
}

// Composer builds question sets. The rand source is injected so tests can
// seed it; every shuffle is an independent uniform Fisher-Yates pass.
type Composer struct {
	rng *rand.Rand
}

// NewComposer creates a Composer using the given rand source.
func NewComposer(rng *rand.Rand) *Composer {
	return &Composer{rng: rng}
}

// Compose selects and orders questions per the mode's policy and returns
// the public question list together with its answer key.
func (c *Composer) Compose(p Params) ([]Question, AnswerKey) {
	selectedWords, selectedAffixes := selectPools(p)

	key := NewAnswerKey()
	questions := make([]Question, 0, len(selectedWords)+len(selectedAffixes))

	// Affix questions come out of a separate slice of the budget, so the
	// word loop is bounded to what remains.
	wordBudget := p.NumQuestions - len(selectedAffixes)
	if wordBudget < 0 {
		wordBudget = 0
	}
	if len(selectedWords) > wordBudget {
		selectedWords = selectedWords[:wordBudget]
	}

	for _, word := range selectedWords {
		q := c.wordQuestion(word, p.CurrentWords, &key)
		questions = append(questions, q)
	}

	for _, affix := range selectedAffixes {
		q, ok := c.affixQuestion(affix, p.CurrentAffixes, p.CurrentWords, &key)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}

	// Question order is shuffled independently of each question's choices.
	c.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return questions, key
}

// selectPools applies the per-mode selection policy and returns the chosen
// words (current first, then due-pool order) and affixes.
func selectPools(p Params) ([]Word, []Affix) {
	var selectedWords []Word
	var selectedAffixes []Affix

	switch p.Mode {
	case ModeFriday:
		// All current-week words, then spiral words up to 40% of the
		// budget, then up to two affixes.
		selectedWords = append(selectedWords, p.CurrentWords...)
		spiralCount := minInt(
			int(math.Ceil(fridaySpiralShare*float64(p.NumQuestions))),
			len(p.DueWords),
			p.NumQuestions-len(selectedWords),
		)
		if spiralCount > 0 {
			selectedWords = append(selectedWords, p.DueWords[:spiralCount]...)
		}
		affixCount := minInt(fridayAffixSlots, len(p.CurrentAffixes))
		selectedAffixes = append(selectedAffixes, p.CurrentAffixes[:affixCount]...)
	default:
		// Daily: two current-week words, remainder from the due pool.
		currentCount := minInt(dailyCurrentWords, len(p.CurrentWords), p.NumQuestions)
		selectedWords = append(selectedWords, p.CurrentWords[:currentCount]...)
		spiralCount := minInt(p.NumQuestions-currentCount, len(p.DueWords))
		if spiralCount > 0 {
			selectedWords = append(selectedWords, p.DueWords[:spiralCount]...)
		}
	}

	return selectedWords, selectedAffixes
}

// wordQuestion generates one question for a word, choosing uniformly
// between the two symmetric templates.
func (c *Composer) wordQuestion(word Word, currentWords []Word, key *AnswerKey) Question {
	var questionType Type
	var prompt, correct string
	var pool []string

	if c.rng.Intn(2) == 0 {
		questionType = TypeWordToDefinition
		prompt = fmt.Sprintf("What does %q mean?", word.Word)
		correct = word.Definition
		for _, other := range currentWords {
			if other.ID != word.ID {
				pool = append(pool, other.Definition)
			}
		}
	} else {
		questionType = TypeDefinitionToWord
		prompt = fmt.Sprintf("Which word means %q?", word.Definition)
		correct = word.Word
		for _, other := range currentWords {
			if other.ID != word.ID {
				pool = append(pool, other.Word)
			}
		}
	}

	choices, correctIndex := c.buildChoices(correct, pool)
	question := Question{
		ID:      uuid.NewString(),
		Type:    questionType,
		Prompt:  prompt,
		Choices: choices,
		Source:  WordSource{WordID: word.ID},
	}
	key.CorrectIndex[question.ID] = correctIndex
	key.WordID[question.ID] = word.ID
	return question
}

// affixQuestion generates one question for an affix. The word-contains
// template needs a current-week word containing the affix; when none
// exists the affix is skipped entirely rather than substituted.
func (c *Composer) affixQuestion(affix Affix, currentAffixes []Affix, currentWords []Word, key *AnswerKey) (Question, bool) {
	var questionType Type
	var prompt, correct string
	var pool []string

	if c.rng.Intn(2) == 0 {
		questionType = TypeAffixToMeaning
		prompt = fmt.Sprintf("What does the affix %q mean?", affix.Affix)
		correct = affix.Meaning
		for _, other := range currentAffixes {
			if other.ID != affix.ID {
				pool = append(pool, other.Meaning)
			}
		}
	} else {
		match, ok := findWordContaining(currentWords, affix.Affix)
		if !ok {
			return Question{}, false
		}
		questionType = TypeWordContainsAffix
		prompt = fmt.Sprintf("Which word contains the affix %q?", affix.Affix)
		correct = match.Word
		for _, other := range currentWords {
			if other.ID != match.ID {
				pool = append(pool, other.Word)
			}
		}
	}

	choices, correctIndex := c.buildChoices(correct, pool)
	question := Question{
		ID:      uuid.NewString(),
		Type:    questionType,
		Prompt:  prompt,
		Choices: choices,
		Source:  AffixSource{AffixID: affix.ID},
	}
	key.CorrectIndex[question.ID] = correctIndex
	return question, true
}

// buildChoices samples up to three distinct distractors from pool, mixes
// in the correct answer, shuffles, and returns the choice list with the
// correct answer's post-shuffle index.
func (c *Composer) buildChoices(correct string, pool []string) ([]string, int) {
	candidates := make([]string, 0, len(pool))
	seen := map[string]struct{}{correct: {}}
	for _, candidate := range pool {
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		candidates = append(candidates, candidate)
	}

	c.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > maxDistractors {
		candidates = candidates[:maxDistractors]
	}

	choices := append(candidates, correct)
	c.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	for i, choice := range choices {
		if choice == correct {
			return choices, i
		}
	}
	// Unreachable: correct is always present.
	return choices, 0
}

// findWordContaining matches case-insensitively and ignores the hyphens
// affixes are conventionally written with ("-ful", "re-").
func findWordContaining(words []Word, affix string) (Word, bool) {
	needle := strings.ToLower(strings.Trim(affix, "-"))
	if needle == "" {
		return Word{}, false
	}
	for _, word := range words {
		if strings.Contains(strings.ToLower(word.Word), needle) {
			return word, true
		}
	}
	return Word{}, false
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
