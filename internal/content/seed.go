package content

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SeedWeek is the YAML shape of one week's instructional content.
type SeedWeek struct {
	StudentID    string      `yaml:"student_id"`
	WeekOf       string      `yaml:"week_of"` // 2006-01-02
	SubjectFocus string      `yaml:"subject_focus"`
	Words        []SeedWord  `yaml:"words"`
	Affixes      []SeedAffix `yaml:"affixes"`
}

type SeedWord struct {
	Word            string `yaml:"word"`
	Definition      string `yaml:"definition"`
	ExampleSentence string `yaml:"example_sentence"`
	PartOfSpeech    string `yaml:"part_of_speech"`
}

type SeedAffix struct {
	Affix    string   `yaml:"affix"`
	Kind     string   `yaml:"kind"`
	Meaning  string   `yaml:"meaning"`
	Examples []string `yaml:"examples"`
}

// LoadSeedFile reads and validates one week seed file.
func LoadSeedFile(path string) (*SeedWeek, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var seed SeedWeek
	if err := yaml.Unmarshal(contents, &seed); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}

	if seed.StudentID == "" {
		return nil, fmt.Errorf("seed file %s: student_id is required", path)
	}
	if _, err := time.Parse("2006-01-02", seed.WeekOf); err != nil {
		return nil, fmt.Errorf("seed file %s: week_of must be YYYY-MM-DD: %w", path, err)
	}
	if len(seed.Words) == 0 {
		return nil, fmt.Errorf("seed file %s: at least one word is required", path)
	}
	for i, word := range seed.Words {
		if word.Word == "" || word.Definition == "" {
			return nil, fmt.Errorf("seed file %s: word %d needs both word and definition", path, i+1)
		}
	}
	for i, affix := range seed.Affixes {
		kind := AffixKind(affix.Kind)
		if kind != AffixPrefix && kind != AffixSuffix && kind != AffixRoot {
			return nil, fmt.Errorf("seed file %s: affix %d has unknown kind %q", path, i+1, affix.Kind)
		}
	}

	return &seed, nil
}

// Seeder persists seed files as weeks with their words and affixes.
type Seeder struct {
	weeks   WeekRepository
	vocab   VocabRepository
	affixes AffixRepository

	now func() time.Time
}

// NewSeeder creates a Seeder.
func NewSeeder(weeks WeekRepository, vocab VocabRepository, affixes AffixRepository) *Seeder {
	return &Seeder{
		weeks:   weeks,
		vocab:   vocab,
		affixes: affixes,
		now:     time.Now,
	}
}

// Apply creates the week and its content. Returns the new week id.
func (s *Seeder) Apply(ctx context.Context, teacherUID string, seed *SeedWeek) (string, error) {
	now := s.now()
	weekOf, err := time.Parse("2006-01-02", seed.WeekOf)
	if err != nil {
		return "", fmt.Errorf("time.Parse(week_of) > %w", err)
	}

	week := &Week{
		ID:           uuid.NewString(),
		TeacherUID:   teacherUID,
		StudentID:    seed.StudentID,
		WeekOf:       weekOf,
		SubjectFocus: seed.SubjectFocus,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.weeks.Create(ctx, week); err != nil {
		return "", fmt.Errorf("weeks.Create > %w", err)
	}

	for _, sw := range seed.Words {
		word := &VocabWord{
			ID:              uuid.NewString(),
			WeekID:          week.ID,
			Word:            sw.Word,
			Definition:      sw.Definition,
			ExampleSentence: sw.ExampleSentence,
			PartOfSpeech:    sw.PartOfSpeech,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.vocab.Create(ctx, word); err != nil {
			return "", fmt.Errorf("vocab.Create(%s) > %w", sw.Word, err)
		}
	}

	for _, sa := range seed.Affixes {
		affix := &Affix{
			ID:        uuid.NewString(),
			WeekID:    week.ID,
			Affix:     sa.Affix,
			Kind:      AffixKind(sa.Kind),
			Meaning:   sa.Meaning,
			Examples:  StringList(sa.Examples),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.affixes.Create(ctx, affix); err != nil {
			return "", fmt.Errorf("affixes.Create(%s) > %w", sa.Affix, err)
		}
	}

	return week.ID, nil
}
