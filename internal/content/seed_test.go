package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSeed = `student_id: s-1
week_of: "2025-09-01"
subject_focus: weather
words:
  - word: arid
    definition: very dry
    example_sentence: The arid desert sees almost no rain.
    part_of_speech: adjective
  - word: humid
    definition: damp and warm
affixes:
  - affix: un-
    kind: prefix
    meaning: not
    examples: [unhappy, unfair]
`

func writeSeedFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "week.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	seed, err := LoadSeedFile(writeSeedFile(t, validSeed))
	require.NoError(t, err)

	assert.Equal(t, "s-1", seed.StudentID)
	assert.Equal(t, "weather", seed.SubjectFocus)
	require.Len(t, seed.Words, 2)
	assert.Equal(t, "arid", seed.Words[0].Word)
	assert.Equal(t, "adjective", seed.Words[0].PartOfSpeech)
	require.Len(t, seed.Affixes, 1)
	assert.Equal(t, []string{"unhappy", "unfair"}, seed.Affixes[0].Examples)
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name:     "not yaml",
			contents: "{{{",
			wantErr:  "yaml.Unmarshal",
		},
		{
			name:     "missing student id",
			contents: "week_of: \"2025-09-01\"\nwords:\n  - word: arid\n    definition: dry\n",
			wantErr:  "student_id is required",
		},
		{
			name:     "bad date",
			contents: "student_id: s-1\nweek_of: \"Sep 1\"\nwords:\n  - word: arid\n    definition: dry\n",
			wantErr:  "week_of must be YYYY-MM-DD",
		},
		{
			name:     "no words",
			contents: "student_id: s-1\nweek_of: \"2025-09-01\"\n",
			wantErr:  "at least one word is required",
		},
		{
			name:     "word without definition",
			contents: "student_id: s-1\nweek_of: \"2025-09-01\"\nwords:\n  - word: arid\n",
			wantErr:  "word 1 needs both word and definition",
		},
		{
			name:     "unknown affix kind",
			contents: "student_id: s-1\nweek_of: \"2025-09-01\"\nwords:\n  - word: arid\n    definition: dry\naffixes:\n  - affix: un-\n    kind: infix\n",
			wantErr:  `affix 1 has unknown kind "infix"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeedFile(writeSeedFile(t, tt.contents))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadSeedFile_MissingFile(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "os.ReadFile")
}

type recordingWeekRepo struct {
	created []*Week
}

func (r *recordingWeekRepo) Get(ctx context.Context, id string) (*Week, error) { return nil, nil }

func (r *recordingWeekRepo) FindByStudent(ctx context.Context, studentID string) ([]Week, error) {
	return nil, nil
}

func (r *recordingWeekRepo) Create(ctx context.Context, week *Week) error {
	r.created = append(r.created, week)
	return nil
}

type recordingVocabRepo struct {
	created []*VocabWord
}

func (r *recordingVocabRepo) Get(ctx context.Context, id string) (*VocabWord, error) {
	return nil, nil
}

func (r *recordingVocabRepo) FindByWeek(ctx context.Context, weekID string) ([]VocabWord, error) {
	return nil, nil
}

func (r *recordingVocabRepo) FindByIDs(ctx context.Context, ids []string) ([]VocabWord, error) {
	return nil, nil
}

func (r *recordingVocabRepo) Create(ctx context.Context, word *VocabWord) error {
	r.created = append(r.created, word)
	return nil
}

func (r *recordingVocabRepo) UpdateClarification(ctx context.Context, id, partOfSpeech, whatItIs, whatItIsNot string, now time.Time) error {
	return nil
}

type recordingAffixRepo struct {
	created []*Affix
}

func (r *recordingAffixRepo) FindByWeek(ctx context.Context, weekID string) ([]Affix, error) {
	return nil, nil
}

func (r *recordingAffixRepo) Create(ctx context.Context, affix *Affix) error {
	r.created = append(r.created, affix)
	return nil
}

func TestSeeder_Apply(t *testing.T) {
	seed, err := LoadSeedFile(writeSeedFile(t, validSeed))
	require.NoError(t, err)

	weeks := &recordingWeekRepo{}
	vocab := &recordingVocabRepo{}
	affixes := &recordingAffixRepo{}
	seeder := NewSeeder(weeks, vocab, affixes)

	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	seeder.now = func() time.Time { return now }

	weekID, err := seeder.Apply(context.Background(), "t-1", seed)
	require.NoError(t, err)
	require.NotEmpty(t, weekID)

	require.Len(t, weeks.created, 1)
	week := weeks.created[0]
	assert.Equal(t, weekID, week.ID)
	assert.Equal(t, "t-1", week.TeacherUID)
	assert.Equal(t, "s-1", week.StudentID)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), week.WeekOf)
	assert.Equal(t, now, week.CreatedAt)

	require.Len(t, vocab.created, 2)
	assert.Equal(t, weekID, vocab.created[0].WeekID)
	assert.Equal(t, "arid", vocab.created[0].Word)
	assert.Equal(t, "humid", vocab.created[1].Word)

	require.Len(t, affixes.created, 1)
	assert.Equal(t, weekID, affixes.created[0].WeekID)
	assert.Equal(t, AffixPrefix, affixes.created[0].Kind)
	assert.Equal(t, StringList{"unhappy", "unfair"}, affixes.created[0].Examples)
}
