package profile

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(p *Profile) []string {
	out := make([]string, len(p.Experience))
	for i, e := range p.Experience {
		out[i] = e.Title
	}
	return out
}

func TestParseSkills(t *testing.T) {
	cases := map[string][]string{
		"JavaScript, CSS, HTML,": {"JavaScript", "CSS", "HTML"},
		"Go":                     {"Go"},
		" Go ,  Rust":            {"Go", "Rust"},
		",,":                     {},
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseSkills(in), "input %q", in)
	}
}

func TestNew_KeepsOnlySuppliedFields(t *testing.T) {
	now := time.Now().UTC()
	p := New(uuid.New(), Fields{
		Status: "Developer",
		Skills: "Go, SQL",
		Social: Social{Twitter: "https://twitter.com/dev"},
	}, now)

	assert.Equal(t, "Developer", p.Status)
	assert.Equal(t, []string{"Go", "SQL"}, p.Skills)
	assert.Empty(t, p.Company)
	assert.Equal(t, Social{Twitter: "https://twitter.com/dev"}, p.Social)
	assert.Empty(t, p.Experience)
	assert.Equal(t, now, p.CreatedAt)
}

func TestApply_IsNonDestructive(t *testing.T) {
	now := time.Now().UTC()
	p := New(uuid.New(), Fields{
		Company: "Acme",
		Status:  "Developer",
		Skills:  "Go",
		Social:  Social{YouTube: "yt", LinkedIn: "li"},
	}, now)

	p.Apply(Fields{Status: "Senior Developer", Skills: "Go, Rust", Social: Social{LinkedIn: "li2"}}, now.Add(time.Minute))

	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "Senior Developer", p.Status)
	assert.Equal(t, []string{"Go", "Rust"}, p.Skills)
	assert.Equal(t, Social{YouTube: "yt", LinkedIn: "li2"}, p.Social)
	assert.Equal(t, now.Add(time.Minute), p.UpdatedAt)
}

func TestAddExperience_NewestFirst(t *testing.T) {
	p := New(uuid.New(), Fields{}, time.Now())

	a := p.AddExperience(Experience{Title: "A"})
	b := p.AddExperience(Experience{Title: "B"})

	assert.Equal(t, []string{"B", "A"}, titles(p))
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddExperience_CurrentDropsEndDate(t *testing.T) {
	p := New(uuid.New(), Fields{}, time.Now())
	to := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	e := p.AddExperience(Experience{Title: "A", To: &to, Current: true})

	assert.Nil(t, e.To)
	assert.Nil(t, p.Experience[0].To)
}

func TestReplaceExperience(t *testing.T) {
	p := New(uuid.New(), Fields{}, time.Now())
	a := p.AddExperience(Experience{Title: "A", Company: "X", Location: "Paris"})
	p.AddExperience(Experience{Title: "B"})

	err := p.ReplaceExperience(a.ID, Experience{Title: "A2", Company: "Y"})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A2"}, titles(p))
	assert.Equal(t, a.ID, p.Experience[1].ID)
	assert.Equal(t, "Y", p.Experience[1].Company)
	assert.Empty(t, p.Experience[1].Location, "replacement is wholesale")
}

func TestReplaceExperience_UnknownIDLeavesListAlone(t *testing.T) {
	p := New(uuid.New(), Fields{}, time.Now())
	p.AddExperience(Experience{Title: "A"})
	p.AddExperience(Experience{Title: "B"})

	err := p.ReplaceExperience(uuid.New(), Experience{Title: "Z"})

	assert.ErrorIs(t, err, ErrExperienceNotFound)
	assert.Equal(t, []string{"B", "A"}, titles(p))
}

func TestRemoveExperience(t *testing.T) {
	p := New(uuid.New(), Fields{}, time.Now())
	a := p.AddExperience(Experience{Title: "A"})
	p.AddExperience(Experience{Title: "B"})
	p.AddExperience(Experience{Title: "C"})

	require.NoError(t, p.RemoveExperience(a.ID))
	assert.Equal(t, []string{"C", "B"}, titles(p))
}

func TestRemoveExperience_UnknownIDRemovesNothing(t *testing.T) {
	p := New(uuid.New(), Fields{}, time.Now())

	assert.ErrorIs(t, p.RemoveExperience(uuid.New()), ErrExperienceNotFound, "empty list")

	p.AddExperience(Experience{Title: "A"})
	p.AddExperience(Experience{Title: "B"})

	assert.ErrorIs(t, p.RemoveExperience(uuid.New()), ErrExperienceNotFound)
	assert.Equal(t, []string{"B", "A"}, titles(p))
}

func TestEducationLifecycle(t *testing.T) {
	p := New(uuid.New(), Fields{}, time.Now())
	first := p.AddEducation(Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS"})
	second := p.AddEducation(Education{School: "ETH", Degree: "MSc", FieldOfStudy: "CS"})

	require.Len(t, p.Education, 2)
	assert.Equal(t, second.ID, p.Education[0].ID)
	assert.Equal(t, 1, p.EducationIndex(first.ID))

	require.NoError(t, p.ReplaceEducation(first.ID, Education{School: "MIT", Degree: "BEng", FieldOfStudy: "EE"}))
	assert.Equal(t, "BEng", p.Education[1].Degree)
	assert.Equal(t, first.ID, p.Education[1].ID)

	assert.ErrorIs(t, p.ReplaceEducation(uuid.New(), Education{}), ErrEducationNotFound)
	assert.ErrorIs(t, p.RemoveEducation(uuid.New()), ErrEducationNotFound)
	require.Len(t, p.Education, 2)

	require.NoError(t, p.RemoveEducation(second.ID))
	require.Len(t, p.Education, 1)
	assert.Equal(t, first.ID, p.Education[0].ID)
}
