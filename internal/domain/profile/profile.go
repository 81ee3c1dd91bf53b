package profile

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// IsZero reports whether no social link is set.
func (s Social) IsZero() bool {
	return s == Social{}
}

type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type Education struct {
	ID           uuid.UUID  `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

// Profile is the per-user aggregate. Experience and Education are kept
// newest-first and only exist inside their profile.
type Profile struct {
	UserID         uuid.UUID    `json:"user_id"`
	Company        string       `json:"company"`
	Website        string       `json:"website"`
	Location       string       `json:"location"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Bio            string       `json:"bio"`
	GitHubUsername string       `json:"githubusername"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	// Version is bumped on every write; a stale Version makes Update fail.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrEducationNotFound  = errors.New("education not found")
	ErrStaleProfile       = errors.New("profile was modified concurrently")
	ErrProfileExists      = errors.New("profile already exists")
)

// Fields is a sparse set of top-level profile attributes. Empty strings mean
// "not supplied" and never overwrite a stored value.
type Fields struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         string
	Social         Social
}

// ParseSkills splits a comma separated list and trims each entry. Empty
// entries, such as the one produced by a trailing comma, are dropped.
func ParseSkills(raw string) []string {
	skills := make([]string, 0)
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// New builds a profile for userID holding only the supplied fields.
func New(userID uuid.UUID, f Fields, now time.Time) *Profile {
	p := &Profile{
		UserID:     userID,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		CreatedAt:  now,
	}
	p.Apply(f, now)
	return p
}

// Apply copies every non-empty field of f onto p.
func (p *Profile) Apply(f Fields, now time.Time) {
	setIfPresent(&p.Company, f.Company)
	setIfPresent(&p.Website, f.Website)
	setIfPresent(&p.Location, f.Location)
	setIfPresent(&p.Bio, f.Bio)
	setIfPresent(&p.Status, f.Status)
	setIfPresent(&p.GitHubUsername, f.GitHubUsername)
	if f.Skills != "" {
		p.Skills = ParseSkills(f.Skills)
	}

	setIfPresent(&p.Social.YouTube, f.Social.YouTube)
	setIfPresent(&p.Social.Twitter, f.Social.Twitter)
	setIfPresent(&p.Social.Facebook, f.Social.Facebook)
	setIfPresent(&p.Social.LinkedIn, f.Social.LinkedIn)
	setIfPresent(&p.Social.Instagram, f.Social.Instagram)

	p.UpdatedAt = now
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (p *Profile) AddExperience(e Experience) Experience {
	e.ID = uuid.New()
	e.normalize()
	p.Experience = slices.Insert(p.Experience, 0, e)
	return e
}

// ExperienceIndex returns the position of id, or -1.
func (p *Profile) ExperienceIndex(id uuid.UUID) int {
	return slices.IndexFunc(p.Experience, func(e Experience) bool { return e.ID == id })
}

// ReplaceExperience overwrites every field of entry id with e, keeping id and position.
func (p *Profile) ReplaceExperience(id uuid.UUID, e Experience) error {
	i := p.ExperienceIndex(id)
	if i < 0 {
		return ErrExperienceNotFound
	}
	e.ID = id
	e.normalize()
	p.Experience[i] = e
	return nil
}

func (p *Profile) RemoveExperience(id uuid.UUID) error {
	i := p.ExperienceIndex(id)
	if i < 0 {
		return ErrExperienceNotFound
	}
	p.Experience = slices.Delete(p.Experience, i, i+1)
	return nil
}

func (p *Profile) AddEducation(e Education) Education {
	e.ID = uuid.New()
	e.normalize()
	p.Education = slices.Insert(p.Education, 0, e)
	return e
}

func (p *Profile) EducationIndex(id uuid.UUID) int {
	return slices.IndexFunc(p.Education, func(e Education) bool { return e.ID == id })
}

func (p *Profile) ReplaceEducation(id uuid.UUID, e Education) error {
	i := p.EducationIndex(id)
	if i < 0 {
		return ErrEducationNotFound
	}
	e.ID = id
	e.normalize()
	p.Education[i] = e
	return nil
}

func (p *Profile) RemoveEducation(id uuid.UUID) error {
	i := p.EducationIndex(id)
	if i < 0 {
		return ErrEducationNotFound
	}
	p.Education = slices.Delete(p.Education, i, i+1)
	return nil
}

// a current position has no end date
func (e *Experience) normalize() {
	if e.Current {
		e.To = nil
	}
}

func (e *Education) normalize() {
	if e.Current {
		e.To = nil
	}
}

type Repository interface {
	// Insert stores a new profile at version 1. It fails with ErrProfileExists
	// when the user already has one.
	Insert(ctx context.Context, p *Profile) error
	// Update replaces the stored profile if its version still equals p.Version,
	// then increments p.Version. It fails with ErrStaleProfile otherwise.
	Update(ctx context.Context, p *Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
