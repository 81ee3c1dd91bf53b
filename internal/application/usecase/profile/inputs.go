package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/validation"
)

type UpsertProfileInput struct {
	UserID         uuid.UUID `json:"-"`
	Company        string    `json:"company"`
	Website        string    `json:"website"`
	Location       string    `json:"location"`
	Bio            string    `json:"bio"`
	Status         string    `json:"status" validate:"required"`
	GitHubUsername string    `json:"githubusername"`
	Skills         string    `json:"skills" validate:"required"`
	YouTube        string    `json:"youtube"`
	Twitter        string    `json:"twitter"`
	Facebook       string    `json:"facebook"`
	LinkedIn       string    `json:"linkedin"`
	Instagram      string    `json:"instagram"`
}

var upsertMessages = validation.Messages{
	"status": "Status is required",
	"skills": "Skills is required",
}

func (in UpsertProfileInput) Validate() error {
	return validation.Check(in, upsertMessages)
}

func (in UpsertProfileInput) fields() profile.Fields {
	return profile.Fields{
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		Status:         in.Status,
		GitHubUsername: in.GitHubUsername,
		Skills:         in.Skills,
		Social: profile.Social{
			YouTube:   in.YouTube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			LinkedIn:  in.LinkedIn,
			Instagram: in.Instagram,
		},
	}
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var experienceMessages = validation.Messages{
	"title":   "Title is required",
	"company": "Company is required",
	"from":    "From date is required",
}

// Experience validates in and converts it, reporting every problem at once.
func (in ExperienceInput) Experience() (profile.Experience, error) {
	fields := validation.Fields(in, experienceMessages)
	from, to, dateFields := parseRange(in.From, in.To)
	if fields = append(fields, dateFields...); len(fields) > 0 {
		return profile.Experience{}, apperror.NewValidation(fields)
	}
	return profile.Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}, nil
}

type EducationInput struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var educationMessages = validation.Messages{
	"school":       "School is required",
	"degree":       "Degree is required",
	"fieldofstudy": "Field of study is required",
	"from":         "From date is required",
}

func (in EducationInput) Education() (profile.Education, error) {
	fields := validation.Fields(in, educationMessages)
	from, to, dateFields := parseRange(in.From, in.To)
	if fields = append(fields, dateFields...); len(fields) > 0 {
		return profile.Education{}, apperror.NewValidation(fields)
	}
	return profile.Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}, nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseRange parses non-empty bounds; empty ones are left to the required checks.
func parseRange(fromRaw, toRaw string) (time.Time, *time.Time, []apperror.FieldError) {
	var (
		from   time.Time
		to     *time.Time
		fields []apperror.FieldError
	)
	if fromRaw != "" {
		t, ok := parseDate(fromRaw)
		if !ok {
			fields = append(fields, apperror.FieldError{Param: "from", Msg: "From date is invalid"})
		}
		from = t
	}
	if toRaw != "" {
		t, ok := parseDate(toRaw)
		if !ok {
			fields = append(fields, apperror.FieldError{Param: "to", Msg: "To date is invalid"})
		} else {
			to = &t
		}
	}
	return from, to, fields
}
