package http

import (
	"time"

	"github.com/google/uuid"

	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

// Profile DTOs
type UserRefDTO struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type ExperienceDTO struct {
	ID          uuid.UUID  `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type EducationDTO struct {
	ID           uuid.UUID  `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type ProfileDTO struct {
	User           UserRefDTO      `json:"user"`
	Company        string          `json:"company,omitempty"`
	Website        string          `json:"website,omitempty"`
	Location       string          `json:"location,omitempty"`
	Status         string          `json:"status"`
	Skills         []string        `json:"skills"`
	Bio            string          `json:"bio,omitempty"`
	GitHubUsername string          `json:"githubusername,omitempty"`
	Social         *profile.Social `json:"social,omitempty"`
	Experience     []ExperienceDTO `json:"experience"`
	Education      []EducationDTO  `json:"education"`
	Version        int64           `json:"version"`
	Date           time.Time       `json:"date"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func ToProfileDTO(v *profileUC.ProfileView) ProfileDTO {
	p := v.Profile
	dto := ProfileDTO{
		User:           UserRefDTO{ID: v.User.ID, Name: v.User.Name, Avatar: v.User.Avatar},
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Status:         p.Status,
		Skills:         p.Skills,
		Bio:            p.Bio,
		GitHubUsername: p.GitHubUsername,
		Experience:     make([]ExperienceDTO, len(p.Experience)),
		Education:      make([]EducationDTO, len(p.Education)),
		Version:        p.Version,
		Date:           p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if dto.Skills == nil {
		dto.Skills = []string{}
	}
	if !p.Social.IsZero() {
		social := p.Social
		dto.Social = &social
	}
	for i, e := range p.Experience {
		dto.Experience[i] = ExperienceDTO(e)
	}
	for i, e := range p.Education {
		dto.Education[i] = EducationDTO(e)
	}
	return dto
}

func ToProfileDTOs(views []profileUC.ProfileView) []ProfileDTO {
	out := make([]ProfileDTO, len(views))
	for i := range views {
		out[i] = ToProfileDTO(&views[i])
	}
	return out
}

// User DTOs
type UserDTO struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, Date: u.CreatedAt}
}

// Post DTOs
type PostDTO struct {
	ID     uuid.UUID `json:"_id"`
	User   uuid.UUID `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func ToPostDTO(p *post.Post) PostDTO {
	return PostDTO{ID: p.ID, User: p.UserID, Text: p.Text, Name: p.Name, Avatar: p.Avatar, Date: p.CreatedAt}
}

func ToPostDTOs(posts []*post.Post) []PostDTO {
	out := make([]PostDTO, len(posts))
	for i, p := range posts {
		out[i] = ToPostDTO(p)
	}
	return out
}
