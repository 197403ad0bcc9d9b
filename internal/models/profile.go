package models

import (
	"time"

	"gorm.io/gorm"
)

// Social network keys accepted on a profile.
var SocialNetworks = []string{"youtube", "twitter", "facebook", "linkedin", "instagram"}

// Experience is a job entry embedded in a Profile.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a school entry embedded in a Profile.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the one-per-user aggregate holding career details.
// Sub-record lists are stored as JSON columns and rewritten as a whole.
type Profile struct {
	ID             string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID         string            `gorm:"type:varchar(36);uniqueIndex;not null" json:"-"`
	Owner          *UserSummary      `gorm:"-" json:"user"`
	Company        string            `json:"company,omitempty"`
	Website        string            `json:"website,omitempty"`
	Location       string            `json:"location,omitempty"`
	Bio            string            `json:"bio,omitempty"`
	Status         string            `gorm:"not null" json:"status"`
	GithubUsername string            `json:"githubusername,omitempty"`
	Skills         []string          `gorm:"type:jsonb;serializer:json" json:"skills"`
	Social         map[string]string `gorm:"type:jsonb;serializer:json" json:"social"`
	Experience     []Experience      `gorm:"type:jsonb;serializer:json" json:"experience"`
	Education      []Education       `gorm:"type:jsonb;serializer:json" json:"education"`
	Version        int               `gorm:"not null" json:"version"`
	CreatedAt      time.Time         `json:"date"`
	UpdatedAt      time.Time         `json:"-"`
}

func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	p.normalize()
	return nil
}

func (p *Profile) AfterFind(_ *gorm.DB) error {
	p.normalize()
	return nil
}

// normalize replaces nil collections so they render as empty JSON values.
func (p *Profile) normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Social == nil {
		p.Social = map[string]string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
}
