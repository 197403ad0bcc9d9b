// Package seed fills a development database with fake users, profiles and
// posts. It is not used by the API server.
package seed

import (
	"fmt"
	"strings"
	"time"

	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Factory builds domain entities with fake content. It does not persist anything.
type Factory struct {
	faker        *gofakeit.Faker
	passwordHash string
	now          time.Time
}

// NewFactory creates a Factory. The same seed yields the same content.
func NewFactory(seed int64) (*Factory, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), service.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{
		faker:        gofakeit.New(seed),
		passwordHash: string(hash),
		now:          time.Now().UTC(),
	}, nil
}

// BuildUser returns an account with a unique email and its gravatar.
func (f *Factory) BuildUser(n int) *models.User {
	name := f.faker.Name()
	email := fmt.Sprintf("%s.%d@example.com", strings.ToLower(f.faker.Username()), n)
	return &models.User{
		ID:       models.NewID(),
		Name:     name,
		Email:    email,
		Password: f.passwordHash,
		Avatar:   service.GravatarURL(email),
	}
}

// BuildProfile returns a profile for user with a few skills, social links and
// career entries.
func (f *Factory) BuildProfile(user *models.User) *models.Profile {
	skills := make([]string, 0, 4)
	for i := 0; i < f.faker.Number(1, 4); i++ {
		skills = append(skills, f.faker.ProgrammingLanguage())
	}

	handle := strings.ToLower(f.faker.Username())
	profile := &models.Profile{
		ID:             models.NewID(),
		UserID:         user.ID,
		Company:        f.faker.Company(),
		Website:        f.faker.URL(),
		Location:       f.faker.City(),
		Bio:            f.faker.Sentence(12),
		Status:         f.faker.RandomString([]string{"Developer", "Junior Developer", "Senior Developer", "Manager", "Student", "Instructor"}),
		GithubUsername: handle,
		Skills:         skills,
		Social: map[string]string{
			"twitter":  "https://twitter.com/" + handle,
			"linkedin": "https://linkedin.com/in/" + handle,
		},
		Version: 1,
	}

	from := f.faker.DateRange(f.now.AddDate(-10, 0, 0), f.now.AddDate(-1, 0, 0))
	profile.Experience = []models.Experience{{
		ID:          models.NewID(),
		Title:       f.faker.JobTitle(),
		Company:     profile.Company,
		Location:    profile.Location,
		From:        from,
		Current:     true,
		Description: f.faker.Sentence(8),
	}}

	graduated := from.AddDate(0, -1, 0)
	profile.Education = []models.Education{{
		ID:           models.NewID(),
		School:       f.faker.City() + " University",
		Degree:       f.faker.RandomString([]string{"BSc", "MSc", "BA", "PhD"}),
		FieldOfStudy: "Computer Science",
		From:         graduated.AddDate(-4, 0, 0),
		To:           &graduated,
	}}
	return profile
}

// BuildPost returns a post by author liked and commented on by random members
// of crowd. Likes never repeat a user.
func (f *Factory) BuildPost(author *models.User, crowd []*models.User) *models.Post {
	created := f.faker.DateRange(f.now.AddDate(0, -3, 0), f.now)
	post := &models.Post{
		ID:        models.NewID(),
		UserID:    author.ID,
		Text:      f.faker.Paragraph(1, 3, 12, " "),
		Name:      author.Name,
		Avatar:    author.Avatar,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		Version:   1,
		CreatedAt: created,
	}

	if len(crowd) == 0 {
		return post
	}

	order := sequence(len(crowd))
	f.faker.ShuffleInts(order)
	for _, i := range order[:f.faker.Number(0, len(crowd))] {
		post.AddLike(crowd[i].ID)
	}

	for i := 0; i < f.faker.Number(0, 3); i++ {
		commenter := crowd[f.faker.Number(0, len(crowd)-1)]
		post.Comments = append([]models.Comment{{
			ID:     models.NewID(),
			User:   commenter.ID,
			Text:   f.faker.Sentence(8),
			Name:   commenter.Name,
			Avatar: commenter.Avatar,
			Date:   created.Add(time.Duration(i+1) * time.Hour),
		}}, post.Comments...)
	}
	return post
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
