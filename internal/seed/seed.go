package seed

import (
	"context"
	"fmt"
	"log/slog"

	"devconnector/internal/database"
	"devconnector/internal/middleware"
	"devconnector/internal/models"

	"gorm.io/gorm"
)

// Options controls how much data Run creates.
type Options struct {
	Users int
	Posts int
	Clean bool
	Seed  int64
}

// Summary counts what Run wrote.
type Summary struct {
	Users    int
	Profiles int
	Posts    int
}

// Seeder writes generated data to a database.
type Seeder struct {
	db *gorm.DB
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll deletes every post, profile and user.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Post{}, &models.Profile{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
}

// Run creates opts.Users accounts, each with a profile, and opts.Posts posts
// spread over them, in one transaction.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Users <= 0 {
		return Summary{}, fmt.Errorf("at least one user is required, got %d", opts.Users)
	}

	if err := database.Migrate(s.db); err != nil {
		return Summary{}, err
	}
	if opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return Summary{}, err
		}
	}

	f, err := NewFactory(opts.Seed)
	if err != nil {
		return Summary{}, err
	}

	users := make([]*models.User, 0, opts.Users)
	profiles := make([]*models.Profile, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u := f.BuildUser(i)
		users = append(users, u)
		profiles = append(profiles, f.BuildProfile(u))
	}

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		posts = append(posts, f.BuildPost(users[i%len(users)], users))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(users, 100).Error; err != nil {
			return fmt.Errorf("create users: %w", err)
		}
		if err := tx.CreateInBatches(profiles, 100).Error; err != nil {
			return fmt.Errorf("create profiles: %w", err)
		}
		if len(posts) > 0 {
			if err := tx.CreateInBatches(posts, 100).Error; err != nil {
				return fmt.Errorf("create posts: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Users: len(users), Profiles: len(profiles), Posts: len(posts)}
	middleware.Logger.InfoContext(ctx, "seed completed",
		slog.Int("users", summary.Users),
		slog.Int("profiles", summary.Profiles),
		slog.Int("posts", summary.Posts),
	)
	return summary, nil
}
