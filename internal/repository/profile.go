package repository

import (
	"context"
	"errors"

	"devconnector/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
// Every profile it returns has Owner populated.
type ProfileRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	DeleteWithOwner(ctx context.Context, ownerID string) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByOwner(ctx context.Context, ownerID string) (*models.Profile, error) {
	if !models.IsValidID(ownerID) {
		return nil, models.NewNotFoundError("Profile not found")
	}
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile not found")
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.attachOwners(ctx, []*models.Profile{&profile}); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	profiles := []*models.Profile{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.attachOwners(ctx, profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Create inserts a new profile. A concurrent insert for the same owner trips the
// unique index and is reported as a stale write.
func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewStaleWriteError("Profile")
		}
		return models.NewInternalError(err)
	}
	return r.attachOwners(ctx, []*models.Profile{profile})
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return updateVersioned(ctx, r.db, profile, profile.ID, &profile.Version, "Profile")
}

// DeleteWithOwner removes the owner's profile and user account in one transaction.
// Posts and comments authored by the user are left in place.
func (r *profileRepository) DeleteWithOwner(ctx context.Context, ownerID string) error {
	if !models.IsValidID(ownerID) {
		return models.NewNotFoundError("User not found")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", ownerID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", ownerID).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User not found")
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) attachOwners(ctx context.Context, profiles []*models.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	ids := make([]string, 0, len(profiles))
	seen := map[string]struct{}{}
	for _, p := range profiles {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		ids = append(ids, p.UserID)
	}

	var owners []models.User
	if err := r.db.WithContext(ctx).
		Select("id", "name", "avatar").
		Where("id IN ?", ids).
		Find(&owners).Error; err != nil {
		return models.NewInternalError(err)
	}

	byID := make(map[string]*models.User, len(owners))
	for i := range owners {
		byID[owners[i].ID] = &owners[i]
	}
	for _, p := range profiles {
		if u := byID[p.UserID]; u != nil {
			p.Owner = u.Summary()
		}
	}
	return nil
}
