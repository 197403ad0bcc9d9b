package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// UserRevoker invalidates every outstanding token of a user.
type UserRevoker interface {
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
}

type ProfileService struct {
	profileRepo repository.ProfileRepository
	revoker     UserRevoker
	tokenTTL    time.Duration
	logger      *slog.Logger
}

// UpsertProfileInput carries the fields a caller supplied. Empty strings are
// treated as not supplied; Skills is a comma-separated list.
type UpsertProfileInput struct {
	OwnerID        string
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         string
	Social         map[string]string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// NewProfileService builds the service. revoker may be nil, in which case
// deleting an account leaves its tokens valid until they expire.
func NewProfileService(profileRepo repository.ProfileRepository, revoker UserRevoker, tokenTTL time.Duration) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		revoker:     revoker,
		tokenTTL:    tokenTTL,
		logger:      slog.Default(),
	}
}

// WithLogger replaces the logger used for failures that do not fail the call.
func (s *ProfileService) WithLogger(l *slog.Logger) *ProfileService {
	if l != nil {
		s.logger = l
	}
	return s
}

// ParseSkills splits a comma-separated skills list, trimming entries and dropping empty ones.
func ParseSkills(raw string) []string {
	skills := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// UpsertProfile creates the caller's profile or merges the supplied fields into it.
func (s *ProfileService) UpsertProfile(ctx context.Context, in UpsertProfileInput) (profile *models.Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService.UpsertProfile", attribute.String("user.id", in.OwnerID))
	defer func() { observability.EndSpan(span, err) }()

	skills := ParseSkills(in.Skills)

	profile, err = s.profileRepo.GetByOwner(ctx, in.OwnerID)
	switch {
	case err == nil:
		applyProfileFields(profile, in, skills)
		if err := s.update(ctx, profile); err != nil {
			return nil, err
		}
		return profile, nil
	case !models.HasCode(err, models.CodeNotFound):
		return nil, err
	}

	var missing []string
	if strings.TrimSpace(in.Status) == "" {
		missing = append(missing, "Status is required")
	}
	if len(skills) == 0 {
		missing = append(missing, "Skills is required")
	}
	if len(missing) > 0 {
		return nil, models.NewValidationError(missing[0], missing[1:]...)
	}

	profile = &models.Profile{UserID: in.OwnerID}
	applyProfileFields(profile, in, skills)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if models.HasCode(err, models.CodeStaleWrite) {
			observability.MutationConflicts.WithLabelValues("profile", "stale_write").Inc()
		}
		return nil, err
	}
	return profile, nil
}

func applyProfileFields(p *models.Profile, in UpsertProfileInput, skills []string) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&p.Company, in.Company)
	set(&p.Website, in.Website)
	set(&p.Location, in.Location)
	set(&p.Bio, in.Bio)
	set(&p.Status, in.Status)
	set(&p.GithubUsername, in.GithubUsername)

	if len(skills) > 0 {
		p.Skills = skills
	}

	if p.Social == nil {
		p.Social = map[string]string{}
	}
	for key, v := range in.Social {
		if !slices.Contains(models.SocialNetworks, key) {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			p.Social[key] = v
		}
	}
}

// ListProfiles returns every profile with its owner's name and avatar.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	return s.profileRepo.List(ctx)
}

func (s *ProfileService) GetProfileByOwner(ctx context.Context, ownerID string) (*models.Profile, error) {
	return s.profileRepo.GetByOwner(ctx, ownerID)
}

// DeleteProfileAndOwner removes the caller's profile and account. Posts and
// comments written by the account are kept.
func (s *ProfileService) DeleteProfileAndOwner(ctx context.Context, ownerID string) (err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService.DeleteProfileAndOwner", attribute.String("user.id", ownerID))
	defer func() { observability.EndSpan(span, err) }()

	if err := s.profileRepo.DeleteWithOwner(ctx, ownerID); err != nil {
		return err
	}

	if s.revoker != nil {
		if err := s.revoker.RevokeUser(ctx, ownerID, s.tokenTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to revoke tokens of deleted user",
				slog.String("user_id", ownerID),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// AddExperience prepends an experience entry and returns the updated profile.
func (s *ProfileService) AddExperience(ctx context.Context, ownerID string, in ExperienceInput) (profile *models.Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService.AddExperience", attribute.String("user.id", ownerID))
	defer func() { observability.EndSpan(span, err) }()

	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "Title is required")
	}
	if strings.TrimSpace(in.Company) == "" {
		missing = append(missing, "Company is required")
	}
	if in.From.IsZero() {
		missing = append(missing, "From date is required")
	}
	if len(missing) > 0 {
		return nil, models.NewValidationError(missing[0], missing[1:]...)
	}

	profile, err = s.profileRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	exp := models.Experience{
		ID:          models.NewID(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	profile.Experience = append([]models.Experience{exp}, profile.Experience...)
	if err := s.update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveExperience drops the experience entry with the given id.
func (s *ProfileService) RemoveExperience(ctx context.Context, ownerID, expID string) (profile *models.Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService.RemoveExperience", attribute.String("user.id", ownerID))
	defer func() { observability.EndSpan(span, err) }()

	profile, err = s.profileRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(profile.Experience, func(e models.Experience) bool { return e.ID == expID })
	if i < 0 {
		return nil, models.NewNotFoundError("Experience not found")
	}
	profile.Experience = slices.Delete(profile.Experience, i, i+1)
	if err := s.update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// AddEducation prepends an education entry and returns the updated profile.
func (s *ProfileService) AddEducation(ctx context.Context, ownerID string, in EducationInput) (profile *models.Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService.AddEducation", attribute.String("user.id", ownerID))
	defer func() { observability.EndSpan(span, err) }()

	var missing []string
	if strings.TrimSpace(in.School) == "" {
		missing = append(missing, "School is required")
	}
	if strings.TrimSpace(in.Degree) == "" {
		missing = append(missing, "Degree is required")
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		missing = append(missing, "Field of study is required")
	}
	if in.From.IsZero() {
		missing = append(missing, "From date is required")
	}
	if len(missing) > 0 {
		return nil, models.NewValidationError(missing[0], missing[1:]...)
	}

	profile, err = s.profileRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	edu := models.Education{
		ID:           models.NewID(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	profile.Education = append([]models.Education{edu}, profile.Education...)
	if err := s.update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveEducation drops the education entry with the given id.
func (s *ProfileService) RemoveEducation(ctx context.Context, ownerID, eduID string) (profile *models.Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService.RemoveEducation", attribute.String("user.id", ownerID))
	defer func() { observability.EndSpan(span, err) }()

	profile, err = s.profileRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(profile.Education, func(e models.Education) bool { return e.ID == eduID })
	if i < 0 {
		return nil, models.NewNotFoundError("Education not found")
	}
	profile.Education = slices.Delete(profile.Education, i, i+1)
	if err := s.update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) update(ctx context.Context, profile *models.Profile) error {
	err := s.profileRepo.Update(ctx, profile)
	if models.HasCode(err, models.CodeStaleWrite) {
		observability.MutationConflicts.WithLabelValues("profile", "stale_write").Inc()
	}
	return err
}
