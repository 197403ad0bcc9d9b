package server

import (
	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

type profileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type experienceRequest struct {
	Title       string `json:"title" validate:"required" msg:"Title is required"`
	Company     string `json:"company" validate:"required" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required" msg:"From date is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationRequest struct {
	School       string `json:"school" validate:"required" msg:"School is required"`
	Degree       string `json:"degree" validate:"required" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required" msg:"Field of study is required"`
	From         string `json:"from" validate:"required" msg:"From date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// GetProfiles handles GET /api/profile
// @Summary List profiles
// @Tags profile
// @Produce json
// @Success 200 {array} models.Profile
// @Router /profile [get]
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.ListProfiles(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByUser handles GET /api/profile/user/:user_id
// @Summary Profile by user id
// @Tags profile
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/user/{user_id} [get]
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	profile, err := s.profileService.GetProfileByOwner(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profile/me
// @Summary Own profile
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetProfileByOwner(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile
// @Summary Create or update own profile
// @Description Only non-empty fields are applied. skills is a comma-separated list.
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body profileRequest true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /profile [post]
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondError(c, err)
	}

	profile, err := s.profileService.UpsertProfile(c.UserContext(), service.UpsertProfileInput{
		OwnerID:        middleware.UserID(c),
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GithubUsername: req.GithubUsername,
		Skills:         req.Skills,
		Social: map[string]string{
			"youtube":   req.Youtube,
			"twitter":   req.Twitter,
			"facebook":  req.Facebook,
			"linkedin":  req.Linkedin,
			"instagram": req.Instagram,
		},
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
// @Summary Delete own profile and account
// @Description Posts and comments written by the account are kept.
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} MessageResponse
// @Router /profile [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.profileService.DeleteProfileAndOwner(c.UserContext(), middleware.UserID(c)); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(MessageResponse{Msg: "User deleted"})
}

// AddExperience handles PUT /api/profile/experience
// @Summary Add experience
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body experienceRequest true "Experience"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience [put]
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req experienceRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondError(c, err)
	}
	from, err := parseDate(req.From, "From")
	if err != nil {
		return s.respondError(c, err)
	}
	if from == nil {
		return s.respondError(c, models.NewValidationError("From date is required"))
	}
	to, err := parseDate(req.To, "To")
	if err != nil {
		return s.respondError(c, err)
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), middleware.UserID(c), service.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        *from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profile/experience/:exp_id
// @Summary Remove experience
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Param exp_id path string true "Experience ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience/{exp_id} [delete]
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveExperience(c.UserContext(), middleware.UserID(c), c.Params("exp_id"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education
// @Summary Add education
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body educationRequest true "Education"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education [put]
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req educationRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondError(c, err)
	}
	from, err := parseDate(req.From, "From")
	if err != nil {
		return s.respondError(c, err)
	}
	if from == nil {
		return s.respondError(c, models.NewValidationError("From date is required"))
	}
	to, err := parseDate(req.To, "To")
	if err != nil {
		return s.respondError(c, err)
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), middleware.UserID(c), service.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         *from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profile/education/:edu_id
// @Summary Remove education
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Param edu_id path string true "Education ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education/{edu_id} [delete]
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveEducation(c.UserContext(), middleware.UserID(c), c.Params("edu_id"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(profile)
}
