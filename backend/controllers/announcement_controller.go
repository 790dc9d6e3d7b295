package controllers

import (
	"time"

	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AnnouncementController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAnnouncementController(db *gorm.DB, cfg *config.Config) *AnnouncementController {
	return &AnnouncementController{DB: db, Cfg: cfg}
}

type AnnouncementRequest struct {
	Title     string `json:"title" validate:"required" example:"Midterm moved"`
	Content   string `json:"content" validate:"required" example:"The midterm is now on Friday."`
	StartDate string `json:"start_date" validate:"required" example:"2024-10-01T00:00:00Z"`
	EndDate   string `json:"end_date" validate:"required" example:"2024-10-08T00:00:00Z"`
}

// window parses and checks the announcement's date range.
func (r AnnouncementRequest) window() (time.Time, time.Time, string) {
	start, err := parseDateTime(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, "Invalid start_date"
	}
	end, err := parseDateTime(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, "Invalid end_date"
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, "end_date must not be before start_date"
	}
	return start, end, ""
}

// CreateAnnouncement godoc
// @Summary Create a course announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param input body AnnouncementRequest true "Announcement"
// @Success 201 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/courses/{course_id}/announcements [post]
func (ac *AnnouncementController) CreateAnnouncement(c *fiber.Ctx) error {
	var input AnnouncementRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}
	if err := utils.Validate(input); err != nil {
		return utils.BadRequest(c, "All fields are required")
	}
	start, end, msg := input.window()
	if msg != "" {
		return utils.BadRequest(c, msg)
	}

	courseID, err := paramID(c, "course_id")
	if err != nil {
		return utils.NotFound(c, "Course not found")
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	userID, ok := utils.CurrentUserID(c)
	if !ok || userID != course.TeacherID {
		return utils.Forbidden(c, "Only the course teacher can create announcements")
	}

	announcement := models.Announcement{
		CourseID:  course.ID,
		Title:     input.Title,
		Content:   input.Content,
		StartDate: start,
		EndDate:   end,
		CreatedBy: userID,
	}
	if err := ac.DB.Create(&announcement).Error; err != nil {
		log.Error().Err(err).Uint("course_id", course.ID).Msg("create announcement")
		return utils.InternalServerError(c, "Could not create announcement")
	}

	return utils.Created(c, "Announcement created successfully", announcement.ID)
}

// ShowAnnouncements godoc
// @Summary Show active announcements
// @Description Announcements whose [start_date, end_date] window contains the current time
// @Tags announcements
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {array} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/courses/{course_id}/announcements [get]
func (ac *AnnouncementController) ShowAnnouncements(c *fiber.Ctx) error {
	courseID, err := paramID(c, "course_id")
	if err != nil {
		return utils.NotFound(c, "Course not found")
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var announcements []models.Announcement
	if err := ac.DB.Where("course_id = ?", course.ID).Order("start_date DESC, id DESC").Find(&announcements).Error; err != nil {
		log.Error().Err(err).Uint("course_id", course.ID).Msg("show announcements")
		return utils.InternalServerError(c, "Could not query database")
	}

	now := time.Now()
	active := make([]fiber.Map, 0, len(announcements))
	for _, a := range announcements {
		if !a.IsActive(now) {
			continue
		}
		active = append(active, fiber.Map{
			"id":         a.ID,
			"title":      a.Title,
			"content":    a.Content,
			"start_date": a.StartDate,
			"end_date":   a.EndDate,
			"is_active":  true,
		})
	}

	return c.JSON(active)
}

// loadOwned fetches the announcement and checks that the requester created it.
// A non-zero status means the request must stop with that status and message.
func (ac *AnnouncementController) loadOwned(c *fiber.Ctx, action string) (*models.Announcement, int, string) {
	id, err := paramID(c, "announcement_id")
	if err != nil {
		return nil, fiber.StatusNotFound, "Announcement not found"
	}

	var announcement models.Announcement
	if err := ac.DB.First(&announcement, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, fiber.StatusNotFound, "Announcement not found"
		}
		return nil, fiber.StatusInternalServerError, "Could not query database"
	}

	userID, ok := utils.CurrentUserID(c)
	if !ok || userID != announcement.CreatedBy {
		return nil, fiber.StatusForbidden, "Only the course teacher can " + action + " announcements"
	}

	return &announcement, 0, ""
}

// EditAnnouncement godoc
// @Summary Edit an announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param announcement_id path int true "Announcement ID"
// @Param input body AnnouncementRequest true "Announcement"
// @Success 200 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/announcements/{announcement_id} [put]
func (ac *AnnouncementController) EditAnnouncement(c *fiber.Ctx) error {
	announcement, status, msg := ac.loadOwned(c, "edit")
	if status != 0 {
		return utils.Error(c, status, msg)
	}

	var input AnnouncementRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}
	if err := utils.Validate(input); err != nil {
		return utils.BadRequest(c, "All fields are required")
	}
	start, end, msg := input.window()
	if msg != "" {
		return utils.BadRequest(c, msg)
	}

	announcement.Title = input.Title
	announcement.Content = input.Content
	announcement.StartDate = start
	announcement.EndDate = end

	if err := ac.DB.Save(announcement).Error; err != nil {
		log.Error().Err(err).Uint("announcement_id", announcement.ID).Msg("edit announcement")
		return utils.InternalServerError(c, "Could not update announcement")
	}

	return utils.Message(c, fiber.StatusOK, "Announcement updated successfully")
}

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags announcements
// @Produce json
// @Param announcement_id path int true "Announcement ID"
// @Success 200 {object} utils.MessageResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/announcements/{announcement_id} [delete]
func (ac *AnnouncementController) DeleteAnnouncement(c *fiber.Ctx) error {
	announcement, status, msg := ac.loadOwned(c, "delete")
	if status != 0 {
		return utils.Error(c, status, msg)
	}

	if err := ac.DB.Delete(announcement).Error; err != nil {
		log.Error().Err(err).Uint("announcement_id", announcement.ID).Msg("delete announcement")
		return utils.InternalServerError(c, "Could not delete announcement")
	}

	return utils.Message(c, fiber.StatusOK, "Announcement deleted successfully")
}
