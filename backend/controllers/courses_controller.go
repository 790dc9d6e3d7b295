package controllers

import (
	"strings"
	"time"

	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

type CreateCourseRequest struct {
	Name        string          `json:"name" validate:"required" example:"Belajar Django"`
	Description string          `json:"description" example:"Belajar Django dengan Mudah"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"1000000"`
	MaxStudents *int            `json:"max_students" validate:"omitempty,gte=0" example:"30"`
}

type CreateContentRequest struct {
	Name               string `json:"name" validate:"required"`
	Description        string `json:"description"`
	VideoURL           string `json:"video_url"`
	FileAttachment     string `json:"file_attachment"`
	ScheduledStartTime string `json:"scheduled_start_time" example:"2024-09-01T08:00:00Z"`
	ScheduledEndTime   string `json:"scheduled_end_time" example:"2024-12-20T17:00:00Z"`
}

// ListCourses godoc
// @Summary List courses
// @Description Lists every course; `search` filters on name and description
// @Tags courses
// @Produce json
// @Param search query string false "Search term"
// @Param sort query string false "Sort order" Enums(oldest, newest, popularity)
// @Success 200 {array} map[string]interface{}
// @Router /api/courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Course{}).Preload("Teacher")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	switch c.Query("sort", "oldest") {
	case "newest":
		query = query.Order("created_at DESC, id DESC")
	case "popularity":
		query = query.Order("(SELECT COUNT(*) FROM course_members WHERE course_members.course_id = courses.id AND course_members.deleted_at IS NULL) DESC, id")
	default:
		query = query.Order("id")
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		log.Error().Err(err).Msg("list courses")
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":           course.ID,
			"name":         course.Name,
			"description":  course.Description,
			"price":        course.Price,
			"max_students": course.MaxStudents,
			"teacher": fiber.Map{
				"id":       course.TeacherID,
				"username": course.Teacher.Username,
			},
			"created_at": course.CreatedAt,
		})
	}

	return c.JSON(result)
}

// CreateCourse godoc
// @Summary Create a course
// @Description The requester becomes the course teacher
// @Tags courses
// @Accept json
// @Produce json
// @Param input body CreateCourseRequest true "Course"
// @Success 201 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input CreateCourseRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}
	if err := utils.Validate(input); err != nil {
		return utils.BadRequest(c, "Course name is required and max_students must not be negative")
	}

	course := models.Course{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		TeacherID:   userID,
		MaxStudents: input.MaxStudents,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		log.Error().Err(err).Msg("create course")
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.Created(c, "Course created successfully", course.ID)
}

// ListCourseContents godoc
// @Summary List scheduled course contents
// @Description Contents whose scheduled start has passed, with their current availability
// @Tags contents
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {array} map[string]interface{}
// @Router /api/courses/{course_id}/contents [get]
func (cc *CoursesController) ListCourseContents(c *fiber.Ctx) error {
	courseID, err := paramID(c, "course_id")
	if err != nil {
		return c.JSON([]fiber.Map{})
	}

	now := time.Now().UTC()

	var contents []models.CourseContent
	if err := cc.DB.Preload("Course").
		Where("course_id = ? AND scheduled_start_time <= ?", courseID, now).
		Order("scheduled_start_time, id").
		Find(&contents).Error; err != nil {
		log.Error().Err(err).Uint("course_id", courseID).Msg("list course contents")
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(contents))
	for _, content := range contents {
		result = append(result, fiber.Map{
			"id":                   content.ID,
			"name":                 content.Name,
			"description":          content.Description,
			"scheduled_start_time": content.ScheduledStartTime,
			"scheduled_end_time":   content.ScheduledEndTime,
			"is_available":         content.IsAvailable(now),
			"course": fiber.Map{
				"id":   content.Course.ID,
				"name": content.Course.Name,
			},
		})
	}

	return c.JSON(result)
}

// AddContent godoc
// @Summary Add content to a course
// @Tags contents
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param input body CreateContentRequest true "Content"
// @Success 201 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/courses/{course_id}/contents [post]
func (cc *CoursesController) AddContent(c *fiber.Ctx) error {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := paramID(c, "course_id")
	if err != nil {
		return utils.NotFound(c, "Course not found")
	}

	var input CreateContentRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}
	if err := utils.Validate(input); err != nil {
		return utils.BadRequest(c, "Content name is required")
	}

	content := models.CourseContent{
		CourseID:       courseID,
		Name:           input.Name,
		Description:    input.Description,
		VideoURL:       input.VideoURL,
		FileAttachment: input.FileAttachment,
	}

	if input.ScheduledStartTime != "" {
		start, err := parseDateTime(input.ScheduledStartTime)
		if err != nil {
			return utils.BadRequest(c, "Invalid scheduled_start_time")
		}
		content.ScheduledStartTime = &start
	}
	if input.ScheduledEndTime != "" {
		end, err := parseDateTime(input.ScheduledEndTime)
		if err != nil {
			return utils.BadRequest(c, "Invalid scheduled_end_time")
		}
		content.ScheduledEndTime = &end
	}
	if content.ScheduledStartTime != nil && content.ScheduledEndTime != nil &&
		content.ScheduledEndTime.Before(*content.ScheduledStartTime) {
		return utils.BadRequest(c, "scheduled_end_time must not be before scheduled_start_time")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if course.TeacherID != userID {
		return utils.Forbidden(c, "Only the course teacher can add contents")
	}

	if err := cc.DB.Create(&content).Error; err != nil {
		log.Error().Err(err).Uint("course_id", courseID).Msg("add content")
		return utils.InternalServerError(c, "Could not create content")
	}

	return utils.Created(c, "Content created successfully", content.ID)
}
