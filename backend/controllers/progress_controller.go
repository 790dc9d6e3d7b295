package controllers

import (
	"strconv"
	"time"

	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const certificateNotReady = "<h2>Certificate is only available once all course contents are completed.</h2>"

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// MarkContentCompleted godoc
// @Summary Mark a content as completed
// @Description Idempotent: a second call for the same pair reports created=false
// @Tags progress
// @Accept x-www-form-urlencoded
// @Produce json
// @Param user_id formData int true "User ID"
// @Param content_id formData int true "Content ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/contents/complete [post]
func (pc *ProgressController) MarkContentCompleted(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return utils.BadRequest(c, "Invalid request")
	}

	userID, err := strconv.ParseUint(c.FormValue("user_id"), 10, 64)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}
	contentID, err := strconv.ParseUint(c.FormValue("content_id"), 10, 64)
	if err != nil {
		return utils.NotFound(c, "Content not found")
	}

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var content models.CourseContent
	if err := pc.DB.First(&content, contentID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "Content not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	completion := models.ContentCompletion{UserID: user.ID, ContentID: content.ID}
	result := pc.DB.Where("user_id = ? AND content_id = ?", user.ID, content.ID).FirstOrCreate(&completion)
	if result.Error != nil {
		if !utils.IsIntegrityError(result.Error) {
			log.Error().Err(result.Error).Uint("user_id", user.ID).Uint("content_id", content.ID).Msg("mark content completed")
			return utils.InternalServerError(c, "Could not save completion")
		}
		// Lost a race against an identical request; the row exists now.
		return c.JSON(fiber.Map{"success": true, "created": false})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"created": result.RowsAffected > 0,
	})
}

type certificatePage struct {
	UserName    string
	CourseName  string
	TeacherName string
	CompletedAt time.Time
}

// CourseCertificate godoc
// @Summary Course completion certificate
// @Description Rendered once the user has completed every content of the course
// @Tags progress
// @Produce html
// @Param user_id path int true "User ID"
// @Param course_id path int true "Course ID"
// @Success 200 {string} string "HTML certificate"
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/certificates/{user_id}/{course_id} [get]
func (pc *ProgressController) CourseCertificate(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return utils.NotFound(c, "User not found")
	}
	courseID, err := paramID(c, "course_id")
	if err != nil {
		return utils.NotFound(c, "Course not found")
	}

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var course models.Course
	if err := pc.DB.Preload("Teacher").First(&course, courseID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var total int64
	if err := pc.DB.Model(&models.CourseContent{}).Where("course_id = ?", course.ID).Count(&total).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	courseContents := pc.DB.Model(&models.CourseContent{}).Select("id").Where("course_id = ?", course.ID)

	var completed int64
	if err := pc.DB.Model(&models.ContentCompletion{}).
		Where("user_id = ? AND content_id IN (?)", user.ID, courseContents).
		Count(&completed).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	if !models.CertificateEligible(total, completed) {
		c.Type("html", "utf-8")
		return c.SendString(certificateNotReady)
	}

	var last models.ContentCompletion
	if err := pc.DB.Where("user_id = ? AND content_id IN (?)", user.ID, courseContents).
		Order("completed_at DESC").
		First(&last).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	log.Info().Uint("user_id", user.ID).Uint("course_id", course.ID).Msg("certificate issued")

	return c.Render("certificate", certificatePage{
		UserName:    user.DisplayName(),
		CourseName:  course.Name,
		TeacherName: course.Teacher.DisplayName(),
		CompletedAt: last.CompletedAt,
	})
}
