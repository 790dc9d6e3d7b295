package controllers

import (
	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{DB: db, Cfg: cfg}
}

// CourseAnalytics godoc
// @Summary Course statistics
// @Description Members, contents, comments, announcements and completion rate of a course
// @Tags analytics
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} models.CourseStats
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/courses/{course_id}/analytics [get]
func (ac *AnalyticsController) CourseAnalytics(c *fiber.Ctx) error {
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

	stats := models.CourseStats{CourseID: course.ID, CourseName: course.Name}
	contents := ac.DB.Model(&models.CourseContent{}).Select("id").Where("course_id = ?", course.ID)

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.MemberCount, ac.DB.Model(&models.CourseMember{}).Where("course_id = ?", course.ID)},
		{&stats.ContentCount, ac.DB.Model(&models.CourseContent{}).Where("course_id = ?", course.ID)},
		{&stats.CommentCount, ac.DB.Model(&models.Comment{}).Where("content_id IN (?)", contents)},
		{&stats.ApprovedComments, ac.DB.Model(&models.Comment{}).Where("content_id IN (?) AND is_approved = ?", contents, true)},
		{&stats.AnnouncementCount, ac.DB.Model(&models.Announcement{}).Where("course_id = ?", course.ID)},
		{&stats.CompletionCount, ac.DB.Model(&models.ContentCompletion{}).Where("content_id IN (?)", contents)},
	}
	for _, q := range counts {
		if err := q.query.Count(q.dst).Error; err != nil {
			log.Error().Err(err).Uint("course_id", course.ID).Msg("course analytics")
			return utils.InternalServerError(c, "Failed to compute course statistics")
		}
	}

	stats.CompletionRate = models.CompletionRate(stats.CompletionCount, stats.MemberCount, stats.ContentCount)
	stats.AvailableSlots = models.AvailableSlots(course.MaxStudents, stats.MemberCount)

	return c.JSON(stats)
}

// UserActivityDashboard godoc
// @Summary User activity statistics
// @Tags analytics
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.UserStats
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/users/{user_id}/activity [get]
func (ac *AnalyticsController) UserActivityDashboard(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return utils.NotFound(c, "User not found")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	stats := models.UserStats{UserID: user.ID, Username: user.Username}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.CoursesJoined, ac.DB.Model(&models.CourseMember{}).Where("user_id = ?", user.ID)},
		{&stats.CoursesTaught, ac.DB.Model(&models.Course{}).Where("teacher_id = ?", user.ID)},
		{&stats.CommentsPosted, ac.DB.Model(&models.Comment{}).Where("user_id = ?", user.ID)},
		{&stats.ContentsCompleted, ac.DB.Model(&models.ContentCompletion{}).Where("user_id = ?", user.ID)},
	}
	for _, q := range counts {
		if err := q.query.Count(q.dst).Error; err != nil {
			log.Error().Err(err).Uint("user_id", user.ID).Msg("user activity")
			return utils.InternalServerError(c, "Failed to compute user statistics")
		}
	}

	completed, err := ac.completedCourses(user.ID)
	if err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("user activity")
		return utils.InternalServerError(c, "Failed to compute user statistics")
	}
	stats.CoursesCompleted = completed

	return c.JSON(stats)
}

// completedCourses counts the courses the user joined and would get a certificate for.
func (ac *AnalyticsController) completedCourses(userID uint) (int64, error) {
	var courseIDs []uint
	if err := ac.DB.Model(&models.CourseMember{}).Where("user_id = ?", userID).Pluck("course_id", &courseIDs).Error; err != nil {
		return 0, err
	}

	var n int64
	for _, courseID := range courseIDs {
		var total, done int64
		if err := ac.DB.Model(&models.CourseContent{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
			return 0, err
		}
		contents := ac.DB.Model(&models.CourseContent{}).Select("id").Where("course_id = ?", courseID)
		if err := ac.DB.Model(&models.ContentCompletion{}).
			Where("user_id = ? AND content_id IN (?)", userID, contents).
			Count(&done).Error; err != nil {
			return 0, err
		}
		if models.CertificateEligible(total, done) {
			n++
		}
	}
	return n, nil
}
