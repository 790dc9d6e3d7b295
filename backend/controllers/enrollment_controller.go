package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")
	ErrCourseFull      = errors.New("course is full")
)

type EnrollmentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEnrollmentController(db *gorm.DB, cfg *config.Config) *EnrollmentController {
	return &EnrollmentController{DB: db, Cfg: cfg}
}

// EnrollRequest takes ids as JSON numbers or numeric strings.
type EnrollRequest struct {
	CourseID json.Number `json:"course_id" swaggertype:"integer" example:"1"`
	UserID   json.Number `json:"user_id" swaggertype:"integer" example:"2"`
}

func (r EnrollRequest) ids() (uint, uint, error) {
	parse := func(n json.Number) (uint, error) {
		if n == "" {
			return 0, nil
		}
		id, err := strconv.ParseUint(n.String(), 10, 64)
		return uint(id), err
	}

	courseID, err := parse(r.CourseID)
	if err != nil {
		return 0, 0, err
	}
	userID, err := parse(r.UserID)
	if err != nil {
		return 0, 0, err
	}
	return courseID, userID, nil
}

// lockCourse loads the course inside tx and holds its row lock until the
// transaction ends, so concurrent enrollments count members one at a time.
func lockCourse(tx *gorm.DB, courseID uint) (models.Course, error) {
	var course models.Course
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, courseID).Error
	if utils.IsNotFound(err) {
		return course, ErrCourseNotFound
	}
	return course, err
}

func countMembers(tx *gorm.DB, courseID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.CourseMember{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// EnrollStudent godoc
// @Summary Enroll a student in a course
// @Tags enrollment
// @Accept json
// @Produce json
// @Param input body EnrollRequest true "Course and user"
// @Success 201 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/enroll [post]
func (ec *EnrollmentController) EnrollStudent(c *fiber.Ctx) error {
	var input EnrollRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}

	courseID, userID, err := input.ids()
	if err != nil {
		return utils.BadRequest(c, "course_id and user_id must be positive integers")
	}
	if courseID == 0 || userID == 0 {
		return utils.BadRequest(c, "Missing course_id or user_id")
	}

	err = ec.DB.Transaction(func(tx *gorm.DB) error {
		course, err := lockCourse(tx, courseID)
		if err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if utils.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.CourseMember{}).
			Where("course_id = ? AND user_id = ?", course.ID, user.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyEnrolled
		}

		enrolled, err := countMembers(tx, course.ID)
		if err != nil {
			return err
		}
		if !models.HasCapacity(course.MaxStudents, enrolled, 1) {
			return ErrCourseFull
		}

		return tx.Create(&models.CourseMember{
			CourseID: course.ID,
			UserID:   user.ID,
			Role:     models.RoleStudent,
		}).Error
	})

	switch {
	case err == nil:
		return utils.Message(c, fiber.StatusCreated, "Student enrolled successfully")
	case errors.Is(err, ErrAlreadyEnrolled):
		return utils.BadRequest(c, "Student is already enrolled in this course")
	case errors.Is(err, ErrCourseFull):
		return utils.BadRequest(c, "Course is full")
	case errors.Is(err, ErrCourseNotFound):
		return utils.NotFound(c, fmt.Sprintf("Course with id %d does not exist", courseID))
	case errors.Is(err, ErrUserNotFound):
		return utils.NotFound(c, fmt.Sprintf("User with id %d does not exist", userID))
	case utils.IsIntegrityError(err):
		return utils.InternalServerError(c, fmt.Sprintf("Database error: %v", err))
	default:
		log.Error().Err(err).Uint("course_id", courseID).Uint("user_id", userID).Msg("enroll student")
		return utils.InternalServerError(c, fmt.Sprintf("Database error: %v", err))
	}
}

type batchEnrollPage struct {
	Courses          []models.Course
	Students         []models.User
	SelectedCourse   uint
	SelectedStudents []uint
	Success          string
	Error            string
}

func (ec *EnrollmentController) renderBatchForm(c *fiber.Ctx, status int, page batchEnrollPage) error {
	if err := ec.DB.Order("name").Find(&page.Courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if err := ec.DB.Where("is_staff = ?", false).Order("username").Find(&page.Students).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return c.Status(status).Render("batch_enroll", page)
}

// BatchEnrollForm godoc
// @Summary Batch enrollment form
// @Tags admin
// @Produce html
// @Success 200 {string} string "HTML form"
// @Security ApiKeyAuth
// @Router /admin/batch-enroll [get]
func (ec *EnrollmentController) BatchEnrollForm(c *fiber.Ctx) error {
	return ec.renderBatchForm(c, fiber.StatusOK, batchEnrollPage{})
}

// BatchEnroll godoc
// @Summary Enroll several students at once
// @Description All-or-nothing: either every missing membership is created or none
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce html
// @Param course formData int true "Course ID"
// @Param students formData []int true "Student IDs" collectionFormat(multi)
// @Success 200 {string} string "HTML page"
// @Failure 400 {string} string "HTML page with errors"
// @Security ApiKeyAuth
// @Router /admin/batch-enroll [post]
func (ec *EnrollmentController) BatchEnroll(c *fiber.Ctx) error {
	page := batchEnrollPage{}

	courseID, err := strconv.ParseUint(c.FormValue("course"), 10, 64)
	if err != nil || courseID == 0 {
		page.Error = "Select a valid course."
		return ec.renderBatchForm(c, fiber.StatusBadRequest, page)
	}
	page.SelectedCourse = uint(courseID)

	studentIDs, err := formIDs(c, "students")
	if err != nil || len(studentIDs) == 0 {
		page.Error = "Select at least one valid student."
		return ec.renderBatchForm(c, fiber.StatusBadRequest, page)
	}
	page.SelectedStudents = studentIDs

	var students []models.User
	if err := ec.DB.Where("id IN ? AND is_staff = ?", studentIDs, false).Find(&students).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if len(students) != len(studentIDs) {
		page.Error = "Select a valid choice. One or more students are not available."
		return ec.renderBatchForm(c, fiber.StatusBadRequest, page)
	}

	var created int
	err = ec.DB.Transaction(func(tx *gorm.DB) error {
		course, err := lockCourse(tx, page.SelectedCourse)
		if err != nil {
			return err
		}

		var enrolledIDs []uint
		if err := tx.Model(&models.CourseMember{}).
			Where("course_id = ? AND user_id IN ?", course.ID, studentIDs).
			Pluck("user_id", &enrolledIDs).Error; err != nil {
			return err
		}
		already := make(map[uint]bool, len(enrolledIDs))
		for _, id := range enrolledIDs {
			already[id] = true
		}

		var members []models.CourseMember
		for _, student := range students {
			if !already[student.ID] {
				members = append(members, models.CourseMember{
					CourseID: course.ID,
					UserID:   student.ID,
					Role:     models.RoleStudent,
				})
			}
		}

		enrolled, err := countMembers(tx, course.ID)
		if err != nil {
			return err
		}
		if !models.HasCapacity(course.MaxStudents, enrolled, len(members)) {
			return ErrCourseFull
		}

		for i := range members {
			if err := tx.Create(&members[i]).Error; err != nil {
				return err
			}
		}
		created = len(members)
		return nil
	})

	switch {
	case err == nil:
		log.Info().Uint("course_id", page.SelectedCourse).Int("created", created).Msg("batch enroll")
		page.Success = "Students enrolled successfully"
		page.SelectedStudents = nil
		return ec.renderBatchForm(c, fiber.StatusOK, page)
	case errors.Is(err, ErrCourseFull):
		page.Error = "Not enough slots available for all students"
	case errors.Is(err, ErrCourseNotFound):
		page.Error = "Select a valid course."
	default:
		log.Error().Err(err).Uint("course_id", page.SelectedCourse).Msg("batch enroll")
		page.Error = "Could not enroll students, no changes were saved."
		return ec.renderBatchForm(c, fiber.StatusInternalServerError, page)
	}

	return ec.renderBatchForm(c, fiber.StatusBadRequest, page)
}

// formIDs reads a repeated form field ("students=1&students=2") from either
// an urlencoded or a multipart body.
func formIDs(c *fiber.Ctx, key string) ([]uint, error) {
	var raw []string
	if form, err := c.MultipartForm(); err == nil {
		raw = form.Value[key]
	} else {
		for _, v := range c.Request().PostArgs().PeekMulti(key) {
			raw = append(raw, string(v))
		}
	}

	seen := make(map[uint]bool, len(raw))
	ids := make([]uint, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid %s value %q", key, v)
		}
		if !seen[uint(id)] {
			seen[uint(id)] = true
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}
