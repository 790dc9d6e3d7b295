package controllers

import (
	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CommentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCommentsController(db *gorm.DB, cfg *config.Config) *CommentsController {
	return &CommentsController{DB: db, Cfg: cfg}
}

type AddCommentRequest struct {
	Comment string `json:"comment" validate:"required" example:"Great lesson!"`
}

type ModerateCommentRequest struct {
	IsApproved *bool `json:"is_approved" example:"true"`
}

// ListComments godoc
// @Summary List approved comments
// @Description Returns the approved comments of a course content
// @Tags comments
// @Produce json
// @Param content_id path int true "Content ID"
// @Success 200 {array} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/contents/{content_id}/comments [get]
func (cc *CommentsController) ListComments(c *fiber.Ctx) error {
	contentID, err := paramID(c, "content_id")
	if err != nil {
		return utils.NotFound(c, "No approved comments found for this content.")
	}

	var comments []models.Comment
	if err := cc.DB.Preload("User").
		Where("content_id = ? AND is_approved = ?", contentID, true).
		Order("created_at").
		Find(&comments).Error; err != nil {
		log.Error().Err(err).Uint("content_id", contentID).Msg("list comments")
		return utils.InternalServerError(c, "Could not fetch comments")
	}

	if len(comments) == 0 {
		return utils.NotFound(c, "No approved comments found for this content.")
	}

	result := make([]fiber.Map, 0, len(comments))
	for _, comment := range comments {
		result = append(result, fiber.Map{
			"id":          comment.ID,
			"content_id":  comment.ContentID,
			"user_id":     comment.UserID,
			"username":    comment.User.Username,
			"comment":     comment.Comment,
			"is_approved": comment.IsApproved,
			"created_at":  comment.CreatedAt,
		})
	}

	return c.JSON(result)
}

// AddComment godoc
// @Summary Comment on a course content
// @Description Members of the course can comment; comments wait for moderation
// @Tags comments
// @Accept json
// @Produce json
// @Param content_id path int true "Content ID"
// @Param input body AddCommentRequest true "Comment"
// @Success 201 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/contents/{content_id}/comments [post]
func (cc *CommentsController) AddComment(c *fiber.Ctx) error {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	contentID, err := paramID(c, "content_id")
	if err != nil {
		return utils.NotFound(c, "Content not found")
	}

	var input AddCommentRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}
	if err := utils.Validate(input); err != nil {
		return utils.BadRequest(c, "comment field is required")
	}

	var content models.CourseContent
	if err := cc.DB.First(&content, contentID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "Content not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var course models.Course
	if err := cc.DB.First(&course, content.CourseID).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if course.TeacherID != userID {
		var members int64
		if err := cc.DB.Model(&models.CourseMember{}).
			Where("course_id = ? AND user_id = ?", content.CourseID, userID).
			Count(&members).Error; err != nil {
			log.Error().Err(err).Uint("content_id", content.ID).Msg("add comment: membership check")
			return utils.InternalServerError(c, "Could not query database")
		}
		if members == 0 {
			return utils.Forbidden(c, "Only course members can comment")
		}
	}

	comment := models.Comment{
		ContentID: content.ID,
		UserID:    userID,
		Comment:   input.Comment,
	}
	if err := cc.DB.Create(&comment).Error; err != nil {
		log.Error().Err(err).Msg("add comment")
		return utils.InternalServerError(c, "Could not create comment")
	}

	return utils.Created(c, "Comment submitted for moderation", comment.ID)
}

// ModerateComment godoc
// @Summary Approve or reject a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param content_id path int true "Content ID"
// @Param comment_id path int true "Comment ID"
// @Param input body ModerateCommentRequest true "Moderation decision"
// @Success 200 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/contents/{content_id}/comments/{comment_id}/moderate [post]
func (cc *CommentsController) ModerateComment(c *fiber.Ctx) error {
	contentID, err := paramID(c, "content_id")
	if err != nil {
		return utils.NotFound(c, "Comment not found")
	}
	commentID, err := paramID(c, "comment_id")
	if err != nil {
		return utils.NotFound(c, "Comment not found")
	}

	var comment models.Comment
	if err := cc.DB.Where("id = ? AND content_id = ?", commentID, contentID).First(&comment).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "Comment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input ModerateCommentRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}
	if input.IsApproved == nil {
		return utils.BadRequest(c, "is_approved field is required")
	}

	if err := cc.DB.Model(&comment).Update("is_approved", *input.IsApproved).Error; err != nil {
		log.Error().Err(err).Uint("comment_id", comment.ID).Msg("moderate comment")
		return utils.InternalServerError(c, "Could not update comment")
	}

	return utils.Message(c, fiber.StatusOK, "Comment updated successfully")
}
