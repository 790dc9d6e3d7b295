package routes

import (
	"simplelms/backend/config"
	"simplelms/backend/controllers"
	_ "simplelms/backend/docs"
	"simplelms/backend/middleware"
	"simplelms/backend/utils"
	"simplelms/backend/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"gorm.io/gorm"
)

// NewApp builds the Fiber application with middleware and every route mounted.
func NewApp(db *gorm.DB, cfg *config.Config, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Simple LMS",
		Views:        views.NewEngine(),
		ErrorHandler: utils.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.RequestIDHeader,
	}))
	app.Use(middleware.LoggingMiddleware(logger))
	app.Use(middleware.OptionalAuth(cfg))

	SetupRoutes(app, db, cfg)
	return app
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.SendString("<h1>Hello World Simple LMS</h1>")
	})
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	staffMiddleware := middleware.StaffMiddleware(db)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)
	app.Get("/api/user/courses", authMiddleware, userController.GetUserCourses)

	// Analytics routes
	analyticsController := controllers.NewAnalyticsController(db, cfg)
	app.Get("/api/users/:user_id/activity", analyticsController.UserActivityDashboard)
	app.Get("/api/courses/:course_id/analytics", analyticsController.CourseAnalytics)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg)
	app.Get("/api/courses", coursesController.ListCourses)
	app.Post("/api/courses", authMiddleware, coursesController.CreateCourse)
	app.Get("/api/courses/:course_id/contents", coursesController.ListCourseContents)
	app.Post("/api/courses/:course_id/contents", authMiddleware, coursesController.AddContent)

	// Comments routes
	commentsController := controllers.NewCommentsController(db, cfg)
	app.Get("/api/contents/:content_id/comments", commentsController.ListComments)
	app.Post("/api/contents/:content_id/comments", authMiddleware, commentsController.AddComment)
	app.Post("/api/contents/:content_id/comments/:comment_id/moderate", commentsController.ModerateComment)

	// Enrollment routes
	enrollmentController := controllers.NewEnrollmentController(db, cfg)
	app.Post("/api/enroll", enrollmentController.EnrollStudent)

	admin := app.Group("/admin", authMiddleware, staffMiddleware)
	admin.Get("/batch-enroll", enrollmentController.BatchEnrollForm)
	admin.Post("/batch-enroll", enrollmentController.BatchEnroll)

	// Announcements routes
	announcementController := controllers.NewAnnouncementController(db, cfg)
	app.Post("/api/courses/:course_id/announcements", announcementController.CreateAnnouncement)
	app.Get("/api/courses/:course_id/announcements", announcementController.ShowAnnouncements)
	app.Put("/api/announcements/:announcement_id", announcementController.EditAnnouncement)
	app.Delete("/api/announcements/:announcement_id", announcementController.DeleteAnnouncement)

	// Categories routes
	categoryController := controllers.NewCategoryController(db, cfg)
	app.Post("/api/categories", categoryController.CreateCategory)
	app.Get("/api/categories", categoryController.ShowCategories)
	app.Delete("/api/categories/:category_id", categoryController.DeleteCategory)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg)
	app.Get("/api/certificates/:user_id/:course_id", progressController.CourseCertificate)
	app.All("/api/contents/complete", authMiddleware, staffMiddleware, progressController.MarkContentCompleted)
}
