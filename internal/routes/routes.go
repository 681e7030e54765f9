package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/smartschool/admin-backend/internal/config"
	"github.com/smartschool/admin-backend/internal/handlers"
	"github.com/smartschool/admin-backend/internal/middleware"
	"gorm.io/gorm"
)

// Setup registers the legacy API surface. Route paths and verbs are kept
// compatible with the previous deployment so existing clients keep working.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	orgHandler *handlers.OrganizationHandler,
	studentHandler *handlers.StudentHandler,
	healthHandler *handlers.HealthHandler,
) {
	// General API rate limiter: 60 req/min per IP
	apiLimiter := limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	app.Get("/api/health", healthHandler.Check)

	jwt := middleware.JWTProtected(cfg)
	admin := middleware.RequireAdmin(db)
	globalAdmin := middleware.RequireGlobalAdmin(db)
	canCreate := middleware.RequireCan(db, middleware.ActionCreate)
	canUpdate := middleware.RequireCan(db, middleware.ActionUpdate)
	canDelete := middleware.RequireCan(db, middleware.ActionDelete)

	// Auth & user management
	user := app.Group("/auth/v1/user", apiLimiter)

	user.Post("/signin", authLimiter, authHandler.SignIn)
	user.Post("/signup", authLimiter, authHandler.SignUp)
	user.Post("/forgot-password", authLimiter, authHandler.ForgotPassword)
	user.Put("/reset-password", authLimiter, authHandler.ResetPassword)
	user.Put("/set-user-password", authLimiter, authHandler.SetPassword)

	user.Get("/get-user-details", jwt, authHandler.Me)
	user.Get("/get-all-users/:organizationId", jwt, admin, userHandler.List)
	user.Post("/add-user/:organizationId", jwt, admin, canCreate, userHandler.Invite)
	user.Post("/reinvite/:userId", jwt, admin, userHandler.Reinvite)
	user.Put("/update-user-details/:userId", jwt, canUpdate, userHandler.Update)
	user.Delete("/delete-user/:organizationId/user/:userId", jwt, admin, canDelete, userHandler.Delete)

	// Organization management
	org := app.Group("/organization-service/v1/organization", apiLimiter, jwt)

	org.Get("/get-all-organizations", middleware.LoadUser(db), orgHandler.List)
	org.Post("/create-organization", globalAdmin, canCreate, orgHandler.Create)
	org.Put("/update-organization/:organizationId", admin, canUpdate, orgHandler.Update)
	org.Delete("/delete-organization/:organizationId", globalAdmin, orgHandler.Delete)
	org.Post("/add-user-to-organization/:organizationId/user/:userId", admin, canUpdate, orgHandler.AddUser)
	org.Delete("/remove-user/:organizationId/user/:userId", admin, canDelete, orgHandler.RemoveUser)

	// Student profiles (org-scoped)
	student := app.Group("/student-service/v1/student/:organizationId", apiLimiter, jwt, admin)

	student.Get("/get-parent-profile/:email", studentHandler.GetParent)
	student.Post("/add-student-profile", canCreate, studentHandler.Create)
	student.Get("/get-student-profile", studentHandler.List)
	student.Get("/get-student-by-id/:studentId", studentHandler.GetByID)
	student.Put("/edit-student-profile/:studentId", canUpdate, studentHandler.Edit)
}
