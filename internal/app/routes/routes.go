package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/projecttracker/internal/app/controllers"
	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/middleware"
	"github.com/yigit/projecttracker/internal/pkg/logger"
	"github.com/yigit/projecttracker/internal/pkg/validation"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	projectController *controllers.ProjectController,
	studentController *controllers.StudentController,
	supervisorController *controllers.SupervisorController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	if err := validation.RegisterGinValidators(); err != nil {
		logger.Error().Err(err).Msg("Failed to register request validators")
	}

	router.NoRoute(middleware.NoRoute())

	api := router.Group("/api")
	api.GET("/health", controllers.Health)

	protect := authMiddleware.JWTAuth()
	student := authMiddleware.RoleRequired(models.RoleStudent)
	supervisor := authMiddleware.RoleRequired(models.RoleSupervisor)

	// --- Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", protect, authController.Me)
	}

	// --- Project routes ---
	projects := api.Group("/projects", protect)
	{
		projects.POST("", student, projectController.CreateProject)
		projects.GET("", projectController.GetProjects)
		projects.GET("/students/me/projects", student, projectController.GetMyProjects)
		projects.GET("/supervisors/me/projects", supervisor, projectController.GetSupervisedProjects)
		projects.GET("/:id", projectController.GetProject)
		projects.PUT("/:id", projectController.UpdateProject)
		projects.DELETE("/:id", student, projectController.DeleteProject)
		projects.PUT("/:id/review", supervisor, projectController.ReviewProject)
		projects.PUT("/:id/documentation", student, projectController.UploadDocumentation)
	}

	// --- Student routes ---
	students := api.Group("/students", protect)
	{
		students.GET("", authMiddleware.RoleRequired(models.RoleSupervisor, models.RoleAdmin), studentController.GetStudents)
		students.GET("/:id", studentController.GetStudent)
		students.PUT("/:id", student, studentController.UpdateStudent)
		students.DELETE("/:id", student, studentController.DeleteStudent)
	}

	// --- Supervisor routes ---
	supervisors := api.Group("/supervisors", protect)
	{
		supervisors.GET("", supervisorController.GetSupervisors)
		supervisors.GET("/:id", supervisorController.GetSupervisor)
		supervisors.PUT("/:id", supervisor, supervisorController.UpdateSupervisor)
		supervisors.DELETE("/:id", supervisor, supervisorController.DeleteSupervisor)
	}

	// --- Admin routes ---
	admin := api.Group("/admin", protect, authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/assign-student", adminController.AssignStudent)
		admin.GET("/users", adminController.GetUsers)
		admin.POST("/create-admin", adminController.CreateAdmin)
		admin.GET("/projects", adminController.GetProjects)
		admin.PUT("/projects/:id/status", adminController.UpdateProjectStatus)
		admin.DELETE("/users/:id", adminController.DeleteUser)
		admin.GET("/stats", adminController.GetStats)
	}
}
