package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-goal-tracker/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleDeleteAccount(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleListCategories(c *gin.Context)
	HandleGetCategory(c *gin.Context)
	HandleCreateCategory(c *gin.Context)
	HandleUpdateCategory(c *gin.Context)
	HandlePartialUpdateCategory(c *gin.Context)
	HandleDeleteCategory(c *gin.Context)

	HandleListGoals(c *gin.Context)
	HandleGetGoal(c *gin.Context)
	HandleCreateGoal(c *gin.Context)
	HandleUpdateGoal(c *gin.Context)
	HandlePartialUpdateGoal(c *gin.Context)
	HandleDeleteGoal(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandlePartialUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger     zerolog.Logger
	auth       services.AuthService
	sessions   services.SessionService
	categories services.CategoryService
	goals      services.GoalService
	tasks      services.TaskService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	categoryService services.CategoryService,
	goalService services.GoalService,
	taskService services.TaskService,
) Handler {
	registerValidatorHooks()
	return &handlerImpl{
		logger:     logger,
		auth:       authService,
		sessions:   sessionService,
		categories: categoryService,
		goals:      goalService,
		tasks:      taskService,
	}
}

// RegisterRoutes mounts the v1 API on router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	authRouter := router.Group("/auth")
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/refresh", h.HandleRefresh)
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)
	authRouter.DELETE("/account", h.HandleAuthMiddleware, h.HandleDeleteAccount)

	categoriesRouter := router.Group("/categories", h.HandleAuthMiddleware)
	categoriesRouter.GET("", h.HandleListCategories)
	categoriesRouter.POST("", h.HandleCreateCategory)
	categoriesRouter.GET("/:id", h.HandleGetCategory)
	categoriesRouter.PUT("/:id", h.HandleUpdateCategory)
	categoriesRouter.PATCH("/:id", h.HandlePartialUpdateCategory)
	categoriesRouter.DELETE("/:id", h.HandleDeleteCategory)

	goalsRouter := router.Group("/goals", h.HandleAuthMiddleware)
	goalsRouter.GET("", h.HandleListGoals)
	goalsRouter.POST("", h.HandleCreateGoal)
	goalsRouter.GET("/:id", h.HandleGetGoal)
	goalsRouter.PUT("/:id", h.HandleUpdateGoal)
	goalsRouter.PATCH("/:id", h.HandlePartialUpdateGoal)
	goalsRouter.DELETE("/:id", h.HandleDeleteGoal)

	tasksRouter := router.Group("/tasks", h.HandleAuthMiddleware)
	tasksRouter.GET("", h.HandleListTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.PUT("/:id", h.HandleUpdateTask)
	tasksRouter.PATCH("/:id", h.HandlePartialUpdateTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
}

// parseIDParam reads the :id path parameter. Malformed IDs are
// answered with 404 like any other unknown row.
func (h *handlerImpl) parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.logger.Info().
			Str("id", c.Param("id")).
			Msg("invalid id")
		abort(c, newNotFoundError())
		return 0, false
	}
	return id, true
}
