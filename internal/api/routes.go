package api

import (
	"alcyxob/gym-tracker/internal/repository"
	"alcyxob/gym-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	creds repository.CredentialRepository,
	accountService service.AccountService,
	workoutService service.WorkoutService,
) {
	authHandler := NewAuthHandler(accountService)
	workoutHandler := NewWorkoutHandler(workoutService)

	authMiddleware := AuthMiddleware(jwtSecret, creds)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			username, err := getUsernameFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"username": username})
		})

		// DELETE /api/v1/auth/account - password re-entry required in body
		protected.DELETE("/auth/account", authHandler.DeleteAccount)

		// --- Workout Routes ---
		// GET /api/v1/exercises - distinct exercise names for selection UI
		protected.GET("/exercises", workoutHandler.ListExercises)
		// GET /api/v1/entries[?exercise=Squat] - full log or one exercise's
		// series (ascending by date, chart-ready)
		protected.GET("/entries", workoutHandler.ListEntries)
		// POST /api/v1/entries - upsert keyed by (date, exercise)
		protected.POST("/entries", workoutHandler.SaveEntry)
		// PUT /api/v1/entries - point-edit matched by pre-edit key
		protected.PUT("/entries", workoutHandler.EditEntry)
	}
}
