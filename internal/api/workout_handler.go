package api

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workouts service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workouts service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

// --- Request/Response Structs ---

type SaveEntryRequest struct {
	Date     string  `json:"date" binding:"required"`
	Exercise string  `json:"exercise" binding:"required"`
	Weight   float64 `json:"weight" binding:"min=0"`
	Reps     int     `json:"reps" binding:"min=0"`
}

type EditEntryRequest struct {
	OriginalDate     string  `json:"originalDate" binding:"required"`
	OriginalExercise string  `json:"originalExercise" binding:"required"`
	Date             string  `json:"date" binding:"required"`
	Exercise         string  `json:"exercise" binding:"required"`
	Weight           float64 `json:"weight" binding:"min=0"`
	Reps             int     `json:"reps" binding:"min=0"`
}

// EntryResponse serializes dates in the canonical YYYY-MM-DD form.
type EntryResponse struct {
	Date     string  `json:"date"`
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

// --- Handler Methods ---

// ListExercises returns the distinct exercise names in the caller's log.
func (h *WorkoutHandler) ListExercises(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
		return
	}

	names, err := h.workouts.Exercises(c.Request.Context(), username)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": names})
}

// ListEntries returns the caller's log. With ?exercise= it returns only that
// exercise's entries, ascending by date, ready for charting.
func (h *WorkoutHandler) ListEntries(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
		return
	}

	var entries []domain.Entry
	if exercise := c.Query("exercise"); exercise != "" {
		entries, err = h.workouts.EntriesFor(c.Request.Context(), username, exercise)
	} else {
		entries, err = h.workouts.Log(c.Request.Context(), username)
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load workout log")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": mapEntriesToResponse(entries)})
}

// SaveEntry upserts one workout entry keyed by (date, exercise).
func (h *WorkoutHandler) SaveEntry(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
		return
	}

	var req SaveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid date %q, expected %s", req.Date, domain.DateLayout))
		return
	}

	entry, err := h.workouts.SaveEntry(c.Request.Context(), username, date, req.Exercise, req.Weight, req.Reps)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyExerciseName), errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to save workout entry")
		}
		return
	}

	c.JSON(http.StatusOK, mapEntryToResponse(*entry))
}

// EditEntry overwrites the entry matched by its pre-edit (date, exercise)
// pair. All four fields may change.
func (h *WorkoutHandler) EditEntry(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
		return
	}

	var req EditEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	origDate, err := domain.ParseDate(req.OriginalDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid original date %q, expected %s", req.OriginalDate, domain.DateLayout))
		return
	}
	newDate, err := domain.ParseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid date %q, expected %s", req.Date, domain.DateLayout))
		return
	}

	entry, err := h.workouts.EditEntry(c.Request.Context(), username, origDate, req.OriginalExercise, newDate, req.Exercise, req.Weight, req.Reps)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicateTarget):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrEmptyExerciseName), errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to edit workout entry")
		}
		return
	}

	c.JSON(http.StatusOK, mapEntryToResponse(*entry))
}

func mapEntryToResponse(e domain.Entry) EntryResponse {
	return EntryResponse{
		Date:     e.Date.Format(domain.DateLayout),
		Exercise: e.Exercise,
		Weight:   e.Weight,
		Reps:     e.Reps,
	}
}

func mapEntriesToResponse(entries []domain.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = mapEntryToResponse(e)
	}
	return out
}
