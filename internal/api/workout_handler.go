package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/service"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler serves workout pages and the workout <-> exercise links.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// workoutForm keeps the checkbox as text: browsers post "on" unless the input sets a value.
type workoutForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	Public      string `form:"is_public"`
}

// IsPublic reports whether the public checkbox was ticked.
func (f workoutForm) IsPublic() bool {
	switch strings.ToLower(strings.TrimSpace(f.Public)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (f workoutForm) input() service.WorkoutInput {
	return service.WorkoutInput{Name: f.Name, Description: f.Description, IsPublic: f.IsPublic()}
}

func workoutFormFrom(w *domain.Workout) workoutForm {
	f := workoutForm{Name: w.Name, Description: domain.StringValue(w.Description)}
	if w.IsPublic {
		f.Public = "on"
	}
	return f
}

type workoutFormPage struct {
	ID        string
	Form      workoutForm
	Exercises []domain.WorkoutExercise
	// Adding opens the add-exercise panel; Options is only loaded while it is open.
	Adding  bool
	Options []domain.ExerciseOption
}

func (h *WorkoutHandler) renderList(c *gin.Context, status int, errMsg string) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context())
	if err != nil {
		workouts = nil
		if errMsg == "" {
			errMsg = listFailed(c, "workouts", err)
		}
	}
	render(c, status, "workouts.html", "Workouts", workouts, errMsg)
}

func (h *WorkoutHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, "")
}

func (h *WorkoutHandler) New(c *gin.Context) {
	render(c, http.StatusOK, "workout_form.html", "New workout", workoutFormPage{}, "")
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	var form workoutForm
	if err := bindForm(c, &form); err != nil {
		render(c, http.StatusBadRequest, "workout_form.html", "New workout", workoutFormPage{Form: form}, err.Error())
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), form.input())
	if err != nil {
		render(c, mutationStatus(c, err), "workout_form.html", "New workout", workoutFormPage{Form: form}, err.Error())
		return
	}
	// Straight to the detail page so exercises can be added.
	redirect(c, "/workouts/"+workout.ID.Hex())
}

// renderDetail loads the workout with its links and renders the edit page. When form is
// nil the form is seeded from the stored workout.
func (h *WorkoutHandler) renderDetail(c *gin.Context, status int, id primitive.ObjectID, form *workoutForm, adding bool, errMsg string) {
	ctx := c.Request.Context()
	detail, err := h.workoutService.GetWorkout(ctx, id)
	if err != nil {
		if isNotFound(err) {
			notFound(c)
			return
		}
		internalError(c, err)
		return
	}

	p := workoutFormPage{
		ID:        id.Hex(),
		Form:      workoutFormFrom(detail.Workout),
		Exercises: detail.Exercises,
		Adding:    adding,
	}
	if form != nil {
		p.Form = *form
	}
	if adding {
		if p.Options, err = h.workoutService.ExerciseOptions(ctx); err != nil && errMsg == "" {
			errMsg = listFailed(c, "exercises", err)
		}
	}
	render(c, status, "workout_form.html", "Edit workout", p, errMsg)
}

func (h *WorkoutHandler) Edit(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	h.renderDetail(c, http.StatusOK, id, nil, c.Query("adding") != "", "")
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var form workoutForm
	if err := bindForm(c, &form); err != nil {
		h.renderDetail(c, http.StatusBadRequest, id, &form, false, err.Error())
		return
	}

	if _, err := h.workoutService.UpdateWorkout(c.Request.Context(), id, form.input()); err != nil {
		if isNotFound(err) {
			notFound(c)
			return
		}
		h.renderDetail(c, mutationStatus(c, err), id, &form, false, err.Error())
		return
	}
	redirect(c, "/workouts")
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	err := h.workoutService.DeleteWorkout(c.Request.Context(), id)
	if err != nil && !isNotFound(err) {
		status := mutationStatus(c, err)
		if fromEditPage(c) {
			h.renderDetail(c, status, id, nil, false, err.Error())
			return
		}
		h.renderList(c, status, err.Error())
		return
	}
	redirect(c, "/workouts")
}

func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	// An empty or malformed selection becomes NilObjectID, which the service rejects.
	exerciseID, _ := primitive.ObjectIDFromHex(c.PostForm("exercise_id"))

	if _, err := h.workoutService.AddExercise(c.Request.Context(), id, exerciseID); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			notFound(c)
			return
		}
		h.renderDetail(c, mutationStatus(c, err), id, nil, true, err.Error())
		return
	}
	redirect(c, "/workouts/"+id.Hex())
}

func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	linkID, ok := objectIDParam(c, "linkId")
	if !ok {
		return
	}
	if err := h.workoutService.RemoveExercise(c.Request.Context(), id, linkID); err != nil && !isNotFound(err) {
		h.renderDetail(c, mutationStatus(c, err), id, nil, false, err.Error())
		return
	}
	redirect(c, "/workouts/"+id.Hex())
}
