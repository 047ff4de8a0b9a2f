package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

// exerciseForm keeps the raw strings so a failed submit can be shown again unchanged.
type exerciseForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	PreviewURL  string `form:"preview_url"`
	Sets        string `form:"recommended_sets"`
	Reps        string `form:"recommended_reps"`
	RestSeconds string `form:"recommended_rest_seconds"`
}

type exerciseFormPage struct {
	ID   string
	Form exerciseForm
}

func optionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func exerciseFormFrom(e *domain.Exercise) exerciseForm {
	return exerciseForm{
		Name:        e.Name,
		Description: domain.StringValue(e.Description),
		PreviewURL:  domain.StringValue(e.PreviewURL),
		Sets:        optionalInt(e.RecommendedSets),
		Reps:        optionalInt(e.RecommendedReps),
		RestSeconds: optionalInt(e.RecommendedRestSeconds),
	}
}

// --- Handler Methods ---

func (h *ExerciseHandler) renderList(c *gin.Context, status int, errMsg string) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		exercises = nil
		if errMsg == "" {
			errMsg = listFailed(c, "exercises", err)
		}
	}
	render(c, status, "exercises.html", "Exercises", exercises, errMsg)
}

func (h *ExerciseHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, "")
}

func (h *ExerciseHandler) New(c *gin.Context) {
	render(c, http.StatusOK, "exercise_form.html", "New exercise", exerciseFormPage{}, "")
}

// bindInput reads the form and the optional preview upload.
func (h *ExerciseHandler) bindInput(c *gin.Context) (exerciseForm, service.ExerciseInput, func(), error) {
	var form exerciseForm
	if err := bindForm(c, &form); err != nil {
		return form, service.ExerciseInput{}, func() {}, err
	}
	file, closeFile, err := formFile(c, "preview_file")
	in := service.ExerciseInput{
		Name:        form.Name,
		Description: form.Description,
		PreviewURL:  form.PreviewURL,
		Preview:     file,
		Sets:        form.Sets,
		Reps:        form.Reps,
		RestSeconds: form.RestSeconds,
	}
	return form, in, closeFile, err
}

func (h *ExerciseHandler) Create(c *gin.Context) {
	form, in, closeFile, err := h.bindInput(c)
	defer closeFile()
	if err == nil {
		_, err = h.exerciseService.CreateExercise(c.Request.Context(), in)
	}
	if err != nil {
		render(c, mutationStatus(c, err), "exercise_form.html", "New exercise", exerciseFormPage{Form: form}, err.Error())
		return
	}
	redirect(c, "/exercises")
}

func (h *ExerciseHandler) Edit(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), id)
	if err != nil {
		if isNotFound(err) {
			notFound(c)
			return
		}
		internalError(c, err)
		return
	}
	render(c, http.StatusOK, "exercise_form.html", "Edit exercise", exerciseFormPage{ID: id.Hex(), Form: exerciseFormFrom(exercise)}, "")
}

func (h *ExerciseHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	form, in, closeFile, err := h.bindInput(c)
	defer closeFile()
	if err == nil {
		_, err = h.exerciseService.UpdateExercise(c.Request.Context(), id, in)
	}
	if err != nil {
		if isNotFound(err) {
			notFound(c)
			return
		}
		render(c, mutationStatus(c, err), "exercise_form.html", "Edit exercise", exerciseFormPage{ID: id.Hex(), Form: form}, err.Error())
		return
	}
	redirect(c, "/exercises")
}

func (h *ExerciseHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	err := h.exerciseService.DeleteExercise(c.Request.Context(), id)
	if err != nil && !isNotFound(err) {
		status := mutationStatus(c, err)
		if fromEditPage(c) {
			var form exerciseForm
			if exercise, getErr := h.exerciseService.GetExercise(c.Request.Context(), id); getErr == nil {
				form = exerciseFormFrom(exercise)
			}
			render(c, status, "exercise_form.html", "Edit exercise", exerciseFormPage{ID: id.Hex(), Form: form}, err.Error())
			return
		}
		h.renderList(c, status, err.Error())
		return
	}
	redirect(c, "/exercises")
}
