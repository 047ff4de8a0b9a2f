package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the category pages.
type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type categoryForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
}

func (f categoryForm) input() service.CategoryInput {
	return service.CategoryInput{Name: f.Name, Description: f.Description}
}

type categoryFormPage struct {
	ID   string
	Form categoryForm
}

func (h *CategoryHandler) renderList(c *gin.Context, status int, errMsg string) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		categories = nil
		if errMsg == "" {
			errMsg = listFailed(c, "categories", err)
		}
	}
	render(c, status, "categories.html", "Categories", categories, errMsg)
}

func (h *CategoryHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, "")
}

func (h *CategoryHandler) New(c *gin.Context) {
	render(c, http.StatusOK, "category_form.html", "New category", categoryFormPage{}, "")
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var form categoryForm
	if err := bindForm(c, &form); err != nil {
		render(c, http.StatusBadRequest, "category_form.html", "New category", categoryFormPage{Form: form}, err.Error())
		return
	}

	if _, err := h.categoryService.CreateCategory(c.Request.Context(), form.input()); err != nil {
		render(c, mutationStatus(c, err), "category_form.html", "New category", categoryFormPage{Form: form}, err.Error())
		return
	}
	redirect(c, "/categories")
}

func (h *CategoryHandler) Edit(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		if isNotFound(err) {
			notFound(c)
			return
		}
		internalError(c, err)
		return
	}
	render(c, http.StatusOK, "category_form.html", "Edit category", categoryFormPage{
		ID:   id.Hex(),
		Form: categoryForm{Name: category.Name, Description: domain.StringValue(category.Description)},
	}, "")
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var form categoryForm
	if err := bindForm(c, &form); err != nil {
		render(c, http.StatusBadRequest, "category_form.html", "Edit category", categoryFormPage{ID: id.Hex(), Form: form}, err.Error())
		return
	}

	if _, err := h.categoryService.UpdateCategory(c.Request.Context(), id, form.input()); err != nil {
		if isNotFound(err) {
			notFound(c)
			return
		}
		render(c, mutationStatus(c, err), "category_form.html", "Edit category", categoryFormPage{ID: id.Hex(), Form: form}, err.Error())
		return
	}
	redirect(c, "/categories")
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	err := h.categoryService.DeleteCategory(c.Request.Context(), id)
	if err != nil && !isNotFound(err) {
		status := mutationStatus(c, err)
		if fromEditPage(c) {
			var form categoryForm
			if category, getErr := h.categoryService.GetCategory(c.Request.Context(), id); getErr == nil {
				form = categoryForm{Name: category.Name, Description: domain.StringValue(category.Description)}
			}
			render(c, status, "category_form.html", "Edit category", categoryFormPage{ID: id.Hex(), Form: form}, err.Error())
			return
		}
		h.renderList(c, status, err.Error())
		return
	}
	redirect(c, "/categories")
}

// fromEditPage reports whether a delete was submitted from the detail page rather than the list.
func fromEditPage(c *gin.Context) bool {
	return c.PostForm("from") == "edit"
}
