package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler serves the users page: role and ban toggles on profiles.
type UserHandler struct {
	profileService service.ProfileService
}

func NewUserHandler(profileService service.ProfileService) *UserHandler {
	return &UserHandler{profileService: profileService}
}

type usersPage struct {
	Profiles []domain.Profile
	// CurrentID marks the signed-in admin's own row.
	CurrentID primitive.ObjectID
}

func (h *UserHandler) renderList(c *gin.Context, status int, errMsg string) {
	profiles, err := h.profileService.ListProfiles(c.Request.Context())
	if err != nil {
		profiles = nil
		if errMsg == "" {
			errMsg = listFailed(c, "users", err)
		}
	}
	p := usersPage{Profiles: profiles}
	if s := sessionFromContext(c); s != nil {
		p.CurrentID = s.UserID
	}
	render(c, status, "users.html", "Users", p, errMsg)
}

func (h *UserHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, "")
}

func (h *UserHandler) ToggleRole(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.profileService.ToggleRole(c.Request.Context(), id); err != nil {
		h.renderList(c, mutationStatus(c, err), err.Error())
		return
	}
	redirect(c, "/users")
}

func (h *UserHandler) ToggleBan(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.profileService.ToggleBan(c.Request.Context(), id); err != nil {
		h.renderList(c, mutationStatus(c, err), err.Error())
		return
	}
	redirect(c, "/users")
}
