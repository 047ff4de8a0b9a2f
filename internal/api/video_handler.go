package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// VideoHandler serves the video pages.
type VideoHandler struct {
	videoService service.VideoService
}

func NewVideoHandler(videoService service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

type videoForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	URL         string `form:"url"`
}

func videoFormFrom(v *domain.Video) videoForm {
	return videoForm{Title: v.Title, Description: domain.StringValue(v.Description), URL: v.URL}
}

type videoFormPage struct {
	ID   string
	Form videoForm
}

func (h *VideoHandler) renderList(c *gin.Context, status int, errMsg string) {
	videos, err := h.videoService.ListVideos(c.Request.Context())
	if err != nil {
		videos = nil
		if errMsg == "" {
			errMsg = listFailed(c, "videos", err)
		}
	}
	render(c, status, "videos.html", "Videos", videos, errMsg)
}

func (h *VideoHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, "")
}

func (h *VideoHandler) New(c *gin.Context) {
	render(c, http.StatusOK, "video_form.html", "New video", videoFormPage{}, "")
}

func (h *VideoHandler) bindInput(c *gin.Context) (videoForm, service.VideoInput, func(), error) {
	var form videoForm
	if err := bindForm(c, &form); err != nil {
		return form, service.VideoInput{}, func() {}, err
	}
	file, closeFile, err := formFile(c, "video_file")
	return form, service.VideoInput{
		Title:       form.Title,
		Description: form.Description,
		URL:         form.URL,
		File:        file,
	}, closeFile, err
}

func (h *VideoHandler) Create(c *gin.Context) {
	form, in, closeFile, err := h.bindInput(c)
	defer closeFile()
	var video *domain.Video
	if err == nil {
		video, err = h.videoService.CreateVideo(c.Request.Context(), in)
	}
	if err != nil {
		render(c, mutationStatus(c, err), "video_form.html", "New video", videoFormPage{Form: form}, err.Error())
		return
	}
	redirect(c, "/videos/"+video.ID.Hex())
}

func (h *VideoHandler) Edit(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	video, err := h.videoService.GetVideo(c.Request.Context(), id)
	if err != nil {
		if isNotFound(err) {
			notFound(c)
			return
		}
		internalError(c, err)
		return
	}
	render(c, http.StatusOK, "video_form.html", "Edit video", videoFormPage{ID: id.Hex(), Form: videoFormFrom(video)}, "")
}

func (h *VideoHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	form, in, closeFile, err := h.bindInput(c)
	defer closeFile()
	if err == nil {
		_, err = h.videoService.UpdateVideo(c.Request.Context(), id, in)
	}
	if err != nil {
		if isNotFound(err) {
			notFound(c)
			return
		}
		render(c, mutationStatus(c, err), "video_form.html", "Edit video", videoFormPage{ID: id.Hex(), Form: form}, err.Error())
		return
	}
	redirect(c, "/videos")
}

func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	err := h.videoService.DeleteVideo(c.Request.Context(), id)
	if err != nil && !isNotFound(err) {
		status := mutationStatus(c, err)
		if fromEditPage(c) {
			var form videoForm
			if video, getErr := h.videoService.GetVideo(c.Request.Context(), id); getErr == nil {
				form = videoFormFrom(video)
			}
			render(c, status, "video_form.html", "Edit video", videoFormPage{ID: id.Hex(), Form: form}, err.Error())
			return
		}
		h.renderList(c, status, err.Error())
		return
	}
	redirect(c, "/videos")
}
