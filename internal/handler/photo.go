package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/model"
	"github.com/photoshare/backend/internal/service"
)

type PhotoHandler struct {
	photos    *service.PhotoService
	reactions *service.ReactionService
}

func NewPhotoHandler(photos *service.PhotoService, reactions *service.ReactionService) *PhotoHandler {
	return &PhotoHandler{photos: photos, reactions: reactions}
}

// CreatePhoto godoc
// @Summary Create a photo for the current user
// @Description file_name is the URL of an already hosted image.
// @Tags photo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreatePhotoRequest true "Photo payload"
// @Success 201 {object} model.CreatePhotoResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /photo/new [post]
func (h *PhotoHandler) CreatePhoto(c *gin.Context, auth *model.AuthContext) {
	var req model.CreatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	photo, err := h.photos.CreatePhoto(c.Request.Context(), auth, req.FileName)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.CreatePhotoResponse{
		Message: "Photo uploaded successfully",
		Photo:   *photo,
	})
}

// DeletePhoto godoc
// @Summary Delete a photo
// @Description Owner or admin only. Comments and reactions are removed with it.
// @Tags photo
// @Produce json
// @Security BearerAuth
// @Param photo_id path string true "Photo ID"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /photo/delete/{photo_id} [delete]
func (h *PhotoHandler) DeletePhoto(c *gin.Context, auth *model.AuthContext) {
	photoID, ok := pathUUID(c, "photo_id")
	if !ok {
		return
	}

	if err := h.photos.DeletePhoto(c.Request.Context(), auth, photoID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Photo deleted successfully"})
}

// AddComment godoc
// @Summary Comment on a photo
// @Tags photo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param photo_id path string true "Photo ID"
// @Param request body model.CreateCommentRequest true "Comment payload"
// @Success 201 {object} model.Comment
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /photo/commentsOfPhoto/{photo_id} [post]
func (h *PhotoHandler) AddComment(c *gin.Context, auth *model.AuthContext) {
	photoID, ok := pathUUID(c, "photo_id")
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.photos.AddComment(c.Request.Context(), auth, photoID, req.Comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Comment author, photo owner or admin only.
// @Tags photo
// @Produce json
// @Security BearerAuth
// @Param photo_id path string true "Photo ID"
// @Param comment_id path string true "Comment ID"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /photo/deleteComment/{photo_id}/{comment_id} [delete]
func (h *PhotoHandler) DeleteComment(c *gin.Context, auth *model.AuthContext) {
	photoID, ok := pathUUID(c, "photo_id")
	if !ok {
		return
	}
	commentID, ok := pathUUID(c, "comment_id")
	if !ok {
		return
	}

	if err := h.photos.DeleteComment(c.Request.Context(), auth, photoID, commentID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Comment deleted successfully"})
}

// Like godoc
// @Summary Toggle like on a photo
// @Description Liking twice removes the like. Liking clears an existing dislike.
// @Tags photo
// @Produce json
// @Security BearerAuth
// @Param photo_id path string true "Photo ID"
// @Success 200 {object} model.ReactionResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /photo/like/{photo_id} [patch]
func (h *PhotoHandler) Like(c *gin.Context, auth *model.AuthContext) {
	photoID, ok := pathUUID(c, "photo_id")
	if !ok {
		return
	}

	res, err := h.reactions.ToggleLike(c.Request.Context(), photoID, auth)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Dislike godoc
// @Summary Toggle dislike on a photo
// @Description Disliking twice removes the dislike. Disliking clears an existing like.
// @Tags photo
// @Produce json
// @Security BearerAuth
// @Param photo_id path string true "Photo ID"
// @Success 200 {object} model.ReactionResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /photo/dislike/{photo_id} [patch]
func (h *PhotoHandler) Dislike(c *gin.Context, auth *model.AuthContext) {
	photoID, ok := pathUUID(c, "photo_id")
	if !ok {
		return
	}

	res, err := h.reactions.ToggleDislike(c.Request.Context(), photoID, auth)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return uuid.Nil, false
	}
	return id, true
}
