package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assochub/internal/middleware"
	"assochub/internal/model"
	"assochub/internal/service"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type CreateCommentReq struct {
	Content string `json:"content" binding:"required"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	posts, total, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if posts == nil {
		posts = []model.ResolvedPost{}
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"total":      total,
		"totalPages": totalPages(total, limit),
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	post, err := h.svc.Create(c.Request.Context(), middleware.UID(c), req.Title, req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// CreateComment returns the raw comment (author as uid) to the caller;
// broadcast listeners get the resolved form.
func (h *PostHandler) CreateComment(c *gin.Context) {
	var req CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), c.Param("id"), middleware.UID(c), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *PostHandler) Like(c *gin.Context) {
	likes, err := h.svc.Like(c.Request.Context(), c.Param("id"), middleware.UID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}
