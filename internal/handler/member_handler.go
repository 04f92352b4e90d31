package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assochub/internal/middleware"
	"assochub/internal/model"
	"assochub/internal/service"
)

type MemberHandler struct {
	svc *service.MemberService
}

type CreateMemberReq struct {
	UID         string            `json:"uid" binding:"required"`
	Name        string            `json:"name" binding:"required"`
	Email       string            `json:"email" binding:"required,email"`
	Role        string            `json:"role"`
	Avatar      string            `json:"avatar"`
	Bio         string            `json:"bio"`
	Skills      []string          `json:"skills"`
	Projects    []model.Project   `json:"projects"`
	SocialLinks model.SocialLinks `json:"socialLinks"`
}

func NewMemberHandler(svc *service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

func (h *MemberHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	members, total, err := h.svc.List(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if members == nil {
		members = []*model.Member{}
	}
	c.JSON(http.StatusOK, gin.H{
		"members":    members,
		"total":      total,
		"totalPages": totalPages(total, limit),
	})
}

func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) Create(c *gin.Context) {
	var req CreateMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	member, err := h.svc.Create(c.Request.Context(), &model.Member{
		UID:         req.UID,
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
		Skills:      req.Skills,
		Projects:    req.Projects,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *MemberHandler) Update(c *gin.Context) {
	var req model.MemberUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	member, err := h.svc.Update(c.Request.Context(), middleware.UID(c), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}
