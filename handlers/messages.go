package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutricoach/backend/internal/messages"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/pkg/middleware"
)

// SendMessageRequest addresses one message to another user.
type SendMessageRequest struct {
	RecipientID int64  `json:"recipientId" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

// EditMessageRequest replaces the body of a sent message.
type EditMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// MessagesHandler serves direct messaging for every authenticated role.
type MessagesHandler struct {
	repo messages.Repository
}

func NewMessagesHandler(repo messages.Repository) *MessagesHandler {
	return &MessagesHandler{repo: repo}
}

func (h *MessagesHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/messages", auth)
	g.GET("", h.List)
	g.POST("", h.Send)
	g.PUT("/:id", h.Edit)
	g.PUT("/:id/read", h.MarkRead)
	g.DELETE("/:id", h.Delete)
}

func (h *MessagesHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	list, err := h.repo.ForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		writeInternal(c, "list messages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (h *MessagesHandler) Send(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RecipientID == claims.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		return
	}
	m := &models.Message{SenderID: claims.UserID, RecipientID: req.RecipientID, Body: req.Body}
	if err := h.repo.Create(c.Request.Context(), m); err != nil {
		writeInternal(c, "send message", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": m})
}

func (h *MessagesHandler) Edit(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.UpdateBody(c.Request.Context(), id, claims.UserID, req.Body); err != nil {
		writeMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *MessagesHandler) MarkRead(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.repo.MarkRead(c.Request.Context(), id, claims.UserID); err != nil {
		writeMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

func (h *MessagesHandler) Delete(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		writeMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func writeMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, messages.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
	case errors.Is(err, messages.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		writeInternal(c, "message store", err)
	}
}
