package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/teamleaf/teamops/internal/middleware"
	"github.com/teamleaf/teamops/internal/service"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/response"
)

// TypingHandler handles typing presence requests
type TypingHandler struct {
	typingService *service.TypingService
}

// NewTypingHandler creates a new TypingHandler
func NewTypingHandler(typingService *service.TypingService) *TypingHandler {
	return &TypingHandler{typingService: typingService}
}

// AnnounceTypingRequest represents a typing announcement
type AnnounceTypingRequest struct {
	ConversationId string `json:"conversation_id"`
	Typing         bool   `json:"typing"`
}

// Announce handles a typing announcement. typing=true refreshes the caller's
// typing window, typing=false clears it early.
func (h *TypingHandler) Announce(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req AnnounceTypingRequest
	if err := c.BindAndValidate(&req); err != nil || req.ConversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.typingService.Announce(ctx, req.ConversationId, userId, req.Typing); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

// ActiveTypists returns users currently typing in a conversation
func (h *TypingHandler) ActiveTypists(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	conversationId := c.Query("conversation_id")
	if conversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	typists, err := h.typingService.ActiveTypists(ctx, conversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"user_ids": typists,
	})
}
