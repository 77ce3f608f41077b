package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/campushub/coursechat/chat"
)

type ChatAPI struct {
	chat   *chat.Service
	logger *slog.Logger
}

func NewChatAPI(chatService *chat.Service, logger *slog.Logger) *ChatAPI {
	return &ChatAPI{
		chat:   chatService,
		logger: logger,
	}
}

func (c *ChatAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodPost && videoID != "":
		c.Ask(w, r, videoID)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the chat api", r.Method, videoID))
	}
}

func (c *ChatAPI) Ask(w http.ResponseWriter, r *http.Request, videoID string) {
	var req struct {
		Message          string          `json:"message"`
		PreviousMessages []chat.Exchange `json:"previousMessages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "could not parse chat request", err)
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "could not parse chat request", fmt.Errorf("message is required"))
		return
	}

	answer, err := c.chat.Answer(r.Context(), videoID, req.Message, req.PreviousMessages)
	if err != nil {
		c.returnErr(r.Context(), w, http.StatusInternalServerError, "could not answer question", err)
		return
	}

	JSON(w, http.StatusOK, answer)
}

func (c *ChatAPI) returnErr(_ context.Context, w http.ResponseWriter, status int, message string, err error, details ...any) {
	c.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}
