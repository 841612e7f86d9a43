package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/username/finbot/src/chatbot"
	"github.com/username/finbot/src/config"
	"github.com/username/finbot/src/logger"
	"github.com/username/finbot/src/models"
	"github.com/username/finbot/src/utils"
	"github.com/username/finbot/src/web"
)

type ChatHandler struct {
	engine *chatbot.Engine
	ds     *models.Dataset
}

func NewChatHandler(engine *chatbot.Engine, ds *models.Dataset) *ChatHandler {
	return &ChatHandler{engine: engine, ds: ds}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// HandleAsk answers one question. The request carries no session state;
// every call is classified and computed independently.
func (h *ChatHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.L.Warn("Failed to decode ask request", "error", err)
		utils.SendJSONError(w, "Invalid request body. Expected {\"question\": \"...\"}", http.StatusBadRequest)
		return
	}

	if config.Cfg != nil && len(req.Question) > config.Cfg.MaxQuestionLength {
		utils.SendJSONError(w, "Question too long", http.StatusBadRequest)
		return
	}

	answer := h.engine.Answer(req.Question)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(askResponse{Answer: answer}); err != nil {
		logger.L.Error("Error encoding JSON response for ask", "error", err)
	}
}

// HandleHome serves the embedded chat page.
func (h *ChatHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(web.IndexHTML)
}

// HandleHealth reports liveness plus the loaded table sizes.
func (h *ChatHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"holdings": len(h.ds.Holdings),
		"trades":   len(h.ds.Trades),
	})
}
