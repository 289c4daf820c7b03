// File path: internal/api/chat_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/llm"
	"github.com/sunward/solsite/internal/retriever"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: chat decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		logger.Warn("api: chat prompt missing")
		writeError(w, http.StatusBadRequest, fmt.Errorf("prompt required"))
		return
	}
	logger.Info("api: chat request received", "prompt_length", len(req.Prompt), "use_rag", req.UseRAG)
	provider := s.provider
	if provider == nil {
		provider = llm.NewProvider()
		logger.Debug("api: chat created new provider instance", "provider", provider.Name())
	}
	systemPrompt := "You are a solar farm feasibility assistant. " +
		"Respond with clear, grounded guidance on siting, interconnection, and project economics. " +
		"When context snippets are provided, base the answer on them and cite their sources."
	messages := []llm.Message{{Role: "system", Content: systemPrompt}}
	var ragContext string
	if req.UseRAG {
		ragContext = s.retriever.Context(ctx, req.Prompt)
		if ragContext != "" && ragContext != retriever.NoContextMessage {
			messages = append(messages, llm.Message{Role: "system", Content: "Context snippets:\n" + ragContext})
		}
	}
	messages = append(messages, llm.Message{Role: "user", Content: req.Prompt})
	messages, err := llm.NormalizeMessages(messages)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	answer, err := provider.Chat(ctx, messages)
	if err != nil {
		logger.Error("api: chat completion failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: chat completion succeeded", "provider", provider.Name())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answer":   answer,
		"context":  ragContext,
		"provider": provider.Name(),
	})
}
