package web

import (
	"net/http"
)

type recipeRequest struct {
	Ingredients []string `json:"ingredients"`
}

type chatbotRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.resolveSession(w, r)
	if !ok {
		return
	}

	var req recipeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	recipe, err := s.service.GenerateRecipe(r.Context(), sessionID, req.Ingredients)
	if err != nil {
		s.writeServiceError(w, err, "Failed to generate recipe: ")
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.resolveSession(w, r)
	if !ok {
		return
	}

	var req chatbotRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	reply, err := s.service.Chat(r.Context(), sessionID, req.Query)
	if err != nil {
		s.writeServiceError(w, err, "Failed to generate response: ")
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
