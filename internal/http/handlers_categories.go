package http

import (
	"encoding/json"
	"net/http"
)

type addCategoryRequest struct {
	Category string `json:"category"`
}

type suggestCategoryRequest struct {
	Description string `json:"description"`
}

type suggestCategoryResponse struct {
	Category string `json:"category"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.categories.List())
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.categories.Add(req.Category)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.metrics.CategoryAdds.Inc()
	writeJSON(w, http.StatusCreated, updated)
}

func (s *Server) handleSuggestCategory(w http.ResponseWriter, r *http.Request) {
	if s.suggester == nil {
		writeError(w, http.StatusServiceUnavailable, "category suggestions not configured")
		return
	}

	var req suggestCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	suggestion, err := s.suggester.Suggest(r.Context(), req.Description, s.categories.List())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestCategoryResponse{Category: suggestion})
}
