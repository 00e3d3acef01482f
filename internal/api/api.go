package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"nn-visualizer/internal/core"

	"github.com/go-chi/chi/v5"
)

type ActivationService struct {
	model  *core.Model
	maxLen int
}

func NewActivationService(model *core.Model, maxLen int) *ActivationService {
	return &ActivationService{model: model, maxLen: maxLen}
}

func (s *ActivationService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Get("/model", RestHandler(s.GetModel))
	r.Get("/get_activations", RestHandler(s.GetActivations))
}

type activationsParams struct {
	Input string `schema:"input"`
}

func (s *ActivationService) GetActivations(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[activationsParams](r)
	if err != nil {
		return nil, err
	}

	// An empty value still counts as present.
	if !r.Form.Has("input") {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "missing required query param 'input'")
	}
	if n := utf8.RuneCountInString(params.Input); n > s.maxLen {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "input has %d characters, at most %d are allowed", n, s.maxLen)
	}

	trace, err := s.model.Trace(r.Context(), core.EncodeTensor(params.Input, s.maxLen))
	if err != nil {
		slog.Error("error tracing model", "model_id", s.model.Id, "input_len", len(params.Input), "error", err)
		return nil, fmt.Errorf("error computing activations: %w", err)
	}

	return convertActivations(params.Input, trace), nil
}

func (s *ActivationService) GetModel(r *http.Request) (any, error) {
	return convertModel(s.model, s.maxLen), nil
}
