package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"checklist-backend/internal/domain"
	"checklist-backend/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.HelloWorldHandler)

	r.Get("/health", s.healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/sections", func(r chi.Router) {
			r.Get("/", s.listSectionsHandler)
			r.Post("/", s.createSectionHandler)
			r.Put("/{id}", s.renameSectionHandler)
			r.Delete("/{id}", s.deleteSectionHandler)
			r.Post("/{id}/items", s.createItemHandler)
		})
		r.Route("/items", func(r chi.Router) {
			r.Put("/{id}", s.updateItemHandler)
			r.Delete("/{id}", s.deleteItemHandler)
			r.Post("/{id}/duplicate", s.duplicateItemHandler)
		})
		r.Post("/init", s.initHandler)
		r.Post("/import", s.importHandler)
		r.Post("/uncheck-all", s.uncheckAllHandler)
	})

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World from Checklist Backend!"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) listSectionsHandler(w http.ResponseWriter, r *http.Request) {
	sections, err := s.checklistService.ListSections(r.Context())
	if err != nil {
		log.Printf("Error calling ListSections service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch sections")
		return
	}

	respondWithJSON(w, http.StatusOK, sections)
}

func (s *Server) createSectionHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSectionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	section, err := s.checklistService.CreateSection(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to create section")
		return
	}

	respondWithJSON(w, http.StatusCreated, section)
}

func (s *Server) renameSectionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.RenameSectionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := s.checklistService.RenameSection(r.Context(), id, req); err != nil {
		respondWithServiceError(w, err, "Failed to update section")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) deleteSectionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.checklistService.DeleteSection(r.Context(), id); err != nil {
		respondWithServiceError(w, err, "Failed to delete section")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) createItemHandler(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "id")

	var req service.CreateItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	item, err := s.checklistService.CreateItem(r.Context(), sectionID, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to create item")
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

func (s *Server) updateItemHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.UpdateItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if _, err := s.checklistService.UpdateItem(r.Context(), id, req); err != nil {
		respondWithServiceError(w, err, "Failed to update item")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.checklistService.DeleteItem(r.Context(), id); err != nil {
		respondWithServiceError(w, err, "Failed to delete item")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) duplicateItemHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := s.checklistService.DuplicateItem(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to duplicate item")
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

func (s *Server) initHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.checklistService.SeedDefaultTemplate(r.Context()); err != nil {
		respondWithServiceError(w, err, "Failed to initialize database")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ImportRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := s.checklistService.ImportReplaceAll(r.Context(), req); err != nil {
		respondWithServiceError(w, err, "Failed to import data")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) uncheckAllHandler(w http.ResponseWriter, r *http.Request) {
	changes, err := s.checklistService.UncheckAll(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Failed to uncheck items")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "changes": changes})
}

// decodeJSONBody decodes the request body into dst and writes a client error
// response when it is malformed. Returns false when a response was written.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &syntaxError) {
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if errors.Is(err, io.ErrUnexpectedEOF) {
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	} else if errors.As(err, &unmarshalTypeError) {
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if strings.HasPrefix(err.Error(), "json: unknown field ") {
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	} else if errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
	} else {
		log.Printf("Error decoding request body: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

// respondWithServiceError maps domain errors onto HTTP status codes.
func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
