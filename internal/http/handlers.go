package http

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"budget/internal/core"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// urlParam returns a decoded path parameter. chi matches on the raw path
// when the request has escaped characters, so names with spaces arrive
// still escaped.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories":     core.Categories,
		"export_targets": s.svc.ExportTargets(),
	})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.ListEventNames(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": names})
}

func (s *Server) handleEventSummary(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	summary, ok, err := s.svc.Summary(r.Context(), name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("event %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := parseNewExpense(p, urlParam(r, "name"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	exp, err := s.svc.AddExpense(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"notice":  Notice{Type: NotificationSuccess, Message: "Expense added successfully!"},
		"expense": exp,
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	removed, err := s.svc.DeleteExpense(r.Context(), urlParam(r, "name"), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	notice := Notice{Type: NotificationSuccess, Message: fmt.Sprintf("Expense with ID %s deleted successfully!", id)}
	if removed == 0 {
		notice = Notice{Type: NotificationInfo, Message: fmt.Sprintf("No expense with ID %s in this event.", id)}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notice":  notice,
		"removed": removed,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	ref, err := s.svc.ExportStoredEvent(r.Context(), urlParam(r, "name"), target)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notice": Notice{Type: NotificationSuccess, Message: "Data exported successfully!"},
		"ref":    ref,
	})
}
