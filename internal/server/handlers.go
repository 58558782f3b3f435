package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	errs "librarian/pkg/errors"
)

// writeJSON encodes v as the response body with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error envelope
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

// handleRoot reports server identity and the available endpoints
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":        "librarian",
		"description": "Wikipedia lookup tools for LLM agents",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"tools":     "GET /tools, POST /tools/{name}",
			"resources": "GET /resources, GET /resources/read?uri={uri}",
			"health":    "GET /healthz",
			"metrics":   "GET /metrics",
		},
	})
}

// handleHealth is the liveness probe
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTools returns the registered tools with their input schemas
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tools": s.registry.Tools(),
	})
}

// handleCallTool invokes a tool with the JSON body as arguments.
// An empty body means no arguments.
func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var args map[string]interface{}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			writeError(w, http.StatusBadRequest, "request body must be a JSON object")
			return
		}
	}

	result, err := s.registry.CallTool(name, args)
	if err != nil {
		var apiErr *errs.Error
		if errors.As(err, &apiErr) && apiErr.Type == errs.ErrorTypeNotFound {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListResources returns the registered resources without content
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"resources": s.registry.Resources(),
	})
}

// handleReadResource returns one resource's content by URI
func (s *Server) handleReadResource(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		writeError(w, http.StatusBadRequest, "missing uri query parameter")
		return
	}

	res, ok := s.registry.GetResource(uri)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource: "+uri)
		return
	}

	content, err := res.Content()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render resource")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uri":      res.URI,
		"mimeType": res.MimeType,
		"content":  content,
	})
}
