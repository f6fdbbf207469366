package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/romuloroldao/Black-House-sub001/extraction"
	"github.com/romuloroldao/Black-House-sub001/logger"
	"github.com/romuloroldao/Black-House-sub001/middleware"
	"github.com/romuloroldao/Black-House-sub001/services"
)

type ErrorResponse struct {
	Error    string   `json:"error"`
	Issues   any      `json:"issues,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ImportController exposes the two entry points of the import flow.
type ImportController struct {
	imports *services.ImportService
	chain   *extraction.Chain
}

func NewImportController(imports *services.ImportService, chain *extraction.Chain) *ImportController {
	return &ImportController{imports: imports, chain: chain}
}

// Preview accepts either a multipart plan document (field "document") or a
// raw JSON payload body, and returns the normalized plan with warnings.
func (c *ImportController) Preview(w http.ResponseWriter, r *http.Request) {
	creatorID, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var raw []byte
	source := "payload"
	if isMultipart(r) {
		raw, source, err = c.extractFromUpload(r)
		if err != nil {
			logger.Error("document extraction failed", "error", err)
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
	} else {
		raw, err = io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
			return
		}
	}

	result, err := c.imports.Preview(r.Context(), raw, source, creatorID)
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type confirmRequest struct {
	Token     string          `json:"token"`
	StudentID uint            `json:"student_id"`
	Payload   json.RawMessage `json:"payload"`
}

// Confirm persists a previously previewed plan (by token) or an inline
// payload. The payload is re-validated from scratch either way.
func (c *ImportController) Confirm(w http.ResponseWriter, r *http.Request) {
	creatorID, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Token == "" && len(req.Payload) == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "either token or payload is required"})
		return
	}

	result, err := c.imports.Confirm(r.Context(), req.Payload, req.Token, req.StudentID, creatorID)
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// extractFromUpload saves the uploaded document to a temp file, extracts its
// text and runs the provider chain over it.
func (c *ImportController) extractFromUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return nil, "", errors.New("failed to parse multipart form")
	}
	file, fh, err := r.FormFile("document")
	if err != nil {
		return nil, "", errors.New("document file is required")
	}
	defer file.Close()

	ext := filepath.Ext(fh.Filename)
	tempFile, err := os.CreateTemp(os.TempDir(), "plan-*"+ext)
	if err != nil {
		return nil, "", errors.New("failed to create temp file")
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, file); err != nil {
		return nil, "", errors.New("failed to save document")
	}

	text, err := extraction.ExtractText(tempFile.Name())
	if err != nil {
		return nil, "", err
	}

	result, provider, err := c.chain.Extract(r.Context(), text)
	if err != nil {
		return nil, "", err
	}
	logger.Info("plan extracted", "provider", provider, "file", fh.Filename)

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, "", err
	}
	return raw, provider, nil
}

// writeImportError maps service errors to HTTP responses. Internal failures
// surface the domain message only, never stack detail.
func writeImportError(w http.ResponseWriter, err error) {
	var vErr *services.ValidationError
	var rErr *services.RuleError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "payload failed validation", Issues: vErr.Issues})
	case errors.As(err, &rErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "payload failed business validation", Warnings: rErr.Warnings})
	case errors.Is(err, services.ErrImportNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrAlreadyConfirmed):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrStudentNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("import failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func userID(r *http.Request) (uint, error) {
	raw, _ := r.Context().Value(middleware.UserContextKey).(string)
	if raw == "" {
		return 0, errors.New("no user in context")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid user id")
	}
	return uint(id), nil
}

func isMultipart(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return len(ct) >= 19 && ct[:19] == "multipart/form-data"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
