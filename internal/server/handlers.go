package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/gridrecon/gridlog"
	"github.com/rustyeddy/gridrecon/journal"
)

// Response headers set by POST /process.
const (
	HeaderRunID    = "X-Gridrecon-Run-Id"
	HeaderWarnings = "X-Gridrecon-Warnings"
)

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// process handles POST /process with multipart fields "gridlog", "summary"
// and optionally "min_users". Each request loads its own inputs.
func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.config.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_upload", "failed to parse upload: "+err.Error())
		return
	}

	cfg := s.config.Defaults
	if v := strings.TrimSpace(r.FormValue("min_users")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_min_users", fmt.Sprintf("min_users must be an integer, got %q", v))
			return
		}
		cfg.MinUsers = n
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_min_users", err.Error())
		return
	}

	events, err := readUpload(r, "gridlog", gridlog.ReadEventLog)
	if err != nil {
		writeInputError(w, err)
		return
	}
	wb, err := readUpload(r, "summary", gridlog.ReadWorkbook)
	if err != nil {
		writeInputError(w, err)
		return
	}

	out, err := s.processor.Process(r.Context(), events, wb, cfg)
	if err != nil {
		log.Error().Err(err).Msg("process upload")
		writeError(w, http.StatusInternalServerError, "process_failed", err.Error())
		return
	}

	// Render fully before writing anything so a failure never yields a
	// truncated download.
	var buf bytes.Buffer
	if err := journal.WriteCSV(&buf, out.Result.Rows); err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/csv; charset=utf-8")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Result.OutputName}))
	h.Set(HeaderRunID, out.RunID)
	if len(out.Result.Warnings) > 0 {
		h.Set(HeaderWarnings, strings.Join(out.Result.Warnings, "; "))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func readUpload[T any](r *http.Request, field string, read func(string, io.Reader) (T, error)) (T, error) {
	var zero T
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return zero, &missingUploadError{field: field, err: err}
	}
	defer f.Close()
	return read(hdr.Filename, f)
}

type missingUploadError struct {
	field string
	err   error
}

func (e *missingUploadError) Error() string {
	return fmt.Sprintf("missing upload %q: %v", e.field, e.err)
}

func writeInputError(w http.ResponseWriter, err error) {
	var missing *missingUploadError
	switch {
	case errors.As(err, &missing):
		writeError(w, http.StatusBadRequest, "missing_upload", err.Error())
	case errors.Is(err, gridlog.ErrMissingColumn):
		writeError(w, http.StatusBadRequest, "missing_column", err.Error())
	case errors.Is(err, gridlog.ErrUnreadable):
		writeError(w, http.StatusBadRequest, "unreadable_input", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: message,
	})
}
