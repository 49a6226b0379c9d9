package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/JonMunkholm/bdcrecon/internal/core"
	"github.com/JonMunkholm/bdcrecon/internal/history"
	"github.com/JonMunkholm/bdcrecon/internal/logging"
	"github.com/JonMunkholm/bdcrecon/internal/workbook"
	"github.com/google/uuid"
)

const (
	// ReportFileName is the download name of the reconciled workbook.
	ReportFileName = "export_clean.xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// multipartMemory is how much of a form is kept in memory before the
	// multipart reader spills to temp files.
	multipartMemory = 8 << 20
)

// SourceResponse is one entry of GET /api/sources.
type SourceResponse struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	SkipRows int      `json:"skip_rows"`
	Marker   string   `json:"marker,omitempty"`
	Columns  []string `json:"columns"`
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_ = UploadPage(s.service.ListSources(), core.IntroText()).Render(r.Context(), w)
}

// handleListSources returns the registered sources in sheet order.
func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	infos := s.service.ListSources()
	resp := make([]SourceResponse, len(infos))
	for i, info := range infos {
		resp[i] = SourceResponse{
			Key:      info.Key,
			Label:    info.Label,
			Required: info.Required,
			SkipRows: info.SkipRows,
			Marker:   info.Marker,
			Columns:  info.Columns,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHistory returns the most recent runs.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, r, history.ErrNotConfigured, http.StatusServiceUnavailable)
		return
	}

	limit := parseIntParam(r, "limit", history.DefaultListLimit)
	runs, err := s.history.ListRuns(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []core.RunResult{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleReconcile stages the uploaded exports in a private work directory,
// runs the reconciliation and streams the report back.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	maxFile := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxFile*int64(core.SourceCount())+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	for field := range r.MultipartForm.File {
		if _, ok := core.Get(field); !ok {
			respondError(w, r, fmt.Errorf("unknown source: %s", field), http.StatusBadRequest)
			return
		}
	}
	if len(r.MultipartForm.File[core.SourceOrders]) == 0 {
		respondError(w, r, errNoOrders, http.StatusBadRequest)
		return
	}

	runID := uuid.NewString()
	logger := logging.WithFields(r.Context(), "upload_id", runID)

	dir := filepath.Join(s.workDir(), workDirPrefix+runID)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		respondError(w, r, fmt.Errorf("create work dir: %w", err), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("failed to remove work dir", "dir", dir, "error", err)
		}
	}()

	in := core.Inputs{
		Sources: make(map[string]string),
		Output:  filepath.Join(dir, ReportFileName),
	}
	for field, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		if fh.Size > maxFile {
			respondError(w, r, fmt.Errorf("%w: %s (%d bytes)", errFileTooBig, fh.Filename, fh.Size), http.StatusRequestEntityTooLarge)
			return
		}
		path := filepath.Join(dir, field+".xlsx")
		if err := saveUpload(fh, path); err != nil {
			respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		in.Sources[field] = path
		logger.Debug("export staged", "source", field, "filename", fh.Filename, "size", fh.Size)
	}

	ctx, cancel := context.WithTimeout(WithRequestMetadata(r.Context(), r), s.cfg.Upload.Timeout)
	defer cancel()

	result, err := s.service.Run(ctx, in, func(msg string) {
		logger.Debug("progress", "message", msg)
	})
	if err != nil {
		respondError(w, r, err, runErrorStatus(err))
		return
	}

	f, err := os.Open(in.Output)
	if err != nil {
		respondError(w, r, fmt.Errorf("open report: %w", err), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ReportFileName))
	w.Header().Set("X-Run-ID", result.RunID)
	w.Header().Set("X-Global-Rows", strconv.Itoa(result.GlobalRows))
	http.ServeContent(w, r, ReportFileName, time.Now(), f)
}

// saveUpload copies one multipart file to path.
func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("stage upload %s: %w", fh.Filename, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("stage upload %s: %w", fh.Filename, err)
	}
	return dst.Close()
}

// runErrorStatus maps a failed run to an HTTP status.
func runErrorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrTooManyRuns):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrMissingSource):
		return http.StatusBadRequest
	case errors.Is(err, workbook.ErrInvalidWorkbook), errors.Is(err, workbook.ErrNoSheets):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
