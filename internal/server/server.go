// Package server serves a small upload page: a word list is posted as a
// file and the enriched workbook is returned as a download.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/ivrit/internal/batch"
	"codeberg.org/snonux/ivrit/internal/export"
	"codeberg.org/snonux/ivrit/internal/record"
)

// MaxUploadSize is the largest accepted upload
const MaxUploadSize = 10 << 20

// DownloadName is the file name of the returned workbook
const DownloadName = "updated_file.xlsx"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var allowedExtensions = map[string]bool{
	".xlsx": true,
	".csv":  true,
	".txt":  true,
}

// Enricher builds records for a list of words
type Enricher interface {
	ProcessWords(ctx context.Context, words []string) []record.Record
}

// Server is the upload page HTTP server
type Server struct {
	enricher    Enricher
	diagnostics bool
	logger      *zap.Logger
}

// New creates an upload server
func New(enricher Enricher, diagnostics bool, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		enricher:    enricher,
		diagnostics: diagnostics,
		logger:      logger,
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /translate", s.handleTranslate)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Upload server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down upload server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			http.Error(w, "file too large (max 10 MiB)", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		http.Error(w, fmt.Sprintf("unsupported file type %q (use .xlsx, .csv or .txt)", ext), http.StatusBadRequest)
		return
	}

	words, err := batch.ReadWordsFrom(file, header.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(words) == 0 {
		http.Error(w, "no words found in upload", http.StatusBadRequest)
		return
	}

	s.logger.Info("Processing upload",
		zap.String("file", header.Filename),
		zap.Int("words", len(words)))

	records := s.enricher.ProcessWords(r.Context(), words)
	if err := r.Context().Err(); err != nil {
		s.logger.Warn("Upload cancelled", zap.Error(err))
		return
	}

	gen := export.NewGenerator(&export.Options{
		Format:         export.FormatXLSX,
		IncludeHeaders: true,
		Diagnostics:    s.diagnostics,
	})
	for _, rec := range records {
		gen.AddRecord(rec)
	}

	var buf bytes.Buffer
	if err := gen.WriteXLSX(&buf); err != nil {
		s.logger.Error("Failed to build workbook", zap.Error(err))
		http.Error(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadName))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("Failed to send workbook", zap.Error(err))
	}
}

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ivrit</title>
<style>
body { font-family: sans-serif; max-width: 40em; margin: 3em auto; }
</style>
</head>
<body>
<h1>ivrit</h1>
<p>Upload a list of Hebrew words (first column of an .xlsx or .csv file, or one word per line in a .txt file).
The enriched workbook with translations, transcriptions and examples is returned as <code>updated_file.xlsx</code>.</p>
<form method="post" action="/translate" enctype="multipart/form-data">
<input type="file" name="file" accept=".xlsx,.csv,.txt" required>
<button type="submit">Translate</button>
</form>
<p>Processing takes a few seconds per word.</p>
</body>
</html>
`
