package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/wallyben/autoenroll-core/internal/core"
)

var (
	errNoFile         = errors.New("no file provided")
	errNoSource       = errors.New("no source specified")
	errNoRunID        = errors.New("no run id provided")
	errNoEmployees    = errors.New("no employees provided")
	errFileTooLarge   = errors.New("file too large")
	errInvalidRequest = errors.New("invalid request body")
)

// writeJSON encodes v as JSON with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus encodes v as JSON and writes it with status.
// Logs encoding errors since headers are already sent.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isTooLarge(err) {
			return fmt.Errorf("%w: %w", errFileTooLarge, err)
		}
		return fmt.Errorf("%w: %w", errInvalidRequest, err)
	}
	return nil
}

// readUpload returns the multipart "file" part, fully read.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		if isTooLarge(err) {
			return nil, fmt.Errorf("%w: %w", errFileTooLarge, err)
		}
		return nil, fmt.Errorf("%w: %w", errInvalidRequest, err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// isTooLarge reports whether err came from an http.MaxBytesReader limit.
// Some multipart errors drop the wrapped type, so the message is checked too.
func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// statusForLookup maps importer lookup failures to HTTP statuses.
func statusForLookup(err error) int {
	if errors.Is(err, core.ErrSourceNotImplemented) {
		return http.StatusNotImplemented
	}
	return http.StatusBadRequest
}

// extractHost returns the host part of a host:port address, or the input
// when it carries no port.
func extractHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
