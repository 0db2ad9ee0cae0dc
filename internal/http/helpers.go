package httpapi

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"senidea-backend-go/internal/services"
)

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.ErrBadRequest("Invalid JSON body")
	}
	return nil
}

// clientIP resolves the caller's address, preferring the first
// X-Forwarded-For hop when the server sits behind a proxy.
func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, services.ErrBadRequest("Invalid id")
	}
	return id, nil
}

// imageUpload holds a validated multipart image field.
type imageUpload struct {
	Data     []byte
	Mimetype string
	// Clear is set when the field was sent empty, which on update means
	// "remove the stored image".
	Clear bool
}

// readImageUpload pulls the optional "image" field out of a multipart
// form. Returns nil when the field is absent.
func readImageUpload(r *http.Request) (*imageUpload, error) {
	if err := r.ParseMultipartForm(2 << 20); err != nil {
		return nil, services.ErrBadRequest("Invalid form payload")
	}
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		// A part sent with an empty filename is parsed as a plain form
		// value, not a file. The admin UI sends one when no file was
		// selected.
		if r.MultipartForm != nil {
			if _, ok := r.MultipartForm.Value["image"]; ok {
				return &imageUpload{Clear: true}, nil
			}
		}
		return nil, nil
	}
	if err != nil {
		return nil, nil
	}
	defer file.Close()
	mimetype := header.Header.Get("Content-Type")
	if err := services.CheckImageUpload(mimetype, header.Size); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(file, services.MaxImageBytes+1))
	if err != nil {
		return nil, services.ErrBadRequest("Invalid form payload")
	}
	if len(data) > services.MaxImageBytes {
		return nil, services.ErrBadRequest("Image size exceeds 1MB")
	}
	return &imageUpload{Data: data, Mimetype: mimetype}, nil
}

// formValueOr distinguishes an omitted form field from an empty one so
// partial updates keep the stored value for fields the client leaves out.
func formValueOr(r *http.Request, key, fallback string) string {
	if r.MultipartForm == nil {
		return fallback
	}
	if values, ok := r.MultipartForm.Value[key]; ok && len(values) > 0 {
		return values[0]
	}
	return fallback
}

func nullIfEmpty(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func trimString(value string, maxLen int) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
