package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
)

var ErrBookNotFound = errors.New("book not found")

type (
	ContextKey        string
	missingFieldError string
)

const (
	BookIDPrefix         string     = "b"
	RequestIDPrefix      string     = "r"
	ContextRequestID     ContextKey = "request.id"
	ContextRequestNumber ContextKey = "request.number"
)

// Multipart form fields expected on a book creation request.
const (
	FormFieldBookName   = "bookName"
	FormFieldAuthorName = "authorName"
	FormFieldCover      = "cover"
	FormFieldEpub       = "epub"
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(ContextRequestNumber); val != nil {
		return val.(uint64)
	}
	return 0
}

// DecodeCreateBookRequestForm reads the multipart content of a book creation
// request and builds the NewBook payload. Text fields are trimmed. A missing
// or empty field comes back as a missingFieldError so the handler can answer
// with a field-level message.
func DecodeCreateBookRequestForm(r *http.Request, maxBytes int64, nb *NewBook) error {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return err
	}

	nb.BookName = strings.TrimSpace(r.FormValue(FormFieldBookName))
	nb.AuthorName = strings.TrimSpace(r.FormValue(FormFieldAuthorName))

	cover, err := ReadFormFile(r, FormFieldCover)
	if err != nil {
		return err
	}
	nb.Cover = cover

	epub, err := ReadFormFile(r, FormFieldEpub)
	if err != nil {
		return err
	}
	nb.Epub = epub

	return ValidateCreateBookRequest(nb)
}

// ReadFormFile loads the full content of one uploaded file into memory.
// An absent file part is not an error here, validation reports it with
// the field name instead.
func ReadFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// ValidateCreateBookRequest checks that a creation payload carries both
// text fields and both files.
func ValidateCreateBookRequest(nb *NewBook) error {
	if len(nb.BookName) == 0 {
		return missingFieldError(FormFieldBookName)
	}

	if len(nb.AuthorName) == 0 {
		return missingFieldError(FormFieldAuthorName)
	}

	if len(nb.Cover) == 0 {
		return missingFieldError(FormFieldCover)
	}

	if len(nb.Epub) == 0 {
		return missingFieldError(FormFieldEpub)
	}

	return nil
}

// DecodeUpdateBookRequestBody is a helper function to read the content of a book edit request.
func DecodeUpdateBookRequestBody(r *http.Request, update *BookUpdate) error {
	if r.Body == nil {
		return errors.New("invalid update book request body")
	}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		return err
	}
	update.BookName = strings.TrimSpace(update.BookName)
	update.AuthorName = strings.TrimSpace(update.AuthorName)
	return nil
}

// ValidateUpdateBookRequest checks that an edit payload carries both text fields.
func ValidateUpdateBookRequest(update *BookUpdate) error {
	if len(update.BookName) == 0 {
		return missingFieldError(FormFieldBookName)
	}

	if len(update.AuthorName) == 0 {
		return missingFieldError(FormFieldAuthorName)
	}

	return nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
