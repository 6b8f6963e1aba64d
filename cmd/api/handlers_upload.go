package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// uploadImage accepts a multipart "image" field, verifies it really is a
// jpeg/png by sniffing the content rather than trusting the client header,
// and writes it under the upload directory.
func (app *application) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			app.badRequest(w, "file too large")
			return
		}
		app.badRequest(w, "image file is required")
		return
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		app.serverError(w, err)
		return
	}
	contentType := http.DetectContentType(sniff[:n])
	if !allowedImageTypes[contentType] {
		app.clientError(w, http.StatusUnsupportedMediaType, "unsupported file format")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		app.serverError(w, err)
		return
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFilename(header.Filename))
	dst, err := os.Create(filepath.Join(app.cfg.UploadDir, name))
	if err != nil {
		app.serverError(w, err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		app.serverError(w, err)
		return
	}

	app.writeJSON(w, http.StatusCreated, envelope{
		"message": "image uploaded",
		"image":   "/uploads/" + name,
	})
}

// sanitizeFilename strips path components and whitespace so the stored name
// is safe to join onto the upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload"
	}
	return name
}
