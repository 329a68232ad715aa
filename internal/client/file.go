package client

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is an in-memory upload payload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// OpenFile reads path into a File. The content type comes from the file
// extension, falling back to content sniffing.
func OpenFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}

	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: ct,
		Data:        data,
	}, nil
}
