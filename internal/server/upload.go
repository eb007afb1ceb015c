package server

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"insurance-claims/backend/internal/apperr"
)

// maxDocuments caps the number of documents attached to one claim.
const maxDocuments = 5

var allowedDocExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// saveDocuments stores the uploaded claim documents under the upload dir and
// returns their generated filenames. Files are stored as opaque references;
// the claim row only keeps the names.
func (s *Server) saveDocuments(r *http.Request) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["documents"]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > maxDocuments {
		return nil, apperr.Validation(fmt.Sprintf("At most %d documents are allowed", maxDocuments))
	}
	names := make([]string, 0, len(files))
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedDocExts[ext] {
			return nil, apperr.Validation("Invalid file type. Only images and documents allowed.")
		}
		if fh.Size > s.maxUploadBytes {
			return nil, apperr.Validation("File too large. Maximum size is 5 MB.")
		}
		name := fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
		if err := saveFile(fh, filepath.Join(s.uploadDir, name)); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func saveFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}
