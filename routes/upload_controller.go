package routes

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/log"
)

const maxUploadSize = 5 << 20

var allowedPhotoExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// UploadPhoto accepts a multipart photo upload and stores it under a dated
// directory with a generated name, so client filenames never reach the disk.
func UploadPhoto(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			httpx.Fail(w, r, "file too large (5MB max)")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_form_file")
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedPhotoExts[ext] {
			httpx.Fail(w, r, "unsupported file type")
			return
		}

		now := time.Now()
		dir := filepath.Join(app.UploadDir, now.Format("2006/01/02"))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			httpx.LogInternalError(w, "upload.mkdir", err)
			return
		}

		filename := fmt.Sprintf("%s_%s%s", now.Format("150405"), uuid.NewString(), ext)
		path := filepath.Join(dir, filename)

		out, err := os.Create(path)
		if err != nil {
			httpx.LogInternalError(w, "upload.create_file", err)
			return
		}
		defer out.Close()

		size, err := io.Copy(out, file)
		if err != nil {
			os.Remove(path)
			httpx.LogInternalError(w, "upload.write_file", err)
			return
		}

		httpx.Success(w, r, "uploaded", map[string]any{
			"filename": filename,
			"path":     filepath.ToSlash(filepath.Join(now.Format("2006/01/02"), filename)),
			"size":     size,
		})
	}
}
