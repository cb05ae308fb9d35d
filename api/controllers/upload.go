package controllers

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/moviereview-backend/api/responses"
	"github.com/angelmondragon/moviereview-backend/internal/images"
	pkgerrors "github.com/angelmondragon/moviereview-backend/pkg/errors"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
)

const (
	uploadField        = "image"
	multipartOverhead  = 1 << 20
	multipartMemoryCap = 8 << 20
	defaultUploadLimit = 10 << 20
)

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	FilePath string `json:"filePath"`
}

// ImageUpload handles POST /upload with a single multipart file under "image".
func ImageUpload(store images.Store, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = defaultUploadLimit
	}
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemoryCap); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeTooLarge, "image exceeds upload limit").
					WithDetails(map[string]any{"max_bytes": maxBytes}))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image is required"))
			return
		}
		defer file.Close()

		ctx := logg.WithFields(r.Context(), map[string]any{"file_name": header.Filename, "file_size": header.Size})
		filePath, err := store.Save(ctx, header.Filename, file)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		logg.Info(logg.WithField(ctx, "file_path", filePath), "image.uploaded")
		responses.WriteSuccess(w, UploadResponse{FilePath: filePath})
	}
}
