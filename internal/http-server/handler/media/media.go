package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"storefront-media/internal/domain"
	"storefront-media/internal/http-server/handler/media/dto"
	"storefront-media/internal/pipeline"
	media_uc "storefront-media/internal/usecase/media"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const (
	maxMemory      = 32 << 20
	maxRequestSize = 64 << 20
)

type MediaHandler struct {
	usecase  mediaUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewMediaHandler(usecase mediaUsecase, logger *zlog.Zerolog) *MediaHandler {
	return &MediaHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	imageType, ok := h.parseType(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.respondError(w, http.StatusBadRequest, "Invalid request format", "")
		return
	}

	file, ok := h.readFile(w, r, "image")
	if !ok {
		return
	}

	asset, versions, err := h.usecase.Upload(ctx, *file, imageType)
	if err != nil {
		h.handleUploadError(w, err, file.Name)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.UploadResponse{
		Asset:    assetResponse(*asset),
		Versions: versionResponses(versions),
	})
}

func (h *MediaHandler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	imageType, ok := h.parseType(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.respondError(w, http.StatusBadRequest, "Invalid request format", "")
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		h.respondError(w, http.StatusBadRequest, "At least one file is required", "images")
		return
	}

	files := make([]media_uc.UploadFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readFileHeader(fh)
		if err != nil {
			h.logger.Error().Err(err).Str("filename", fh.Filename).Msg("Failed to read file")
			h.respondError(w, http.StatusInternalServerError, "Failed to read file", "")
			return
		}
		files = append(files, media_uc.UploadFile{Name: fh.Filename, Data: data})
	}

	items := h.usecase.StoreMany(ctx, files, imageType)

	response := dto.BatchResponse{
		Stored: []dto.BatchItemResponse{},
		Failed: []dto.BatchItemResponse{},
	}
	for _, item := range items {
		if item.Err != nil {
			response.Failed = append(response.Failed, dto.BatchItemResponse{
				Filename: item.Filename,
				Error:    userMessage(item.Err),
			})
			continue
		}
		a := assetResponse(*item.Asset)
		response.Stored = append(response.Stored, dto.BatchItemResponse{
			Filename: item.Filename,
			Asset:    &a,
		})
	}

	h.respondJSON(w, http.StatusOK, response)
}

func (h *MediaHandler) Replace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	imageType, ok := h.parseType(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.respondError(w, http.StatusBadRequest, "Invalid request format", "")
		return
	}

	oldPath := r.FormValue("old_path")

	var file *media_uc.UploadFile
	f, fh, err := r.FormFile("image")
	switch {
	case err == nil:
		defer f.Close()
		data, readErr := io.ReadAll(f)
		if readErr != nil {
			h.logger.Error().Err(readErr).Str("filename", fh.Filename).Msg("Failed to read file")
			h.respondError(w, http.StatusInternalServerError, "Failed to read file", "")
			return
		}
		file = &media_uc.UploadFile{Name: fh.Filename, Data: data}
	case errors.Is(err, http.ErrMissingFile):
		// No new file keeps the current image.
	default:
		h.respondError(w, http.StatusBadRequest, "Invalid request format", "")
		return
	}

	asset, versions, err := h.usecase.Replace(ctx, file, oldPath, imageType)
	if err != nil {
		h.handleUploadError(w, err, "")
		return
	}

	response := dto.ReplaceResponse{Path: asset.Path}
	if file != nil {
		a := assetResponse(*asset)
		response.Asset = &a
		response.Versions = versionResponses(versions)
	}

	h.respondJSON(w, http.StatusOK, response)
}

func (h *MediaHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := dto.InspectRequest{Path: r.URL.Query().Get("path")}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "A path rooted at storage/ is required", "path")
		return
	}

	asset, err := h.usecase.Inspect(ctx, req.Path)
	if err != nil {
		h.handleInspectError(w, err, req.Path)
		return
	}

	h.respondJSON(w, http.StatusOK, assetResponse(*asset))
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := dto.DeleteRequest{Path: r.URL.Query().Get("path")}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "A path rooted at storage/ is required", "path")
		return
	}

	if err := h.usecase.Delete(ctx, req.Path); err != nil {
		if errors.Is(err, domain.ErrInvalidPublicPath) {
			h.respondError(w, http.StatusBadRequest, "Invalid asset path", "path")
			return
		}
		h.logger.Error().Err(err).Str("path", req.Path).Msg("Failed to delete asset")
		h.respondError(w, http.StatusInternalServerError, "Failed to delete asset", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	imageType, ok := h.parseType(w, r)
	if !ok {
		return
	}

	records, err := h.usecase.List(ctx, imageType)
	if err != nil {
		h.logger.Error().Err(err).Str("type", string(imageType)).Msg("Failed to list assets")
		h.respondError(w, http.StatusInternalServerError, "Failed to list assets", "")
		return
	}

	response := dto.ListResponse{
		Type:   string(imageType),
		Assets: make([]dto.AssetRecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		response.Assets = append(response.Assets, dto.AssetRecordResponse{
			ID:          rec.ID,
			Type:        string(rec.Type),
			Version:     rec.Version,
			Path:        rec.Path,
			Width:       rec.Width,
			Height:      rec.Height,
			SizeBytes:   rec.SizeBytes,
			ContentType: rec.ContentType,
			CreatedAt:   rec.CreatedAt,
		})
	}

	h.respondJSON(w, http.StatusOK, response)
}

func (h *MediaHandler) parseType(w http.ResponseWriter, r *http.Request) (domain.ImageType, bool) {
	imageType, err := domain.ParseImageType(chi.URLParam(r, "type"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "type")
		return "", false
	}
	return imageType, true
}

func (h *MediaHandler) readFile(w http.ResponseWriter, r *http.Request, field string) (*media_uc.UploadFile, bool) {
	f, fh, err := r.FormFile(field)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required", field)
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", fh.Filename).Msg("Failed to read file")
		h.respondError(w, http.StatusInternalServerError, "Failed to read file", "")
		return nil, false
	}

	return &media_uc.UploadFile{Name: fh.Filename, Data: data}, true
}

func (h *MediaHandler) handleUploadError(w http.ResponseWriter, err error, filename string) {
	var verr *pipeline.ValidationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		if errors.Is(err, pipeline.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.respondError(w, status, verr.Message, verr.Field)
	case errors.Is(err, pipeline.ErrDecode):
		h.logger.Warn().Err(err).Str("filename", filename).Msg("Image processing failed")
		h.respondError(w, http.StatusUnprocessableEntity, "Uploaded file could not be processed", "image")
	case errors.Is(err, domain.ErrUnknownImageType):
		h.respondError(w, http.StatusBadRequest, err.Error(), "type")
	default:
		h.logger.Error().Err(err).Str("filename", filename).Msg("Upload failed")
		h.respondError(w, http.StatusInternalServerError, "Failed to store image", "")
	}
}

func (h *MediaHandler) handleInspectError(w http.ResponseWriter, err error, path string) {
	switch {
	case errors.Is(err, media_uc.ErrAssetNotFound):
		h.respondError(w, http.StatusNotFound, "Asset not found", "path")
	case errors.Is(err, domain.ErrInvalidPublicPath):
		h.respondError(w, http.StatusBadRequest, "Invalid asset path", "path")
	default:
		h.logger.Error().Err(err).Str("path", path).Msg("Failed to inspect asset")
		h.respondError(w, http.StatusInternalServerError, "Failed to inspect asset", "")
	}
}

// userMessage keeps internal detail out of batch results: validation
// failures are surfaced verbatim, everything else collapses to a generic
// message.
func userMessage(err error) string {
	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if errors.Is(err, pipeline.ErrDecode) {
		return "file could not be processed"
	}
	return "failed to store file"
}

func assetResponse(asset domain.StoredAsset) dto.AssetResponse {
	return dto.AssetResponse{
		Path:        asset.Path,
		Width:       asset.Width,
		Height:      asset.Height,
		SizeBytes:   asset.SizeBytes,
		ContentType: asset.ContentType,
	}
}

func versionResponses(versions domain.VersionSet) map[string]dto.AssetResponse {
	if len(versions) == 0 {
		return nil
	}
	out := make(map[string]dto.AssetResponse, len(versions))
	for name, asset := range versions {
		out[name] = assetResponse(asset)
	}
	return out
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *MediaHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *MediaHandler) respondError(w http.ResponseWriter, status int, message, field string) {
	h.respondJSON(w, status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Field:   field,
	})
}
