package media_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-media/internal/domain"
	media_h "storefront-media/internal/http-server/handler/media"
	"storefront-media/internal/http-server/router"
	"storefront-media/internal/pipeline"
	media_uc "storefront-media/internal/usecase/media"

	"github.com/wb-go/wbf/zlog"
)

type fakeUsecase struct {
	uploadAsset    *domain.StoredAsset
	uploadVersions domain.VersionSet
	uploadErr      error
	inspectAsset   *domain.StoredAsset
	inspectErr     error
	deleteErr      error
	deletedPaths   []string
}

func (f *fakeUsecase) Upload(ctx context.Context, file media_uc.UploadFile, t domain.ImageType) (*domain.StoredAsset, domain.VersionSet, error) {
	if f.uploadErr != nil {
		return nil, nil, f.uploadErr
	}
	return f.uploadAsset, f.uploadVersions, nil
}

func (f *fakeUsecase) Replace(ctx context.Context, file *media_uc.UploadFile, oldPath string, t domain.ImageType) (*domain.StoredAsset, domain.VersionSet, error) {
	if file == nil {
		return &domain.StoredAsset{Path: oldPath}, nil, nil
	}
	return f.Upload(ctx, *file, t)
}

func (f *fakeUsecase) StoreMany(ctx context.Context, files []media_uc.UploadFile, t domain.ImageType) []media_uc.BatchItem {
	items := make([]media_uc.BatchItem, 0, len(files))
	for _, file := range files {
		asset, versions, err := f.Upload(ctx, file, t)
		items = append(items, media_uc.BatchItem{Filename: file.Name, Asset: asset, Versions: versions, Err: err})
	}
	return items
}

func (f *fakeUsecase) Inspect(ctx context.Context, path string) (*domain.StoredAsset, error) {
	return f.inspectAsset, f.inspectErr
}

func (f *fakeUsecase) Delete(ctx context.Context, path string) error {
	f.deletedPaths = append(f.deletedPaths, path)
	return f.deleteErr
}

func (f *fakeUsecase) List(ctx context.Context, t domain.ImageType) ([]domain.AssetRecord, error) {
	return nil, nil
}

func newServer(t *testing.T, fake *fakeUsecase) http.Handler {
	t.Helper()
	zlog.Init()

	h := media_h.NewMediaHandler(fake, &zlog.Logger)
	return router.SetupRouter(&router.Handler{MediaHandler: h})
}

func multipartBody(t *testing.T, field, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if filename != "" {
		fw, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func smallJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestUploadReturnsCreated(t *testing.T) {
	fake := &fakeUsecase{
		uploadAsset: &domain.StoredAsset{
			Path: "storage/products/abc.jpg", Width: 400, Height: 300,
			SizeBytes: 1234, ContentType: "image/jpeg",
		},
	}
	srv := newServer(t, fake)

	body, contentType := multipartBody(t, "image", "shoe.jpg", smallJPEG(t), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/media/product/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Asset struct {
			Path string `json:"path"`
		} `json:"asset"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Asset.Path != "storage/products/abc.jpg" {
		t.Errorf("unexpected path %q", resp.Asset.Path)
	}
}

func TestUploadUnknownTypeIsRejected(t *testing.T) {
	srv := newServer(t, &fakeUsecase{})

	body, contentType := multipartBody(t, "image", "x.jpg", smallJPEG(t), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/media/banner/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestUploadMissingFile(t *testing.T) {
	srv := newServer(t, &fakeUsecase{})

	body, contentType := multipartBody(t, "image", "", nil, map[string]string{"noise": "1"})
	req := httptest.NewRequest(http.MethodPost, "/api/media/product/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing file, got %d", rec.Code)
	}
}

func TestUploadOversizedFileMapsTo413(t *testing.T) {
	// A real validation failure from the pipeline, so the handler sees the
	// wrapped size sentinel.
	profile := domain.DefaultProfiles()[domain.TypeProduct]
	profile.MaxBytes = 16
	err := pipeline.NewValidator().Validate(smallJPEG(t), "big.jpg", profile)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	srv := newServer(t, &fakeUsecase{uploadErr: err})

	body, contentType := multipartBody(t, "image", "big.jpg", smallJPEG(t), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/media/product/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInspectNotFound(t *testing.T) {
	srv := newServer(t, &fakeUsecase{inspectErr: fmt.Errorf("%w: gone", media_uc.ErrAssetNotFound)})

	req := httptest.NewRequest(http.MethodGet, "/api/media/inspect?path=storage/products/gone.jpg", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestInspectRequiresStoragePath(t *testing.T) {
	srv := newServer(t, &fakeUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/api/media/inspect?path=/etc/passwd", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteReturnsNoContent(t *testing.T) {
	fake := &fakeUsecase{}
	srv := newServer(t, fake)

	req := httptest.NewRequest(http.MethodDelete, "/api/media/?path=storage/products/old.jpg", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(fake.deletedPaths) != 1 || fake.deletedPaths[0] != "storage/products/old.jpg" {
		t.Errorf("unexpected deleted paths %v", fake.deletedPaths)
	}
}

func TestReplaceWithoutFileKeepsPath(t *testing.T) {
	srv := newServer(t, &fakeUsecase{})

	body, contentType := multipartBody(t, "image", "", nil, map[string]string{"old_path": "storage/brand_images/logo.jpg"})
	req := httptest.NewRequest(http.MethodPut, "/api/media/brand/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Path != "storage/brand_images/logo.jpg" {
		t.Errorf("expected old path back, got %q", resp.Path)
	}
}
