package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apcaballes87/cake-genie/internal/entity"
)

type stubUploads struct {
	rec  *entity.UploadRecord
	comp *entity.CompressionResult
	err  error
}

func (s *stubUploads) Submit(ctx context.Context, src *entity.SourceFile) (*entity.UploadRecord, *entity.CompressionResult, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.rec, s.comp, nil
}

func (s *stubUploads) State() entity.StateSnapshot {
	return entity.StateSnapshot{State: entity.StateIdle}
}

func (s *stubUploads) Dismiss() {}

type stubPricing struct {
	estimate *entity.PriceEstimate
	err      error
}

func (s *stubPricing) BeginPolling(generation uint64, id string) {}

func (s *stubPricing) Lookup(ctx context.Context, id string) (*entity.PriceEstimate, error) {
	return s.estimate, s.err
}

func (s *stubPricing) Refresh(ctx context.Context, id string) (*entity.PriceEstimate, error) {
	return s.estimate, s.err
}

func (s *stubPricing) Stop() {}

func newTestRouter(uploads *stubUploads, pricing *stubPricing) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewEstimateHandler(uploads, pricing, 10<<20)
	return InitRoutes(handler, 5*time.Second)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadCakeWithoutFile(t *testing.T) {
	router := newTestRouter(&stubUploads{}, &stubPricing{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadCakeSuccess(t *testing.T) {
	uploads := &stubUploads{
		rec: &entity.UploadRecord{
			ID:        "11111111-2222-3333-4444-555555555555",
			PublicURL: "https://cdn.example.com/uploads/1-aa.jpg",
		},
		comp: &entity.CompressionResult{Ratio: 2.5, CompressedSize: 400, OriginalSize: 1000},
	}
	router := newTestRouter(uploads, &stubPricing{})

	body, contentType := multipartBody(t, "image", "cake.jpg", []byte("fake image bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp entity.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uploads.rec.ID, resp.ID)
	assert.Equal(t, "processing", resp.Status)
	require.NotNil(t, resp.Compression)
	assert.Equal(t, 2.5, resp.Compression.Ratio)
}

func TestUploadCakeErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: entity.ErrImageTooSmall, wantStatus: http.StatusBadRequest},
		{name: "in flight", err: entity.ErrUploadInFlight, wantStatus: http.StatusConflict},
		{name: "configuration", err: entity.ErrConfiguration, wantStatus: http.StatusInternalServerError},
		{name: "storage", err: entity.ErrStorageFailure, wantStatus: http.StatusBadGateway},
		{name: "database", err: entity.ErrDatabaseFailure, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubUploads{err: tt.err}, &stubPricing{})

			body, contentType := multipartBody(t, "image", "cake.jpg", []byte("fake image bytes"))
			req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetEstimateWhileProcessing(t *testing.T) {
	router := newTestRouter(&stubUploads{}, &stubPricing{})

	req := httptest.NewRequest(http.MethodGet, "/api/estimate/abc-123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp entity.EstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "processing", resp.Status)
	assert.Nil(t, resp.Estimate)
}

func TestGetEstimateComplete(t *testing.T) {
	pricing := &stubPricing{
		estimate: &entity.PriceEstimate{ID: "abc-123", PriceAddon: "+150", HasRealData: true},
	}
	router := newTestRouter(&stubUploads{}, pricing)

	req := httptest.NewRequest(http.MethodGet, "/api/estimate/abc-123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp entity.EstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "complete", resp.Status)
	require.NotNil(t, resp.Estimate)
	assert.Equal(t, "+150", resp.Estimate.PriceAddon)
	assert.True(t, resp.Estimate.HasRealData)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubUploads{}, &stubPricing{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
