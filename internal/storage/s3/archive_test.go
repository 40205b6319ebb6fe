package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplierx/internal/config"
	"supplierx/internal/port"
)

type capturedPut struct {
	path        string
	contentType string
	disposition string
	body        []byte
}

func newTestArchive(t *testing.T, handler http.HandlerFunc, expiry int64) port.ExportArchive {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	archive, err := NewExportArchive(&config.S3Config{
		Region:        "us-east-1",
		Bucket:        "exports",
		Endpoint:      srv.URL,
		AccessKey:     "AKIDTEST",
		SecretKey:     "secret",
		PresignExpiry: expiry,
	})
	require.NoError(t, err)
	return archive
}

func TestExportArchive_Put(t *testing.T) {
	var (
		mu  sync.Mutex
		got capturedPut
	)
	archive := newTestArchive(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = capturedPut{
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			disposition: r.Header.Get("Content-Disposition"),
			body:        body,
		}
		mu.Unlock()
		w.Header().Set("ETag", `"abc123"`)
		w.WriteHeader(http.StatusOK)
	}, 600)

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	archive.(*exportArchive).now = func() time.Time { return fixed }

	out, err := archive.Put(context.Background(), port.ExportObject{
		Key:         "exports/2026-03-01/run/supplier_data.xlsx",
		Filename:    "supplier_data.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        []byte("PK workbook"),
	})

	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/exports/exports/2026-03-01/run/supplier_data.xlsx", got.path)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", got.contentType)
	assert.Equal(t, `attachment; filename="supplier_data.xlsx"`, got.disposition)
	assert.Equal(t, "PK workbook", string(got.body))

	assert.Equal(t, "exports/2026-03-01/run/supplier_data.xlsx", out.Key)
	assert.Equal(t, fixed.Add(10*time.Minute), out.ExpiresAt)
	signed, err := url.Parse(out.URL)
	require.NoError(t, err)
	assert.Equal(t, "/exports/exports/2026-03-01/run/supplier_data.xlsx", signed.Path)
	assert.Equal(t, "600", signed.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, signed.Query().Get("X-Amz-Signature"))
}

func TestExportArchive_Put_UploadError(t *testing.T) {
	archive := newTestArchive(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`))
	}, 0)

	out, err := archive.Put(context.Background(), port.ExportObject{
		Key:         "exports/k/supplier_data.xlsx",
		Filename:    "supplier_data.xlsx",
		ContentType: "application/octet-stream",
		Data:        []byte("x"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 upload exports/k/supplier_data.xlsx")
	assert.Nil(t, out)
}

func TestNewExportArchive_DefaultExpiry(t *testing.T) {
	archive, err := NewExportArchive(&config.S3Config{Region: "us-east-1", Bucket: "b", AccessKey: "a", SecretKey: "s"})

	require.NoError(t, err)
	assert.Equal(t, time.Hour, archive.(*exportArchive).expiry)
}

func TestNewExportArchive_RequiresBucket(t *testing.T) {
	_, err := NewExportArchive(&config.S3Config{Region: "us-east-1"})

	assert.Error(t, err)
}
