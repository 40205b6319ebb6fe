package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"supplierx/internal/domain"
	"supplierx/internal/export"
)

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"-o", "out.xlsx", "a.xlsx", "b.pdf"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "out.xlsx", opts.out)
	assert.Equal(t, "xlsx", opts.format)
	assert.Equal(t, []string{"a.xlsx", "b.pdf"}, opts.files)

	opts, err = parseArgs([]string{"-format", "csv", "a.xlsx"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, export.CSVFilename, opts.out)

	opts, err = parseArgs([]string{"a.xlsx"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, export.Filename, opts.out)
}

func TestParseArgs_Errors(t *testing.T) {
	_, err := parseArgs([]string{"-o", "out.xlsx"}, io.Discard)
	assert.ErrorIs(t, err, domain.ErrNoFiles)

	_, err = parseArgs([]string{"-format", "pdf", "a.xlsx"}, io.Discard)
	assert.Error(t, err)

	_, err = parseArgs([]string{"-bogus"}, io.Discard)
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "Suppliers.xlsx")
	png := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(xlsx, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(png, []byte("y"), 0o600))

	files, err := loadFiles([]string{xlsx, png})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Suppliers.xlsx", files[0].Name)
	assert.Equal(t, domain.MediaTypeXLSX, files[0].MediaType)
	assert.Equal(t, []byte("x"), files[0].Bytes)
	assert.Equal(t, "application/octet-stream", files[1].MediaType)

	_, err = loadFiles([]string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)
}

func TestRun_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-cli", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"supplier name\":\"Acme\"}"}}]}`))
	}))
	defer server.Close()

	t.Setenv("SUPPLIERX_LLM_API_KEY", "sk-cli")
	t.Setenv("SUPPLIERX_LLM_ENDPOINT", server.URL)
	t.Setenv("SUPPLIERX_TEXTRACT_ENABLED", "false")

	dir := t.TempDir()
	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]interface{}{"Supplier", "Phone"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]interface{}{"Acme", "555-0100"}))
	input := filepath.Join(dir, "suppliers.xlsx")
	require.NoError(t, wb.SaveAs(input))
	require.NoError(t, wb.Close())
	image := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(image, []byte{0x89, 'P', 'N', 'G'}, 0o600))

	out := filepath.Join(dir, "out.xlsx")
	require.NoError(t, run([]string{"-o", out, input, image}, io.Discard))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"filename", "supplier name"}, {"suppliers.xlsx", "Acme"}}, rows)
}

func TestRun_MissingCredential(t *testing.T) {
	t.Setenv("SUPPLIERX_LLM_API_KEY", "")
	t.Setenv("SUPPLIERX_TEXTRACT_ENABLED", "false")

	dir := t.TempDir()
	input := filepath.Join(dir, "a.xlsx")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o600))

	err := run([]string{"-o", filepath.Join(dir, "out.xlsx"), input}, io.Discard)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}
