package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "tesseract", cfg.OCR.Tesseract)
	assert.Equal(t, "eng", cfg.OCR.Lang)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, float32(60), cfg.Pipeline.MinImageConfidence)
	assert.Equal(t, 500*time.Millisecond, cfg.Ingest.Debounce)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/docintel")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("TESSERACT_PSM", "6")
	t.Setenv("PIPELINE_TIMEOUT", "90s")
	t.Setenv("MIN_IMAGE_CONFIDENCE", "75.5")

	cfg := LoadConfig()
	assert.Equal(t, "postgres://localhost/docintel", cfg.Database.DSN)
	assert.Equal(t, ":9999", cfg.Server.HTTPAddr)
	assert.Equal(t, 6, cfg.OCR.PSM)
	assert.Equal(t, 90*time.Second, cfg.Pipeline.ProcessTimeout)
	assert.InDelta(t, 75.5, float64(cfg.Pipeline.MinImageConfidence), 0.001)
}

func TestLoadConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("PIPELINE_WORKERS", "not-a-number")
	t.Setenv("INBOX_DEBOUNCE", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Ingest.Debounce)
}

func TestValidate(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/docintel")
	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	cfg.Database.DSN = ""
	err := cfg.Validate()
	require.Error(t, err)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
