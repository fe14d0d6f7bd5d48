package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDocumentsXLSX(t *testing.T) {
	exp := time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC)
	amount := 1284.50
	rows := []Row{
		{
			Filename:       "policy.pdf",
			Category:       "insurance_policy",
			Confidence:     95,
			ExpirationDate: &exp,
			PolicyNumber:   "AP-2024-55810",
			Amount:         &amount,
			Currency:       "USD",
			Email:          "claims@insureco.example",
			SourcePath:     "/inbox/policy.pdf",
			ProcessedAt:    time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Filename:   "scan.png",
			Category:   "general",
			Confidence: 42.5,
			SourcePath: "/inbox/scan.png",
		},
	}

	data, err := DocumentsXLSX(rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Filename", got[0][0])
	assert.Equal(t, "policy.pdf", got[1][0])
	assert.Equal(t, "insurance_policy", got[1][1])
	assert.Equal(t, "95.0", got[1][2])
	assert.Equal(t, "2027-01-15", got[1][3])
	assert.Equal(t, "AP-2024-55810", got[1][5])
	assert.Equal(t, "1284.50", got[1][7])
	assert.Equal(t, "scan.png", got[2][0])
	assert.Equal(t, "42.5", got[2][2])
}

func TestDocumentsXLSXEmpty(t *testing.T) {
	data, err := DocumentsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, got, 1, "header row only")
}
