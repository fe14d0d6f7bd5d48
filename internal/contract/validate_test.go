package contract

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/docintel/internal/docparse"
)

func TestValidateEmptyFields(t *testing.T) {
	p := docparse.NewParser()
	b, err := json.Marshal(p.Parse(""))
	require.NoError(t, err)

	assert.NoError(t, ValidateMetadataJSON(b))
}

func TestValidatePopulatedFields(t *testing.T) {
	p := &docparse.Parser{Now: func() time.Time {
		return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	}}
	fields := p.Parse(`Insurance Policy Number: POL-100
Expiration Date: 12/31/2026
Renewal Date: 12/01/2026
Account No: AC-551
Total due: $199.99
billing@example.com
(555) 123-4567`)

	b, err := json.Marshal(fields)
	require.NoError(t, err)

	assert.NoError(t, ValidateMetadataJSON(b))
}

func TestValidateRejectsMissingDates(t *testing.T) {
	err := ValidateMetadataJSON([]byte(`{"policy_number":"P-1"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract")
}

func TestValidateRejectsUnknownField(t *testing.T) {
	err := ValidateMetadataJSON([]byte(`{"dates":[],"ssn":"000-00-0000"}`))
	assert.Error(t, err)
}

func TestValidateRejectsWrongTypes(t *testing.T) {
	cases := []string{
		`{"dates":"not-an-array"}`,
		`{"dates":[],"amount":"12.50"}`,
		`{"dates":[],"currency":"US"}`,
		`{"dates":["March 5"]}`,
	}
	for _, c := range cases {
		assert.Error(t, ValidateMetadataJSON([]byte(c)), c)
	}
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	assert.Error(t, ValidateMetadataJSON([]byte(`{`)))
}
