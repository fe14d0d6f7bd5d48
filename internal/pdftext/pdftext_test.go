package pdftext

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	assert.Equal(t, "pdf-text", New(nil).Name())
}

func TestExtractRejectsNonPDF(t *testing.T) {
	b := New(nil)

	for _, data := range [][]byte{
		nil,
		{},
		[]byte("plain text, not a pdf"),
		[]byte("%PDF-1.7 truncated before any xref"),
		bytes.Repeat([]byte{0x00}, 2048),
	} {
		_, err := b.Extract(context.Background(), data)
		require.Error(t, err, "input %q must fail, not panic", data)
	}
}

func TestConfidenceConstant(t *testing.T) {
	// a successful text-layer read always reports this value
	assert.Equal(t, float32(95), float32(Confidence))
}
