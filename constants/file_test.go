package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatForContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want string
	}{
		{"application/pdf", PDF},
		{"APPLICATION/PDF", PDF},
		{"application/pdf; charset=binary", PDF},
		{"image/png", IMAGE},
		{"image/jpeg", IMAGE},
		{"image/tiff; foo=bar", IMAGE},
		{"text/plain", ""},
		{"application/msword", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatForContentType(tt.ct), tt.ct)
	}
}

func TestContentTypeForExt(t *testing.T) {
	assert.Equal(t, MIMEPDF, ContentTypeForExt(".PDF"))
	assert.Equal(t, "image/jpeg", ContentTypeForExt("jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeForExt("jpeg"))
	assert.Equal(t, "image/tiff", ContentTypeForExt("tif"))
	assert.Equal(t, "", ContentTypeForExt("docx"))
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "png", NormalizeExt("png"))
	assert.Equal(t, "", NormalizeExt("."))
}
