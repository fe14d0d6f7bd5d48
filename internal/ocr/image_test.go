package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	text    string
	tsv     string
	textErr error
	tsvErr  error
	calls   [][]string
}

func (s *stubRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, args)
	if len(args) > 0 && args[len(args)-1] == "tsv" {
		return []byte(s.tsv), nil, s.tsvErr
	}
	return []byte(s.text), nil, s.textErr
}

func tsvLine(conf string) string {
	cols := make([]string, 12)
	for i := range cols {
		cols[i] = "0"
	}
	cols[len(cols)-1] = conf
	return strings.Join(cols, "\t")
}

func newTestBackend(r Runner, cfg Config) *Backend {
	b := NewBackend(cfg, nil)
	b.runner = r
	return b
}

func TestExtractReturnsRecognizerTextUnmodified(t *testing.T) {
	raw := "  RECEIPT\n\nTotal: $12.00  \n"
	runner := &stubRunner{
		text: raw,
		tsv:  "header\n" + tsvLine("90") + "\n" + tsvLine("80") + "\n",
	}
	b := newTestBackend(runner, Config{})

	res, err := b.Extract(context.Background(), []byte("fake-image"))
	require.NoError(t, err)

	assert.Equal(t, raw, res.Text, "text must pass through without trimming or cleanup")
	assert.Equal(t, 1, res.Pages)
}

func TestExtractMeanWordConfidence(t *testing.T) {
	runner := &stubRunner{
		text: "hello",
		tsv: strings.Join([]string{
			"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext",
			tsvLine("90"),
			tsvLine("-1"), // structural row, no word
			tsvLine("80"),
			tsvLine("70"),
			"",
		}, "\n"),
	}
	b := newTestBackend(runner, Config{})

	res, err := b.Extract(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.InDelta(t, 80.0, float64(res.Confidence), 0.001)
}

func TestExtractConfidenceBestEffort(t *testing.T) {
	runner := &stubRunner{text: "recognized text", tsvErr: errors.New("tsv mode broken")}
	b := newTestBackend(runner, Config{})

	res, err := b.Extract(context.Background(), []byte("img"))
	require.NoError(t, err, "a confidence failure must not fail the extraction")
	assert.Equal(t, "recognized text", res.Text)
	assert.Equal(t, float32(0), res.Confidence)
}

func TestExtractRecognitionError(t *testing.T) {
	cause := errors.New("exit status 1")
	runner := &stubRunner{textErr: cause}
	b := newTestBackend(runner, Config{})

	_, err := b.Extract(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestExtractProgressIsMonotonic(t *testing.T) {
	var pcts []int
	runner := &stubRunner{text: "x", tsv: "h\n" + tsvLine("50") + "\n"}
	b := newTestBackend(runner, Config{Progress: func(pct int) { pcts = append(pcts, pct) }})

	_, err := b.Extract(context.Background(), []byte("img"))
	require.NoError(t, err)

	require.NotEmpty(t, pcts)
	assert.Equal(t, 0, pcts[0])
	assert.Equal(t, 100, pcts[len(pcts)-1])
	for i := 1; i < len(pcts); i++ {
		assert.GreaterOrEqual(t, pcts[i], pcts[i-1])
	}
}

func TestArgsIncludeFlags(t *testing.T) {
	runner := &stubRunner{text: "x", tsv: ""}
	b := newTestBackend(runner, Config{Lang: "deu", PSM: 6, OEM: 1, TessdataDir: "/opt/tessdata"})

	_, err := b.Extract(context.Background(), []byte("img"))
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	joined := strings.Join(runner.calls[0], " ")
	assert.Contains(t, joined, "-l deu")
	assert.Contains(t, joined, "--psm 6")
	assert.Contains(t, joined, "--oem 1")
	assert.Contains(t, joined, "--tessdata-dir /opt/tessdata")
	assert.Equal(t, "tsv", runner.calls[1][len(runner.calls[1])-1])
}
