package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/docparse"
	"github.com/lifedash/docintel/internal/extract"
	"github.com/lifedash/docintel/internal/repository"
)

type fakeDocs struct {
	doc *repository.Document
}

func (f *fakeDocs) GetByID(_ context.Context, id uuid.UUID) (*repository.Document, error) {
	if f.doc == nil || f.doc.ID != id {
		return nil, errors.New("no such document")
	}
	return f.doc, nil
}

func (f *fakeDocs) GetByHash(context.Context, []byte) (*repository.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDocs) UpsertByHash(context.Context, *repository.Document) (*repository.Document, bool, error) {
	return nil, false, errors.New("not implemented")
}

func (f *fakeDocs) List(context.Context, int) ([]*repository.Document, error) {
	return nil, errors.New("not implemented")
}

type fakeJobs struct {
	started       []string // formats
	jobID         uuid.UUID
	success       *repository.ExtractOutcome
	failureReason string
}

func (f *fakeJobs) Start(_ context.Context, documentID uuid.UUID, format string) (*repository.ExtractJob, error) {
	f.started = append(f.started, format)
	f.jobID = uuid.New()
	return &repository.ExtractJob{ID: f.jobID, DocumentID: documentID, Format: format, Status: constants.JobStatusRunning}, nil
}

func (f *fakeJobs) FinishSuccess(_ context.Context, _ uuid.UUID, out repository.ExtractOutcome) error {
	f.success = &out
	return nil
}

func (f *fakeJobs) FinishFailure(_ context.Context, _ uuid.UUID, msg string) error {
	f.failureReason = msg
	return nil
}

func (f *fakeJobs) GetByID(context.Context, uuid.UUID) (*repository.ExtractJob, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeJobs) LatestForDocument(context.Context, uuid.UUID) (*repository.ExtractJob, error) {
	return nil, errors.New("not implemented")
}

type fakeExtractor struct {
	result      extract.Result
	err         error
	contentType string
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, contentType string) (extract.Result, error) {
	f.contentType = contentType
	return f.result, f.err
}

func writeDoc(t *testing.T, name string) (*repository.Document, uuid.UUID) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("file contents"), 0o644))

	id := uuid.New()
	ext := constants.NormalizeExt(filepath.Ext(name))
	return &repository.Document{
		ID:          id,
		SourcePath:  path,
		Filename:    name,
		FileExt:     ext,
		ContentType: constants.ContentTypeForExt(ext),
	}, id
}

func TestProcessDocumentSuccess(t *testing.T) {
	doc, id := writeDoc(t, "policy.pdf")
	docs := &fakeDocs{doc: doc}
	jobs := &fakeJobs{}
	ext := &fakeExtractor{result: extract.Result{
		Text:       "insurance policy",
		Confidence: 95,
		Metadata:   docparse.NewParser().Parse("insurance policy"),
		Category:   constants.CategoryInsurancePolicy,
	}}

	p := NewProcessor(nil, ext, docs, jobs, 60)
	jobID, err := p.ProcessDocument(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, jobs.jobID, jobID)
	assert.Equal(t, []string{constants.PDF}, jobs.started)
	assert.Equal(t, "application/pdf", ext.contentType)
	require.NotNil(t, jobs.success)
	assert.Equal(t, "insurance policy", jobs.success.Text)
	assert.Equal(t, constants.CategoryInsurancePolicy, jobs.success.Category)
	assert.False(t, jobs.success.NeedsReview)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(jobs.success.Metadata, &meta))
	assert.Contains(t, meta, "dates")
}

func TestProcessDocumentFlagsLowImageConfidence(t *testing.T) {
	doc, id := writeDoc(t, "scan.png")
	jobs := &fakeJobs{}
	ext := &fakeExtractor{result: extract.Result{
		Text:       "blurry receipt",
		Confidence: 41.2,
		Metadata:   docparse.NewParser().Parse("blurry receipt"),
		Category:   constants.CategoryReceipt,
	}}

	p := NewProcessor(nil, ext, &fakeDocs{doc: doc}, jobs, 60)
	_, err := p.ProcessDocument(context.Background(), id)
	require.NoError(t, err)

	require.NotNil(t, jobs.success)
	assert.True(t, jobs.success.NeedsReview)
	assert.Equal(t, []string{constants.IMAGE}, jobs.started)
}

func TestProcessDocumentExtractionFailure(t *testing.T) {
	doc, id := writeDoc(t, "broken.pdf")
	jobs := &fakeJobs{}
	ext := &fakeExtractor{err: errors.New("malformed pdf")}

	p := NewProcessor(nil, ext, &fakeDocs{doc: doc}, jobs, 60)
	jobID, err := p.ProcessDocument(context.Background(), id)

	require.Error(t, err)
	assert.Equal(t, jobs.jobID, jobID, "job id is returned even on failure")
	assert.Nil(t, jobs.success)
	assert.Contains(t, jobs.failureReason, "malformed pdf")
}

func TestProcessDocumentUnsupportedExtension(t *testing.T) {
	doc, id := writeDoc(t, "notes.txt")
	doc.ContentType = ""
	jobs := &fakeJobs{}

	p := NewProcessor(nil, &fakeExtractor{}, &fakeDocs{doc: doc}, jobs, 60)
	_, err := p.ProcessDocument(context.Background(), id)

	require.Error(t, err)
	assert.Empty(t, jobs.started, "no job row for a file no backend handles")
}

func TestProcessDocumentMissingFile(t *testing.T) {
	doc, id := writeDoc(t, "gone.pdf")
	require.NoError(t, os.Remove(doc.SourcePath))
	jobs := &fakeJobs{}

	p := NewProcessor(nil, &fakeExtractor{}, &fakeDocs{doc: doc}, jobs, 60)
	jobID, err := p.ProcessDocument(context.Background(), id)

	require.Error(t, err)
	assert.Equal(t, jobs.jobID, jobID)
	assert.NotEmpty(t, jobs.failureReason)
}

func TestProcessDocumentUnknownID(t *testing.T) {
	p := NewProcessor(nil, &fakeExtractor{}, &fakeDocs{}, &fakeJobs{}, 60)
	_, err := p.ProcessDocument(context.Background(), uuid.New())
	require.Error(t, err)
}
