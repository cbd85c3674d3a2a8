package controller

import (
	"bytes"
	"context"
	"testing"

	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/gartstein/hrms/internal/hr/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newDocumentService(t *testing.T) *DocumentService {
	return NewDocumentService(newTestStore(t), &MockProducer{}, zaptest.NewLogger(t))
}

func TestDocumentService_FileRoundTrip(t *testing.T) {
	svc := newDocumentService(t)
	ctx := context.Background()

	payload := []byte("employee handbook v3 contents")
	created, err := svc.Create(ctx, &models.Document{
		Title:    "Handbook",
		Type:     models.DocumentPolicy,
		FileName: "handbook.pdf",
		FileType: "application/pdf",
	}, payload)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), created.FileSize)
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, models.AccessPrivate, created.AccessLevel, "access level defaults to private")

	data, doc, err := svc.FileBytes(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, data), "decoded body must match the upload")
	assert.Equal(t, "handbook.pdf", doc.FileName)
}

func TestDocumentService_CreateWithoutFile(t *testing.T) {
	svc := newDocumentService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Document{
		Title: "External link", Type: models.DocumentOther, URL: "https://example.com/doc",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, created.Content)

	_, _, err = svc.FileBytes(ctx, created.ID)
	assert.ErrorIs(t, err, e.ErrNotFound, "no stored body to decode")
}

func TestDocumentService_RejectsOversizedFile(t *testing.T) {
	svc := newDocumentService(t)

	_, err := svc.Create(context.Background(), &models.Document{
		Title: "Huge", Type: models.DocumentOther,
	}, make([]byte, maxFileSize+1))
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestDocumentService_FilterByAccessLevel(t *testing.T) {
	svc := newDocumentService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Document{
		Title: "Public form", Type: models.DocumentForm, AccessLevel: models.AccessPublic,
	}, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Document{
		Title: "Contract", Type: models.DocumentContract, AccessLevel: models.AccessRestricted,
	}, nil)
	require.NoError(t, err)

	items, err := svc.List(ctx, &models.DocumentFilter{AccessLevel: models.AccessPublic})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Public form", items[0].Title)
}

func TestDocumentService_Stats(t *testing.T) {
	svc := newDocumentService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Document{Title: "a", Type: models.DocumentPolicy}, []byte("xx"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Document{Title: "b", Type: models.DocumentPolicy}, []byte("yyy"))
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByType[models.DocumentPolicy])
	assert.Equal(t, int64(5), stats.TotalBytes)
}
