package drive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"imageImporter/worker/models"
)

type fakeFileService struct {
	pages   map[string]*Page
	listErr error
	calls   []string
}

func (f *fakeFileService) ListImages(ctx context.Context, folderID, pageToken string) (*Page, error) {
	f.calls = append(f.calls, pageToken)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pages[pageToken], nil
}

func (f *fakeFileService) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(fileID)), nil
}

func entry(id, mime string) models.FileEntry {
	return models.FileEntry{ID: id, Name: id + ".jpg", MimeType: mime}
}

func TestLister_ListImages_UnionOfAllPages(t *testing.T) {
	files := &fakeFileService{pages: map[string]*Page{
		"": {
			Files:         []models.FileEntry{entry("a", "image/jpeg"), entry("b", "image/png")},
			NextPageToken: "p2",
		},
		"p2": {
			Files:         []models.FileEntry{entry("c", "image/gif"), entry("a", "image/jpeg")},
			NextPageToken: "p3",
		},
		"p3": {
			Files: []models.FileEntry{entry("d", "application/pdf"), entry("e", "image/webp")},
		},
	}}

	lister := NewLister(files, zaptest.NewLogger(t))

	got, err := lister.ListImages(context.Background(), "folder")
	require.NoError(t, err)

	var ids []string
	for _, e := range got {
		ids = append(ids, e.ID)
		assert.True(t, strings.HasPrefix(e.MimeType, "image/"))
	}
	assert.Equal(t, []string{"a", "b", "c", "e"}, ids)
	assert.Equal(t, []string{"", "p2", "p3"}, files.calls)
}

func TestLister_ListImages_EmptyFolder(t *testing.T) {
	files := &fakeFileService{pages: map[string]*Page{"": {}}}
	lister := NewLister(files, zaptest.NewLogger(t))

	got, err := lister.ListImages(context.Background(), "folder")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLister_ListImages_TransportError(t *testing.T) {
	files := &fakeFileService{listErr: ErrTransport}
	lister := NewLister(files, zaptest.NewLogger(t))

	_, err := lister.ListImages(context.Background(), "folder")
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestFolderQuery(t *testing.T) {
	assert.Equal(t,
		"'abc' in parents and mimeType contains 'image/'",
		folderQuery("abc"),
	)
	assert.Equal(t,
		`'a\'b' in parents and mimeType contains 'image/'`,
		folderQuery("a'b"),
	)
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), "", 0)
	assert.ErrorIs(t, err, ErrMissingCredential)
}
