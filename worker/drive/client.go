package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"imageImporter/worker/models"
)

const pageSize = 1000

var (
	ErrTransport         = errors.New("drive transport error")
	ErrMissingCredential = errors.New("service account credentials are not set")
)

// Page is one page of a folder listing.
type Page struct {
	Files         []models.FileEntry
	NextPageToken string
}

// FileService is the subset of the Drive API the importer needs.
type FileService interface {
	ListImages(ctx context.Context, folderID, pageToken string) (*Page, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Client implements FileService on top of the Drive v3 API.
type Client struct {
	svc *drive.Service
}

// NewClient authenticates with a service account JSON key. timeout bounds
// every HTTP exchange, including whole-file downloads.
func NewClient(ctx context.Context, serviceAccountJSON string, timeout time.Duration) (*Client, error) {
	if serviceAccountJSON == "" {
		return nil, ErrMissingCredential
	}

	jwtCfg, err := google.JWTConfigFromJSON([]byte(serviceAccountJSON), drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}

	httpClient := jwtCfg.Client(ctx)
	httpClient.Timeout = timeout

	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Client{svc: svc}, nil
}

func (c *Client) ListImages(ctx context.Context, folderID, pageToken string) (*Page, error) {
	call := c.svc.Files.List().
		Q(folderQuery(folderID)).
		PageSize(pageSize).
		Corpora("allDrives").
		IncludeItemsFromAllDrives(true).
		SupportsAllDrives(true).
		Fields("nextPageToken, files(id, name, mimeType, size)").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("%w: list folder %s: %v", ErrTransport, folderID, err)
	}

	page := &Page{NextPageToken: res.NextPageToken}
	for _, f := range res.Files {
		entry := models.FileEntry{
			ID:       f.Id,
			Name:     f.Name,
			MimeType: f.MimeType,
		}
		if f.Size > 0 {
			size := f.Size
			entry.Size = &size
		}
		page.Files = append(page.Files, entry)
	}

	return page, nil
}

func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := c.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", ErrTransport, fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: download %s: status %d", ErrTransport, fileID, resp.StatusCode)
	}
	return resp.Body, nil
}

func folderQuery(folderID string) string {
	escaped := strings.ReplaceAll(folderID, `'`, `\'`)
	return fmt.Sprintf("'%s' in parents and mimeType contains 'image/'", escaped)
}
