package drive

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"imageImporter/worker/models"
)

const imageMimePrefix = "image/"

type Lister struct {
	files  FileService
	logger *zap.Logger
}

func NewLister(files FileService, logger *zap.Logger) *Lister {
	return &Lister{files: files, logger: logger}
}

// ListImages walks every page of the folder listing and returns the image
// entries found, each remote id at most once.
func (l *Lister) ListImages(ctx context.Context, folderID string) ([]models.FileEntry, error) {
	var (
		entries   []models.FileEntry
		seen      = make(map[string]struct{})
		pageToken string
		pages     int
	)

	for {
		page, err := l.files.ListImages(ctx, folderID, pageToken)
		if err != nil {
			return nil, err
		}
		pages++

		for _, f := range page.Files {
			if !strings.HasPrefix(f.MimeType, imageMimePrefix) {
				continue
			}
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
			entries = append(entries, f)
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	l.logger.Info("Folder listed",
		zap.String("folder_id", folderID),
		zap.Int("pages", pages),
		zap.Int("images", len(entries)),
	)

	return entries, nil
}
