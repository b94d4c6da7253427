package models

import "time"

// FileEntry is one image file found in a Drive folder.
type FileEntry struct {
	ID       string
	Name     string
	MimeType string
	Size     *int64
}

// TransferResult describes a file that was downloaded from Drive and
// uploaded to the object store.
type TransferResult struct {
	FileID    string
	FileName  string
	MimeType  string
	Size      *int64
	PublicURL string
}

type ImageRecord struct {
	ID            int64
	Name          string
	GoogleDriveID string
	Size          *int64
	MimeType      *string
	StoragePath   string
	PublicURL     *string
	CreatedAt     time.Time
}

// Apply overwrites the mutable fields of r with the values from a transfer.
func (r *ImageRecord) Apply(t TransferResult) {
	r.Name = t.FileName
	r.GoogleDriveID = t.FileID
	r.Size = t.Size
	r.MimeType = optional(t.MimeType)
	r.StoragePath = t.FileName
	r.PublicURL = optional(t.PublicURL)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
