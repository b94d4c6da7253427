package models

import "time"

// Image is a catalog row as the API reads it.
type Image struct {
	ID            int64
	Name          string
	GoogleDriveID string
	Size          *int64
	MimeType      *string
	StoragePath   string
	PublicURL     *string
	CreatedAt     time.Time
}
