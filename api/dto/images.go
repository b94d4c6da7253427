package dto

import "imageImporter/api/models"

type ImageResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	GoogleDriveID string  `json:"google_drive_id"`
	Size          *int64  `json:"size"`
	MimeType      *string `json:"mime_type"`
	StoragePath   string  `json:"storage_path"`
	URL           *string `json:"url"`
}

type ImageListResponse struct {
	Items  []ImageResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func NewImageResponse(img models.Image) ImageResponse {
	return ImageResponse{
		ID:            img.ID,
		Name:          img.Name,
		GoogleDriveID: img.GoogleDriveID,
		Size:          img.Size,
		MimeType:      img.MimeType,
		StoragePath:   img.StoragePath,
		URL:           img.PublicURL,
	}
}
