package validation

import "errors"

var (
	ErrFolderRequired    = errors.New("folder_id or valid folder_url required")
	ErrInvalidPagination = errors.New("limit must be between 1 and 200 and offset must not be negative")
)
