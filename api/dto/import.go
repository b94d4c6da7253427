package dto

type ImportRequest struct {
	FolderID  string `json:"folder_id"`
	FolderURL string `json:"folder_url"`
}

type ImportResponse struct {
	Message  string `json:"message"`
	FolderID string `json:"folder_id"`
	JobID    string `json:"job_id"`
}
