package gateway

type Work struct {
	ID           string `json:"id"`
	AssignmentID string `json:"assignment_id"`
	AuthorID     string `json:"author_id"`
	OriginalName string `json:"original_name"`
	Checksum     string `json:"checksum"`
	Size         int64  `json:"size"`
	UploadedAt   string `json:"uploaded_at"`
}

type Report struct {
	ID                   string  `json:"id"`
	SubmissionID         string  `json:"submission_id"`
	AssignmentID         string  `json:"assignment_id"`
	AuthorID             string  `json:"author_id"`
	Fingerprint          string  `json:"fingerprint"`
	IsDuplicate          bool    `json:"is_duplicate"`
	OriginalSubmissionID *string `json:"original_submission_id"`
	WordCloudURL         string  `json:"word_cloud_url"`
	AnalyzedAt           string  `json:"analyzed_at"`
}

type CreateReportRequest struct {
	WorkID string `json:"work_id"`
}

// CombinedWorkResponse carries Report only when analysis succeeded.
type CombinedWorkResponse struct {
	Work   Work    `json:"work"`
	Report *Report `json:"report,omitempty"`
}
