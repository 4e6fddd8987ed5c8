package httpapi

// UploadSummary is the response of a finished upload.
type UploadSummary struct {
	Success           bool    `json:"success"`
	BatchID           string  `json:"batch_id"`
	TotalCompanies    int     `json:"total_companies"`
	EmailsFound       int     `json:"emails_found"`
	SuccessRate       float64 `json:"success_rate"`
	DownloadURL       string  `json:"download_url"`
	CompanyColumnUsed string  `json:"company_column_used"`
}

// UploadAccepted is the response of an upload that runs in the background.
type UploadAccepted struct {
	BatchID           string `json:"batch_id"`
	State             string `json:"state"`
	TotalCompanies    int    `json:"total_companies"`
	StatusURL         string `json:"status_url"`
	DownloadURL       string `json:"download_url"`
	CompanyColumnUsed string `json:"company_column_used"`
}
