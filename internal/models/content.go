package models

// GenerateContentRequest asks the text-generation API for an email body.
type GenerateContentRequest struct {
	Prompt       string `json:"prompt"`
	Purpose      string `json:"purpose"`
	Tone         string `json:"tone"`
	Type         string `json:"type"`
	KeyPoints    string `json:"keyPoints"`
	CampaignName string `json:"campaignName"`
}

// GenerateSubjectRequest asks for a subject line for existing content.
type GenerateSubjectRequest struct {
	Content string `json:"content"`
}

// ProcessContentRequest is echoed back by the process endpoint.
type ProcessContentRequest struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}
