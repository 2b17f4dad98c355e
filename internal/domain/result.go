package domain

import "time"

// GeneratedResult is one invocation's output: four required text variants
// plus optional hashtags. All four fields are guaranteed non-empty-presence
// by the extractor; the texts themselves may be any length.
type GeneratedResult struct {
	Main      string   `json:"main"`
	Alt1      string   `json:"alt1"`
	Alt2      string   `json:"alt2"`
	ShortMain string   `json:"short_main"`
	Hashtags  []string `json:"hashtags"`
}

// QualityReport is derived deterministically from a single draft text and
// the brand's banned-term list. A non-compliant draft is a normal outcome,
// never an error.
type QualityReport struct {
	CharCount        int      `json:"char_count"`
	BannedTermsFound []string `json:"banned_terms_found"`
	Compliant        bool     `json:"compliant"`
	Warnings         []string `json:"warnings"`
}

type RequestStatus string

const (
	StatusQueued     RequestStatus = "queued"
	StatusProcessing RequestStatus = "processing"
	StatusCompleted  RequestStatus = "completed"
	StatusFailed     RequestStatus = "failed"
)

// GenerationRecord is the persisted shape of one invocation: the request row
// and, once completed, its result and checks.
type GenerationRecord struct {
	ID           string           `json:"id"`
	RequestID    string           `json:"request_id"`
	UserID       string           `json:"user_id"`
	AccountID    string           `json:"account_id"`
	Platform     Platform         `json:"sns"`
	PostType     PostType         `json:"post_type"`
	Inputs       GenerationInputs `json:"inputs"`
	Status       RequestStatus    `json:"status"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Result       *GeneratedResult `json:"result,omitempty"`
	Checks       *QualityReport   `json:"checks,omitempty"`
	Provider     string           `json:"provider,omitempty"`
	Model        string           `json:"model,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}
