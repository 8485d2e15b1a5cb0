package request

// SearchRequest is the request body for a player search keystroke
type SearchRequest struct {
	Query string `json:"query"`
}

// SelectPlayerRequest is the request body for choosing a member
type SelectPlayerRequest struct {
	MemberID string `json:"member_id"`
}

// ContactRequest is the request body for the contact step
type ContactRequest struct {
	Email                  string `json:"email"`
	Phone                  string `json:"phone,omitempty"`
	Street                 string `json:"street,omitempty"`
	City                   string `json:"city,omitempty"`
	State                  string `json:"state,omitempty"`
	Zip                    string `json:"zip,omitempty"`
	NotificationPreference string `json:"notification_preference,omitempty"`
}

// SectionRequest is the request body for choosing a section
type SectionRequest struct {
	SectionID string `json:"section_id"`
}

// TermsRequest is the request body for the terms checkbox
type TermsRequest struct {
	Accepted bool `json:"accepted"`
}
