package models

// Me represents the authenticated user's account summary.
type Me struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	HomeBase    string    `json:"homeBase,omitempty"`
	Locale      string    `json:"locale"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// MeInput is the request body for updating the user's profile.
// All fields are optional; absent fields are left unchanged.
type MeInput struct {
	DisplayName *string `json:"displayName,omitempty"`
	HomeBase    *string `json:"homeBase,omitempty"`
	Locale      *string `json:"locale,omitempty"`
}
