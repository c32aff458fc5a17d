package models

import "github.com/google/uuid"

// Link is one labelled URL shown on a public profile.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Profile mirrors a row of the profiles table. The id is the auth user id.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Username  *string   `json:"username"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	Bio       *string   `json:"bio"`
	Languages []string  `json:"languages"`
	Timezone  *string   `json:"timezone"`
	Location  *string   `json:"location"`
	Links     []Link    `json:"links"`
}

// ProfileDraft is the editor's form state before normalization.
type ProfileDraft struct {
	Username      string
	FullName      string
	AvatarURL     string
	Bio           string
	LanguagesText string
	Timezone      string
	Location      string
	Website       string
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NullableString returns nil for the empty string.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
