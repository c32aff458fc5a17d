package profile

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/skillswap/internal/models"
)

// MaxUsernameLength bounds a normalized username.
const MaxUsernameLength = 32

// WebsiteLabel is the label given to the single link the editor manages.
const WebsiteLabel = "website"

// NormalizeUsername lowercases s, drops everything outside [a-z0-9_-] and
// truncates the result to MaxUsernameLength.
func NormalizeUsername(s string) string {
	lower := strings.ToLower(s)
	var sb strings.Builder
	for _, r := range lower {
		if sb.Len() == MaxUsernameLength {
			break
		}
		if isSlugRune(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
}

// ParseLanguages splits comma separated text, trimming entries and dropping empties.
// The result is never nil.
func ParseLanguages(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if lang := strings.TrimSpace(part); lang != "" {
			out = append(out, lang)
		}
	}
	return out
}

// FormatLanguages is the inverse used to prefill the editor.
func FormatLanguages(langs []string) string {
	return strings.Join(langs, ", ")
}

// WebsiteLinks wraps a non-empty website as the only link. The result is never nil.
func WebsiteLinks(website string) []models.Link {
	if website == "" {
		return []models.Link{}
	}
	return []models.Link{{Label: WebsiteLabel, URL: website}}
}

// Normalize turns an editor draft into the row written on save. Every column
// is overwritten; links beyond the website are not carried over.
func Normalize(userID uuid.UUID, d models.ProfileDraft) models.Profile {
	return models.Profile{
		ID:        userID,
		Username:  models.NullableString(NormalizeUsername(d.Username)),
		FullName:  models.NullableString(d.FullName),
		AvatarURL: models.NullableString(d.AvatarURL),
		Bio:       models.NullableString(d.Bio),
		Languages: ParseLanguages(d.LanguagesText),
		Timezone:  models.NullableString(d.Timezone),
		Location:  models.NullableString(d.Location),
		Links:     WebsiteLinks(d.Website),
	}
}

// DraftFrom builds the editor state for a stored profile. p may be nil.
func DraftFrom(p *models.Profile) models.ProfileDraft {
	if p == nil {
		return models.ProfileDraft{}
	}
	d := models.ProfileDraft{
		Username:      models.StringValue(p.Username),
		FullName:      models.StringValue(p.FullName),
		AvatarURL:     models.StringValue(p.AvatarURL),
		Bio:           models.StringValue(p.Bio),
		LanguagesText: FormatLanguages(p.Languages),
		Timezone:      models.StringValue(p.Timezone),
		Location:      models.StringValue(p.Location),
	}
	if len(p.Links) > 0 {
		d.Website = p.Links[0].URL
	}
	return d
}

// Completeness is the rounded percentage of username, full name, bio and
// avatar that are filled in.
func Completeness(d models.ProfileDraft) int {
	required := []string{d.Username, d.FullName, d.Bio, d.AvatarURL}
	filled := 0
	for _, v := range required {
		if v != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(required)) * 100))
}
