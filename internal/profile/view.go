package profile

import (
	"fmt"
	"strings"

	"github.com/vytor/skillswap/internal/models"
)

const (
	siteName          = "SkillSwap"
	descriptionLength = 160
	defaultLinkLabel  = "link"
)

// PublicView is the read-only rendering of a profile.
type PublicView struct {
	Username    string
	DisplayName string
	Initial     string
	AvatarURL   string
	Bio         string
	Location    string
	Timezone    string
	Languages   []string
	Links       []models.Link

	Title       string
	Description string
	Canonical   string
}

// NewPublicView derives the page content and metadata for p. The path
// username is used for the canonical URL even when the row differs in case.
func NewPublicView(p models.Profile, pathUsername string) PublicView {
	username := models.StringValue(p.Username)
	fullName := models.StringValue(p.FullName)

	v := PublicView{
		Username:  username,
		AvatarURL: models.StringValue(p.AvatarURL),
		Bio:       models.StringValue(p.Bio),
		Location:  models.StringValue(p.Location),
		Timezone:  models.StringValue(p.Timezone),
		Languages: p.Languages,
		Links:     visibleLinks(p.Links),
		Canonical: "/u/" + pathUsername,
	}
	if v.Languages == nil {
		v.Languages = []string{}
	}

	switch {
	case fullName != "":
		v.DisplayName = fullName
	case username != "":
		v.DisplayName = username
	default:
		v.DisplayName = "User"
	}
	v.Initial = Initial(fullName, username)

	titleBase := "User"
	switch {
	case fullName != "" && username != "":
		titleBase = fmt.Sprintf("%s (@%s)", fullName, username)
	case username != "":
		titleBase = "@" + username
	}
	v.Title = fmt.Sprintf("%s • %s", titleBase, siteName)

	v.Description = truncateRunes(v.Bio, descriptionLength)
	if v.Description == "" {
		v.Description = fmt.Sprintf("View %s's public %s profile.", titleBase, siteName)
	}
	return v
}

func visibleLinks(links []models.Link) []models.Link {
	out := make([]models.Link, 0, len(links))
	for _, l := range links {
		if l.URL == "" {
			continue
		}
		if l.Label == "" {
			l.Label = defaultLinkLabel
		}
		out = append(out, l)
	}
	return out
}

// Initial is the upper-cased first letter of the first non-empty candidate, or "?".
func Initial(candidates ...string) string {
	for _, c := range candidates {
		for _, r := range c {
			return strings.ToUpper(string(r))
		}
	}
	return "?"
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
