package api

import (
	"net/url"
	"strings"
)

// localPath returns next when it is a same-site absolute path and fallback
// otherwise, so redirects cannot leave the site.
func localPath(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return next
}

func signInURL(next, errMsg string) string {
	q := url.Values{}
	if next != "" {
		q.Set("next", next)
	}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	if len(q) == 0 {
		return "/auth/sign-in"
	}
	return "/auth/sign-in?" + q.Encode()
}

func (s *Server) absoluteURL(path string) string {
	return strings.TrimRight(s.SiteURL, "/") + path
}
