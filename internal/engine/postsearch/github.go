package postsearch

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// ownerRepoRe matches /:owner/:repo with optional trailing path.
var ownerRepoRe = regexp.MustCompile(`^/([A-Za-z0-9._-]+)/([A-Za-z0-9._-]+)`)

var reservedOwners = []string{
	"topics", "explore", "trending", "search", "settings", "notifications",
	"orgs", "features", "marketplace", "sponsors", "about", "collections",
}

// GitHub renders a repository card when the top result is a github.com repository page.
type GitHub struct {
	Token string // optional, raises the API rate limit
}

// repoMeta holds GitHub repository metadata from the REST API.
type repoMeta struct {
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Archived    bool     `json:"archived"`
	HTMLURL     string   `json:"html_url"`
	License     *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

// extractOwnerRepo extracts owner and repo from a github.com URL.
func extractOwnerRepo(u *url.URL) (owner, repo string, ok bool) {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "github.com" {
		return "", "", false
	}
	m := ownerRepoRe.FindStringSubmatch(u.Path)
	if m == nil {
		return "", "", false
	}
	repo = strings.TrimSuffix(m[2], ".git")
	for _, skip := range reservedOwners {
		if strings.EqualFold(m[1], skip) {
			return "", "", false
		}
	}
	return m[1], repo, true
}

// EnrichRequest asks the GitHub API for the repository behind the top result.
func (g GitHub) EnrichRequest(resp *engine.Response) *engine.Request {
	u, ok := topURL(resp)
	if !ok {
		return nil
	}
	owner, repo, ok := extractOwnerRepo(u)
	if !ok {
		return nil
	}
	req := engine.Get("https://api.github.com/repos/"+owner+"/"+repo, nil).
		WithHeader("accept", "application/vnd.github+json")
	if g.Token != "" {
		req.WithHeader("authorization", "Bearer "+g.Token)
	}
	return req
}

// ParseEnrichment renders the repository card.
func (GitHub) ParseEnrichment(body string, _ *url.URL) (string, bool) {
	var meta repoMeta
	if err := json.Unmarshal([]byte(body), &meta); err != nil || meta.FullName == "" {
		return "", false
	}
	page := meta.HTMLURL
	if page == "" {
		page = "https://github.com/" + meta.FullName
	}

	var b strings.Builder
	b.WriteString("<h2>" + engine.Link(page, meta.FullName) + "</h2>")
	if meta.Description != "" {
		b.WriteString(engine.Tag("p", meta.Description))
	}
	b.WriteString("<ul>")
	b.WriteString(engine.Tag("li", "★ "+strconv.Itoa(meta.Stars)+" stars, "+strconv.Itoa(meta.Forks)+" forks"))
	if meta.Language != "" {
		b.WriteString(engine.Tag("li", "Language: "+meta.Language))
	}
	if meta.License != nil && meta.License.SPDXID != "" && meta.License.SPDXID != "NOASSERTION" {
		b.WriteString(engine.Tag("li", "License: "+meta.License.SPDXID))
	}
	if len(meta.Topics) > 0 {
		b.WriteString(engine.Tag("li", "Topics: "+strings.Join(meta.Topics, ", ")))
	}
	if meta.Archived {
		b.WriteString(engine.Tag("li", "Archived"))
	}
	b.WriteString("</ul>")
	return b.String(), true
}
