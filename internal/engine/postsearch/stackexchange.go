package postsearch

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

var questionPathRe = regexp.MustCompile(`^/questions/(\d+)(?:/|$)`)

// stackSites maps standalone StackExchange domains to their API site parameter.
// Everything under stackexchange.com uses its first label.
var stackSites = map[string]string{
	"stackoverflow.com": "stackoverflow",
	"superuser.com":     "superuser",
	"serverfault.com":   "serverfault",
	"askubuntu.com":     "askubuntu",
	"mathoverflow.net":  "mathoverflow",
	"stackapps.com":     "stackapps",
}

// StackExchange shows the accepted (or highest-voted) answer when the top result is a
// StackExchange question.
type StackExchange struct{}

type seAnswers struct {
	Items []seAnswer `json:"items"`
}

type seAnswer struct {
	AnswerID   int64  `json:"answer_id"`
	IsAccepted bool   `json:"is_accepted"`
	Score      int    `json:"score"`
	Body       string `json:"body"`
}

// stackSite returns the API site parameter for host.
func stackSite(host string) (string, bool) {
	host = strings.ToLower(host)
	domain := registrableDomain(host)
	if site, ok := stackSites[domain]; ok {
		return site, true
	}
	if domain == "stackexchange.com" && host != domain {
		label := strings.TrimPrefix(host, "meta.")
		label, _, _ = strings.Cut(label, ".")
		if label != "" && label != "www" && label != "api" {
			return label, true
		}
	}
	return "", false
}

// siteHost is the inverse of stackSite.
func siteHost(site string) string {
	for host, s := range stackSites {
		if s == site {
			return host
		}
	}
	return site + ".stackexchange.com"
}

// EnrichRequest fetches answers when the top result is a question on a StackExchange site.
func (StackExchange) EnrichRequest(resp *engine.Response) *engine.Request {
	u, ok := topURL(resp)
	if !ok {
		return nil
	}
	site, ok := stackSite(u.Hostname())
	if !ok {
		return nil
	}
	m := questionPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return nil
	}
	return engine.Get("https://api.stackexchange.com/2.3/questions/"+m[1]+"/answers", url.Values{
		"site":     {site},
		"sort":     {"votes"},
		"order":    {"desc"},
		"filter":   {"withbody"},
		"pagesize": {"5"},
	})
}

// ParseEnrichment picks the accepted answer, otherwise the highest scored one.
func (StackExchange) ParseEnrichment(body string, resolved *url.URL) (string, bool) {
	var res seAnswers
	if err := json.Unmarshal([]byte(body), &res); err != nil || len(res.Items) == 0 {
		return "", false
	}
	best := res.Items[0]
	for _, a := range res.Items[1:] {
		if (a.IsAccepted && !best.IsAccepted) || (a.IsAccepted == best.IsAccepted && a.Score > best.Score) {
			best = a
		}
	}
	content := sanitizeHTML(best.Body)
	if content == "" {
		return "", false
	}

	label := "Top answer"
	if best.IsAccepted {
		label = "Accepted answer"
	}
	link := fmt.Sprintf("https://%s/a/%d", siteHost(resolved.Query().Get("site")), best.AnswerID)
	return "<h2>" + engine.Link(link, label) + "</h2>" +
		`<div class="answer-body">` + content + "</div>" +
		engine.Tag("p", "Score: "+strconv.Itoa(best.Score)), true
}
