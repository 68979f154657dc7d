package searchserver

import (
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// fragmentItem converts an HTML fragment to markdown for tool output.
func fragmentItem(f *engine.Fragment) *FragmentItem {
	if f == nil {
		return nil
	}
	return &FragmentItem{Engine: f.Engine.ID(), Markdown: toMarkdown(f.HTML)}
}

func toMarkdown(html string) string {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		slog.Debug("markdown conversion failed, using plain text", slog.Any("error", err))
		return engine.CleanHTML(html)
	}
	return strings.TrimSpace(md)
}
