package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// junkFragments filters matches that are technically e-mail shaped but
// never belong to a business: asset names, placeholders, tracking hosts.
var junkFragments = []string{
	"example.com",
	"@example",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".webp",
	".svg",
	"noreply",
	"no-reply",
	"sentry",
	"wixpress",
}

// ExtractEmails pulls e-mail addresses out of page markup: pattern matches
// over the full text plus mailto links, deduplicated in discovery order.
func ExtractEmails(html string) []string {
	var out []string
	seen := make(map[string]struct{})

	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return
		}
		key := strings.ToLower(candidate)
		if _, dup := seen[key]; dup || isJunkEmail(key) {
			return
		}
		seen[key] = struct{}{}
		out = append(out, candidate)
	}

	for _, m := range emailPattern.FindAllString(html, -1) {
		add(m)
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find(`a[href^="mailto:"]`).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok {
				return
			}
			addr := strings.TrimPrefix(href, "mailto:")
			if idx := strings.IndexByte(addr, '?'); idx >= 0 {
				addr = addr[:idx]
			}
			if emailPattern.MatchString(addr) {
				add(addr)
			}
		})
	}

	return out
}

func isJunkEmail(lower string) bool {
	for _, frag := range junkFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}
