// Package extract turns a loaded business detail page into a Record.
// Extraction is pure given the page: every field lookup miss recovers
// locally as an empty string.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/mapleads/lead-harvester/internal/scrape"
)

// fieldTimeout bounds each individual field lookup. Misses are common
// (many businesses have no website), so this stays short.
const fieldTimeout = 2 * time.Second

// FromSession reads the business fields off the currently loaded detail
// page. The returned record may have an empty DisplayName; callers treat
// that as "nothing extractable here".
func FromSession(ctx context.Context, page scrape.PageSession, sel Selectors, originQuery string) *scrape.Record {
	name := page.TextOf(ctx, sel.Name, fieldTimeout)
	address := page.TextOf(ctx, sel.Address, fieldTimeout)
	website := page.TextOf(ctx, sel.Website, fieldTimeout)
	phone := page.TextOf(ctx, sel.Phone, fieldTimeout)

	var lat, lon *float64
	if loc, err := page.Location(ctx); err == nil {
		lat, lon = Coordinates(loc)
	}

	return &scrape.Record{
		DisplayName: strings.TrimSpace(name),
		Address:     strings.TrimSpace(address),
		PhoneNumber: strings.TrimSpace(phone),
		WebsiteURL:  NormalizeWebsite(website),
		OriginQuery: originQuery,
		Latitude:    lat,
		Longitude:   lon,
	}
}

// NormalizeWebsite prefixes bare domains with an https scheme. The website
// field on the detail page shows a hostname, not a full URL.
func NormalizeWebsite(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if strings.HasPrefix(website, "http://") || strings.HasPrefix(website, "https://") {
		return website
	}
	return "https://www." + website
}
