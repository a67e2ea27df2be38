// Package scrape implements the concurrent scrape orchestrator: the shared
// result collection, the pause gate, the pagination convergence loop, the
// bounded job scheduler, the e-mail enrichment prober, and the coordinator
// that drives a full run.
package scrape

// Record is one extracted business-like entity. Identity fields are set
// once during extraction; EmailAddresses is filled in later by the single
// enrichment job that owns the record.
type Record struct {
	DisplayName    string
	Address        string
	PhoneNumber    string
	WebsiteURL     string
	OriginQuery    string
	Latitude       *float64
	Longitude      *float64
	EmailAddresses []string
}

// identity is the dedup key: two records describe the same business iff
// this triple matches exactly, empty components included. Deliberately
// looser than full-field equality so repeated passes collapse to one entry.
type identity struct {
	name    string
	website string
	phone   string
}

func (r *Record) identity() identity {
	return identity{name: r.DisplayName, website: r.WebsiteURL, phone: r.PhoneNumber}
}
