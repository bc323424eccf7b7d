package commander

// ProcessSiteCommand asks the pipeline to scrape, translate and persist listings of a site.
type ProcessSiteCommand struct {
	ID   string `json:"id,omitempty"`
	Site string `json:"site"`
}
