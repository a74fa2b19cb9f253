package openlibrary

// SearchResponse ist die Top-Level-Struktur der Open Library Search API-Antwort.
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

// Doc repräsentiert einen einzelnen Treffer in der API-Antwort.
type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	Publisher        []string `json:"publisher"`
	PublishPlace     []string `json:"publish_place"`
	FirstPublishYear int      `json:"first_publish_year"`
}
