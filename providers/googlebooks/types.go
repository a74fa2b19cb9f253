package googlebooks

// VolumesResponse ist die Top-Level-Struktur der Volumes API-Antwort.
type VolumesResponse struct {
	TotalItems int    `json:"totalItems"`
	Items      []Item `json:"items"`
}

// Item repräsentiert einen einzelnen Band in der API-Antwort.
type Item struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo enthält die bibliografischen Angaben eines Bandes.
type VolumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
}
