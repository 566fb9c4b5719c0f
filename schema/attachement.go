package schema

// Attachement message attachement
type Attachement struct {
	// Images attached raw images
	Images []Image `json:"images,omitempty"`
}
