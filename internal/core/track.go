package core

// Track represents a playable song as the player sees it.
type Track struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
	PlayableURL   string `json:"playable_url"`
}

// Playable returns true if the track has an audio source.
func (t Track) Playable() bool {
	return t.PlayableURL != ""
}

// DisplayTitle returns the title, or a placeholder when the backend sent none.
func (t Track) DisplayTitle() string {
	if t.Title == "" {
		return "Untitled"
	}
	return t.Title
}

// DisplayArtist returns the artist, or a placeholder when the backend sent none.
func (t Track) DisplayArtist() string {
	if t.Artist == "" {
		return "Unknown artist"
	}
	return t.Artist
}
