package domain

// City is a browsable city. Cities derived from a local dataset carry no ID or
// slug.
type City struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}
