package domain

// SharePayload is the information carried by a share token: enough to rebuild
// a trip without server-side storage.
type SharePayload struct {
	Title       string
	Description string
	PlaceIDs    []PlaceID
}

// SharedTrip is a decoded share token whose place ids have been resolved.
// Ids that no longer resolve are omitted from Places.
type SharedTrip struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Places      []Place `json:"places"`
}
