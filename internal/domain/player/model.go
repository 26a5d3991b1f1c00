package player

// Player carries identity data only; it exists exactly as long as some
// team's squad references it.
type Player struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
	Position    string `json:"position"`
	ShirtNumber int    `json:"shirtNumber"`
	TeamID      int64  `json:"teamId"`
}
