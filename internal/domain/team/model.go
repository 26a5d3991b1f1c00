package team

// Team is the denormalized team document. Squad holds bare player ids;
// after a roster sync every id resolves to a stored Player. Tallies are
// recomputed from finished matches, never incremented in place.
type Team struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ShortName  string  `json:"shortName"`
	TLA        string  `json:"tla"`
	Crest      string  `json:"crest"`
	Venue      string  `json:"venue"`
	ClubColors string  `json:"clubColors"`
	Squad      []int64 `json:"squad"`
	Tallies    Tallies `json:"matchesInfo"`
}

type Tallies struct {
	MatchesPlayed int   `json:"matchesPlayed"`
	HalfTime      Tally `json:"halfTime"`
	FullTime      Tally `json:"fullTime"`
}

type Tally struct {
	Wins          int `json:"wins"`
	Draws         int `json:"draws"`
	Losses        int `json:"losses"`
	GoalsScored   int `json:"goalsScored"`
	GoalsConceded int `json:"goalsConceded"`
}
