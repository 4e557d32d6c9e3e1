package players

// Entry is one connected player as reported by a host player-list snapshot.
// Rank is the in-band rank; zero means the host did not provide one.
type Entry struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// HasRank reports whether the host supplied an in-band rank.
func (e Entry) HasRank() bool {
	return e.Rank != 0
}

// Names returns the player names of a snapshot in order.
func Names(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
