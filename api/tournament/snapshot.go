package tournament

// Snapshot is the read model handed to clients after every request.
type Snapshot struct {
	Round          int         `json:"round"`
	TotalRounds    int         `json:"total_rounds"`
	Match          *Match      `json:"match,omitempty"`
	Remaining      []Candidate `json:"remaining"`
	WinnersOfRound []Candidate `json:"winners_of_round"`
	Progress       Progress    `json:"progress"`
	Segments       []Segment   `json:"segments"`
	Terminal       bool        `json:"terminal"`
	Winner         *Candidate  `json:"winner,omitempty"`
	History        []Result    `json:"history"`
}

func (b *Bracket) Snapshot() Snapshot {
	progress := b.Progress()
	s := Snapshot{
		Round:          b.currentRound,
		TotalRounds:    b.totalRounds,
		Remaining:      b.Remaining(),
		WinnersOfRound: b.WinnersOfRound(),
		Progress:       progress,
		Segments:       progress.Segments(),
		Terminal:       b.terminal,
		History:        b.History(),
	}
	if match, err := b.CurrentMatch(); err == nil {
		s.Match = &match
	}
	if winner, ok := b.Winner(); ok {
		s.Winner = &winner
	}
	return s
}
