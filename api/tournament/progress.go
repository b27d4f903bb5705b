package tournament

import "fmt"

// Progress counts decided segments against the whole bracket.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`

	rounds []int
}

// Segment is one unit of a progress bar.
type Segment struct {
	Round int  `json:"round"`
	Done  bool `json:"done"`
}

func (b *Bracket) Progress() Progress {
	return Progress{
		Completed: b.completed,
		Total:     b.totalSegments,
		rounds:    segmentsPerRound(b.size),
	}
}

// Fraction returns Completed/Total in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Completed, p.Total)
}

// Segments lays out one entry per segment, tagged with the round it belongs
// to, so a client can colour the bar by round.
func (p Progress) Segments() []Segment {
	out := make([]Segment, 0, p.Total)
	for i, count := range p.rounds {
		for j := 0; j < count; j++ {
			out = append(out, Segment{Round: i + 1, Done: len(out) < p.Completed})
		}
	}
	return out
}

// segmentsPerRound lists how many segments each round contributes for a pool
// of n candidates.
func segmentsPerRound(n int) []int {
	var counts []int
	for n > 1 {
		n = (n + 1) / 2
		counts = append(counts, n)
	}
	return counts
}
