// Package tournament implements the single-elimination bracket used to pick
// one restaurant out of a pool by successive head-to-head choices.
//
// A Bracket performs no I/O and is not safe for concurrent use; callers that
// share one across requests must serialize access themselves.
package tournament

import (
	"encoding/json"
	"fmt"
)

// Candidate is one contestant. Metadata is carried for display and never
// inspected by the bracket.
type Candidate struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// Match is the pair currently waiting for a decision.
type Match struct {
	Round int       `json:"round"`
	A     Candidate `json:"a"`
	B     Candidate `json:"b"`
}

// Has reports whether id is one of the two sides of the match.
func (m Match) Has(id string) bool {
	return m.A.ID == id || m.B.ID == id
}

// Result records one decided segment. Bye results have no loser.
type Result struct {
	Round  int        `json:"round"`
	Winner Candidate  `json:"winner"`
	Loser  *Candidate `json:"loser,omitempty"`
	Bye    bool       `json:"bye"`
}

type Bracket struct {
	size           int
	remaining      []Candidate
	winnersOfRound []Candidate
	currentRound   int
	totalRounds    int
	totalSegments  int
	completed      int
	history        []Result
	terminal       bool
}

// New creates a bracket over candidates in the given order. At least two
// candidates with distinct IDs are required.
func New(candidates []Candidate) (*Bracket, error) {
	if len(candidates) < 2 {
		return nil, fmt.Errorf("%w: need at least 2, got %d", ErrInsufficientCandidates, len(candidates))
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCandidate, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	pool := make([]Candidate, len(candidates))
	copy(pool, candidates)

	return &Bracket{
		size:          len(candidates),
		remaining:     pool,
		currentRound:  1,
		totalRounds:   TotalRounds(len(candidates)),
		totalSegments: TotalSegments(len(candidates)),
	}, nil
}

// Replay rebuilds a bracket from its initial pool and the ordered IDs of
// every chosen winner.
func Replay(candidates []Candidate, choices []string) (*Bracket, error) {
	b, err := New(candidates)
	if err != nil {
		return nil, err
	}
	for i, id := range choices {
		if err := b.ChooseWinnerID(id); err != nil {
			return nil, fmt.Errorf("replay choice %d: %w", i+1, err)
		}
	}
	return b, nil
}

// CurrentMatch returns the first two candidates still to be paired this round.
func (b *Bracket) CurrentMatch() (Match, error) {
	if b.terminal {
		return Match{}, ErrBracketComplete
	}
	if len(b.remaining) < 2 {
		return Match{}, fmt.Errorf("%w: %d remaining in round %d", ErrInsufficientCandidates, len(b.remaining), b.currentRound)
	}
	return Match{Round: b.currentRound, A: b.remaining[0], B: b.remaining[1]}, nil
}

// ChooseWinner decides the current match in favour of winner.
func (b *Bracket) ChooseWinner(winner Candidate) error {
	return b.ChooseWinnerID(winner.ID)
}

// ChooseWinnerID decides the current match in favour of the candidate with
// the given ID. The loser is eliminated permanently. State is unchanged when
// an error is returned.
func (b *Bracket) ChooseWinnerID(id string) error {
	match, err := b.CurrentMatch()
	if err != nil {
		return err
	}
	if !match.Has(id) {
		return fmt.Errorf("%w: %q is not in the current match (%q vs %q)", ErrInvalidCandidate, id, match.A.ID, match.B.ID)
	}

	winner, loser := match.A, match.B
	if match.B.ID == id {
		winner, loser = match.B, match.A
	}

	b.winnersOfRound = append(b.winnersOfRound, winner)
	b.remaining = b.remaining[2:]
	b.completed++
	b.history = append(b.history, Result{Round: b.currentRound, Winner: winner, Loser: &loser})

	b.settle()
	return nil
}

// settle applies the bye rule and the round/terminal transitions after a
// decision.
func (b *Bracket) settle() {
	for {
		if len(b.remaining) == 1 {
			bye := b.remaining[0]
			b.remaining = nil
			b.winnersOfRound = append(b.winnersOfRound, bye)
			b.completed++
			b.history = append(b.history, Result{Round: b.currentRound, Winner: bye, Bye: true})
		}
		if len(b.remaining) > 0 {
			return
		}
		if len(b.winnersOfRound) == 1 {
			b.terminal = true
			return
		}
		b.remaining = b.winnersOfRound
		b.winnersOfRound = nil
		b.currentRound++
	}
}

func (b *Bracket) Round() int       { return b.currentRound }
func (b *Bracket) TotalRounds() int { return b.totalRounds }
func (b *Bracket) IsTerminal() bool { return b.terminal }

// Winner returns the overall winner once the bracket is terminal.
func (b *Bracket) Winner() (Candidate, bool) {
	if !b.terminal {
		return Candidate{}, false
	}
	return b.winnersOfRound[0], true
}

// Remaining returns a copy of the candidates still to be paired this round.
func (b *Bracket) Remaining() []Candidate {
	out := make([]Candidate, len(b.remaining))
	copy(out, b.remaining)
	return out
}

// WinnersOfRound returns a copy of this round's winners so far.
func (b *Bracket) WinnersOfRound() []Candidate {
	out := make([]Candidate, len(b.winnersOfRound))
	copy(out, b.winnersOfRound)
	return out
}

// History returns every decided match and bye in order.
func (b *Bracket) History() []Result {
	out := make([]Result, len(b.history))
	copy(out, b.history)
	return out
}

// Choices returns the winner ID of every decided match, byes excluded, in the
// form accepted by Replay.
func (b *Bracket) Choices() []string {
	out := make([]string, 0, len(b.history))
	for _, r := range b.history {
		if !r.Bye {
			out = append(out, r.Winner.ID)
		}
	}
	return out
}

// TotalRounds returns the number of rounds needed to reduce n candidates to
// one when odd pools give the last candidate a bye.
func TotalRounds(n int) int {
	rounds := 0
	for n > 1 {
		n = (n + 1) / 2
		rounds++
	}
	return rounds
}

// TotalSegments returns the number of progress segments (matches plus byes)
// across a whole bracket of n candidates.
func TotalSegments(n int) int {
	total := 0
	for _, c := range segmentsPerRound(n) {
		total += c
	}
	return total
}
