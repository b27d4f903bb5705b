package places

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/tournament"

	"golang.org/x/sync/errgroup"
)

const (
	// MinPoolSize is the smallest search result that can start a tournament.
	MinPoolSize = 8

	defaultDetailConcurrency = 8
)

// API is the part of Client a PoolSource needs.
type API interface {
	NearbySearch(ctx context.Context, req SearchRequest) ([]Restaurant, error)
	Details(ctx context.Context, placeID string) (Restaurant, error)
}

// PoolRequest selects tournament entrants either from a search, taking the
// first Size ranked places, or from an explicit list of place IDs.
type PoolRequest struct {
	Search   SearchRequest
	Size     int
	PlaceIDs []string
}

type PoolSource struct {
	api         API
	concurrency int
}

func NewPoolSource(api API, concurrency int) *PoolSource {
	if concurrency <= 0 {
		concurrency = defaultDetailConcurrency
	}
	return &PoolSource{api: api, concurrency: concurrency}
}

// Fetch resolves req into candidates in ranked order. Places whose details
// cannot be loaded are dropped.
func (s *PoolSource) Fetch(ctx context.Context, req PoolRequest) ([]tournament.Candidate, error) {
	ids, err := s.entrants(ctx, req)
	if err != nil {
		return nil, err
	}

	enriched := make([]*Restaurant, len(ids))
	var mu sync.Mutex
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			r, err := s.api.Details(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logging.L().Warnw("dropping place from pool", "place_id", id, "error", err)
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return nil
			}
			enriched[i] = &r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]tournament.Candidate, 0, len(ids))
	for _, r := range enriched {
		if r == nil {
			continue
		}
		c, err := ToCandidate(*r)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	if len(candidates) < 2 {
		return nil, fmt.Errorf("%w: %d of %d places loaded", tournament.ErrInsufficientCandidates, len(candidates), len(ids))
	}
	return candidates, nil
}

func (s *PoolSource) entrants(ctx context.Context, req PoolRequest) ([]string, error) {
	if len(req.PlaceIDs) > 0 {
		seen := make(map[string]struct{}, len(req.PlaceIDs))
		ids := make([]string, 0, len(req.PlaceIDs))
		for _, id := range req.PlaceIDs {
			if _, dup := seen[id]; dup || id == "" {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if len(ids) > MaxResults {
			return nil, fmt.Errorf("%w: at most %d places", ErrUnsupportedSize, MaxResults)
		}
		return ids, nil
	}

	found, err := s.api.NearbySearch(ctx, req.Search)
	if err != nil {
		return nil, err
	}
	if len(found) < MinPoolSize {
		return nil, fmt.Errorf("%w: found %d", ErrTooFewRestaurants, len(found))
	}
	if !sizeAvailable(req.Size, len(found)) {
		return nil, fmt.Errorf("%w: %d of %v", ErrUnsupportedSize, req.Size, AvailableCounts(len(found)))
	}

	ids := make([]string, req.Size)
	for i := range ids {
		ids[i] = found[i].PlaceID
	}
	return ids, nil
}

func sizeAvailable(size, found int) bool {
	for _, n := range AvailableCounts(found) {
		if n == size {
			return true
		}
	}
	return false
}

// ToCandidate wraps a restaurant as a bracket entrant. The full record
// travels as metadata.
func ToCandidate(r Restaurant) (tournament.Candidate, error) {
	meta, err := json.Marshal(r)
	if err != nil {
		return tournament.Candidate{}, fmt.Errorf("encode %s: %w", r.PlaceID, err)
	}
	return tournament.Candidate{ID: r.PlaceID, Name: r.Name, Metadata: meta}, nil
}

// FromCandidate recovers the restaurant carried by c. Only ID and Name are
// set when the metadata is missing or foreign.
func FromCandidate(c tournament.Candidate) Restaurant {
	var r Restaurant
	if len(c.Metadata) > 0 {
		_ = json.Unmarshal(c.Metadata, &r)
	}
	r.PlaceID = c.ID
	if r.Name == "" {
		r.Name = c.Name
	}
	return r
}
