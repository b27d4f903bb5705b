package controllers

import (
	"context"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/tournament"
)

// runOutcomeSink is the default OutcomeSink. The winner is already stored on
// the run; the sink refreshes derived views.
type runOutcomeSink struct{}

func (runOutcomeSink) Record(ctx context.Context, run *models.TournamentRun, winner tournament.Candidate) error {
	if run.UserID != nil {
		invalidateWinnerHistoryCache(*run.UserID)
	}
	logging.L().Infow("tournament finished",
		"tournament_id", run.PublicID,
		"size", run.Size,
		"winner_place_id", winner.ID,
	)
	return nil
}
