package responses

import (
	"time"

	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/tournament"
)

type TournamentResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Size        int        `json:"size"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Bracket tournament.Snapshot `json:"bracket"`
}

type WinnerResponse struct {
	TournamentID string     `json:"tournament_id"`
	PlaceID      string     `json:"place_id"`
	Name         string     `json:"name"`
	Size         int        `json:"size"`
	CompletedAt  *time.Time `json:"completed_at"`
}

func NewTournamentResponse(run *models.TournamentRun, snapshot tournament.Snapshot) TournamentResponse {
	return TournamentResponse{
		ID:          run.PublicID,
		Status:      run.Status,
		Size:        run.Size,
		CreatedAt:   run.CreatedAt,
		UpdatedAt:   run.UpdatedAt,
		CompletedAt: run.CompletedAt,
		Bracket:     snapshot,
	}
}

func NewWinnerResponse(run models.TournamentRun) WinnerResponse {
	return WinnerResponse{
		TournamentID: run.PublicID,
		PlaceID:      run.WinnerPlaceID,
		Name:         run.WinnerName,
		Size:         run.Size,
		CompletedAt:  run.CompletedAt,
	}
}
