package models

import (
	"encoding/json"
	"errors"
	"time"

	"RestaurantAdviser/api/tournament"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	RunStatusActive    = "active"
	RunStatusCompleted = "completed"
	RunStatusAbandoned = "abandoned"
)

// ErrRunClosed is returned when a completed or abandoned run is modified.
var ErrRunClosed = errors.New("tournament run is no longer active")

// TournamentRun persists one bracket as its entrant pool plus the ordered
// winner IDs. The bracket itself is rebuilt by replay.
type TournamentRun struct {
	ID       uint   `gorm:"primary_key;autoIncrement" json:"-"`
	PublicID string `gorm:"size:36;uniqueIndex;column:public_id" json:"id"`
	UserID   *uint  `gorm:"index" json:"-"`

	Candidates []tournament.Candidate `gorm:"type:text;serializer:json;not null" json:"-"`
	Choices    []string               `gorm:"type:text;serializer:json" json:"-"`

	Size          int        `gorm:"not null" json:"size"`
	Status        string     `gorm:"size:20;not null;default:'active';index" json:"status"`
	CurrentRound  int        `gorm:"default:1" json:"current_round"`
	TotalRounds   int        `gorm:"not null" json:"total_rounds"`
	WinnerPlaceID string     `gorm:"size:255" json:"winner_place_id,omitempty"`
	WinnerName    string     `gorm:"size:255" json:"winner_name,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"updated_at"`
}

//
// ===============================
// PREPARE & VALIDATE
// ===============================
//

func (r *TournamentRun) BeforeCreate(tx *gorm.DB) (err error) {
	if r.PublicID == "" {
		r.PublicID = uuid.NewString()
	}
	return nil
}

func (r *TournamentRun) Prepare() {
	r.ID = 0
	r.Size = len(r.Candidates)
	r.TotalRounds = tournament.TotalRounds(r.Size)
	r.Choices = []string{}
	r.Status = RunStatusActive
	r.CurrentRound = 1
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
}

func (r *TournamentRun) Validate() map[string]string {
	errorsMap := make(map[string]string)
	if len(r.Candidates) < 2 {
		errorsMap["Required_candidates"] = "At least two restaurants are required"
	}
	if _, err := tournament.New(r.Candidates); err != nil && len(r.Candidates) >= 2 {
		errorsMap["Invalid_candidates"] = "Restaurants must be distinct"
	}
	return errorsMap
}

//
// ===============================
// BRACKET
// ===============================
//

// Bracket rebuilds the run's bracket from its pool and recorded choices.
func (r *TournamentRun) Bracket() (*tournament.Bracket, error) {
	return tournament.Replay(r.Candidates, r.Choices)
}

// Sync copies the bracket's position and outcome onto the run.
func (r *TournamentRun) Sync(b *tournament.Bracket, now time.Time) {
	r.Choices = b.Choices()
	r.CurrentRound = b.Round()
	r.UpdatedAt = now
	if winner, ok := b.Winner(); ok {
		r.Status = RunStatusCompleted
		r.WinnerPlaceID = winner.ID
		r.WinnerName = winner.Name
		r.CompletedAt = &now
	}
}

func (r *TournamentRun) IsActive() bool {
	return r.Status == RunStatusActive
}

//
// ===============================
// DATABASE OPERATIONS
// ===============================
//

func (r *TournamentRun) SaveRun(db *gorm.DB) (*TournamentRun, error) {
	if err := db.Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// FindRunByPublicID loads a run. With forUpdate the row is locked until the
// surrounding transaction ends.
func (r *TournamentRun) FindRunByPublicID(db *gorm.DB, publicID string, forUpdate bool) (*TournamentRun, error) {
	var run TournamentRun
	query := db
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.Where("public_id = ?", publicID).Take(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// SaveProgress writes choices, round and outcome.
func (r *TournamentRun) SaveProgress(db *gorm.DB) error {
	choices, err := json.Marshal(r.Choices)
	if err != nil {
		return err
	}
	return db.Model(&TournamentRun{}).Where("id = ?", r.ID).Updates(map[string]interface{}{
		"choices":         string(choices),
		"current_round":   r.CurrentRound,
		"status":          r.Status,
		"winner_place_id": r.WinnerPlaceID,
		"winner_name":     r.WinnerName,
		"completed_at":    r.CompletedAt,
		"updated_at":      r.UpdatedAt,
	}).Error
}

func (r *TournamentRun) Abandon(db *gorm.DB, now time.Time) error {
	if !r.IsActive() {
		return ErrRunClosed
	}
	r.Status = RunStatusAbandoned
	r.UpdatedAt = now
	return db.Model(&TournamentRun{}).Where("id = ?", r.ID).Updates(map[string]interface{}{
		"status":     r.Status,
		"updated_at": r.UpdatedAt,
	}).Error
}

// FindUserWinners lists a user's completed runs, newest first.
func (r *TournamentRun) FindUserWinners(db *gorm.DB, uid uint, limit int) (*[]TournamentRun, error) {
	runs := []TournamentRun{}
	err := db.Where("user_id = ? AND status = ?", uid, RunStatusCompleted).
		Order("completed_at desc").Order("id desc").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return &runs, nil
}

// AbandonStaleRuns marks active runs untouched since cutoff as abandoned.
func AbandonStaleRuns(db *gorm.DB, cutoff, now time.Time) (int64, error) {
	result := db.Model(&TournamentRun{}).
		Where("status = ? AND updated_at < ?", RunStatusActive, cutoff).
		Updates(map[string]interface{}{"status": RunStatusAbandoned, "updated_at": now})
	return result.RowsAffected, result.Error
}
