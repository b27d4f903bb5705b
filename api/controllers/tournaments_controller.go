package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"RestaurantAdviser/api/cache"
	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/metrics"
	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/places"
	"RestaurantAdviser/api/responses"
	"RestaurantAdviser/api/tournament"
	httpctx "RestaurantAdviser/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultWinnerHistory = 20
	maxWinnerHistory     = 100
	winnerHistoryTTL     = 5 * time.Minute
)

// errResponseWritten aborts a transaction whose handler already answered.
var errResponseWritten = errors.New("response already written")

// startTournamentRequest selects entrants either by search (location, radius,
// sort_by and size) or by explicit place_ids.
type startTournamentRequest struct {
	Location *places.Location `json:"location"`
	Radius   int              `json:"radius"`
	SortBy   places.SortBy    `json:"sort_by"`
	Size     int              `json:"size"`
	PlaceIDs []string         `json:"place_ids"`
}

type chooseWinnerRequest struct {
	WinnerID string `json:"winner_id"`
}

func (r startTournamentRequest) validate() map[string]string {
	errorMessages := map[string]string{}
	if len(r.PlaceIDs) > 0 {
		return errorMessages
	}
	if r.Location == nil {
		errorMessages["Required_location"] = "A location or a list of places is required"
	}
	if r.Radius < 0 || r.Radius > places.AnyDistance {
		errorMessages["Invalid_radius"] = "Radius must be between 1 and 5001 metres"
	}
	if r.Size == 0 {
		errorMessages["Required_size"] = "Tournament size is required"
	}
	return errorMessages
}

func (r startTournamentRequest) poolRequest() places.PoolRequest {
	if len(r.PlaceIDs) > 0 {
		return places.PoolRequest{PlaceIDs: r.PlaceIDs}
	}
	search := places.SearchRequest{Location: *r.Location, Radius: r.Radius, SortBy: r.SortBy}
	if search.Radius == 0 {
		search.Radius = defaultSearchRadius
	}
	return places.PoolRequest{Search: search.Effective(), Size: r.Size}
}

// StartTournament builds a pool and persists a new run. Signed-in callers
// own the run.
func (server *Server) StartTournament(c *gin.Context) {
	var req startTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}
	if errorMessages := req.validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	candidates, err := server.Pools.Fetch(c.Request.Context(), req.poolRequest())
	if err != nil {
		switch {
		case errors.Is(err, places.ErrTooFewRestaurants):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  map[string]string{"Too_few_restaurants": "Too few restaurants, increase the distance"},
			})
		case errors.Is(err, places.ErrUnsupportedSize):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  map[string]string{"Invalid_size": err.Error()},
			})
		case errors.Is(err, tournament.ErrInsufficientCandidates):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  map[string]string{"Required_candidates": "At least two restaurants are required"},
			})
		default:
			server.placesError(c, err)
		}
		return
	}

	run := models.TournamentRun{UserID: httpctx.OptionalUserID(c), Candidates: candidates}
	run.Prepare()
	if errorMessages := run.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}
	bracket, err := run.Bracket()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": err.Error()})
		return
	}

	if _, err := run.SaveRun(server.DB); err != nil {
		logging.L().Errorw("save tournament failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}
	metrics.TournamentsStarted.WithLabelValues(strconv.Itoa(run.Size)).Inc()

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": responses.NewTournamentResponse(&run, bracket.Snapshot()),
	})
}

func (server *Server) GetTournament(c *gin.Context) {
	run, ok := server.lookupRun(c, server.DB, false)
	if !ok {
		return
	}
	bracket, err := run.Bracket()
	if err != nil {
		logging.L().Errorw("tournament replay failed", "tournament_id", run.PublicID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load tournament"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": responses.NewTournamentResponse(run, bracket.Snapshot()),
	})
}

// ChooseWinner decides the current match. The run row stays locked from
// replay to save, so concurrent choices for one run apply one at a time.
func (server *Server) ChooseWinner(c *gin.Context) {
	var req chooseWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WinnerID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Required_winner": "winner_id is required"},
		})
		return
	}

	var (
		run     *models.TournamentRun
		bracket *tournament.Bracket
	)
	err := server.DB.Transaction(func(tx *gorm.DB) error {
		found, ok := server.lookupRun(c, tx, true)
		if !ok {
			return errResponseWritten
		}
		if !found.IsActive() {
			return models.ErrRunClosed
		}
		b, err := found.Bracket()
		if err != nil {
			return err
		}
		if err := b.ChooseWinnerID(req.WinnerID); err != nil {
			return err
		}
		found.Sync(b, time.Now())
		if err := found.SaveProgress(tx); err != nil {
			return err
		}
		run, bracket = found, b
		return nil
	})
	if err != nil {
		server.tournamentError(c, err)
		return
	}

	metrics.TournamentChoices.Inc()
	if winner, ok := bracket.Winner(); ok {
		metrics.TournamentsFinished.WithLabelValues(metrics.OutcomeCompleted).Inc()
		if err := server.Outcomes.Record(c.Request.Context(), run, winner); err != nil {
			logging.L().Warnw("record tournament outcome failed", "tournament_id", run.PublicID, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": responses.NewTournamentResponse(run, bracket.Snapshot()),
	})
}

// AbandonTournament cancels an active run. Nothing of it is kept except the
// abandoned status.
func (server *Server) AbandonTournament(c *gin.Context) {
	var run *models.TournamentRun
	err := server.DB.Transaction(func(tx *gorm.DB) error {
		found, ok := server.lookupRun(c, tx, true)
		if !ok {
			return errResponseWritten
		}
		if err := found.Abandon(tx, time.Now()); err != nil {
			return err
		}
		run = found
		return nil
	})
	if err != nil {
		server.tournamentError(c, err)
		return
	}
	metrics.TournamentsFinished.WithLabelValues(metrics.OutcomeAbandoned).Inc()

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": gin.H{"id": run.PublicID, "status": run.Status},
	})
}

// GetUserTournaments lists a user's winners, newest first.
func (server *Server) GetUserTournaments(c *gin.Context) {
	user, err := (&models.User{}).FindUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	limit := defaultWinnerHistory
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		if n > maxWinnerHistory {
			n = maxWinnerHistory
		}
		limit = n
	}

	ctx := c.Request.Context()
	key := winnerHistoryKey(user.ID, limit)
	var response []responses.WinnerResponse
	if found, _ := cache.GetJSON(ctx, key, &response); found {
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": response})
		return
	}

	runs, err := (&models.TournamentRun{}).FindUserWinners(server.DB, user.ID, limit)
	if err != nil {
		logging.L().Errorw("list winners failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}
	response = make([]responses.WinnerResponse, len(*runs))
	for i, run := range *runs {
		response[i] = responses.NewWinnerResponse(run)
	}
	_ = cache.SetJSON(ctx, key, response, winnerHistoryTTL)

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": response})
}

func (server *Server) tournamentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errResponseWritten):
	case errors.Is(err, models.ErrRunClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Tournament is no longer active"})
	case errors.Is(err, tournament.ErrBracketComplete):
		c.JSON(http.StatusConflict, gin.H{"error": "Tournament already has a winner"})
	case errors.Is(err, tournament.ErrInvalidCandidate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_winner": "Winner must be one of the two restaurants in the current match"},
		})
	default:
		logging.L().Errorw("tournament update failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
	}
}
