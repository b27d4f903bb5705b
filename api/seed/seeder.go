// Package seed fills a development database with demo accounts and data.
package seed

import (
	"errors"
	"fmt"
	"time"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/tournament"

	"gorm.io/gorm"
)

var users = []models.User{
	{
		Username: "steven",
		Email:    "steven@example.com",
		Password: "password",
	},
	{
		Username: "martin",
		Email:    "luther@example.com",
		Password: "password",
	},
}

var restaurants = []models.Favorite{
	{PlaceID: "demo-place-trattoria", Name: "Trattoria Demo", Address: "Hauptstrasse 1", Latitude: 48.137, Longitude: 11.575, Rating: 4.6, UserRatingsTotal: 812},
	{PlaceID: "demo-place-ramen", Name: "Ramen Demo", Address: "Bahnhofplatz 4", Latitude: 48.140, Longitude: 11.558, Rating: 4.4, UserRatingsTotal: 1290},
	{PlaceID: "demo-place-biergarten", Name: "Biergarten Demo", Address: "Parkweg 9", Latitude: 48.152, Longitude: 11.592, Rating: 4.2, UserRatingsTotal: 3301},
	{PlaceID: "demo-place-falafel", Name: "Falafel Demo", Address: "Marktgasse 12", Latitude: 48.131, Longitude: 11.569, Rating: 4.7, UserRatingsTotal: 402},
}

var comments = []string{
	"Great pasta, slow service.",
	"The broth is excellent and the staff are friendly.",
}

// Load inserts the demo users with a favorite, a comment and one finished
// tournament each. Users that already exist are left alone.
func Load(db *gorm.DB) error {
	for i := range users {
		_, err := (&models.User{}).FindUserByEmail(db, users[i].Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrUserNotFound) {
			return err
		}

		user := users[i]
		user.Prepare()
		if _, err := user.SaveUser(db); err != nil {
			return fmt.Errorf("cannot seed users table: %w", err)
		}

		favorite := restaurants[i]
		favorite.UserID = user.ID
		favorite.Prepare()
		if _, err := favorite.SaveFavorite(db); err != nil {
			return fmt.Errorf("cannot seed favorites table: %w", err)
		}

		comment := models.Comment{UserID: user.ID, PlaceID: restaurants[i].PlaceID, Body: comments[i]}
		comment.Prepare()
		if _, err := comment.SaveComment(db); err != nil {
			return fmt.Errorf("cannot seed comments table: %w", err)
		}

		if err := seedRun(db, user.ID); err != nil {
			return fmt.Errorf("cannot seed tournament runs table: %w", err)
		}
		logging.L().Infow("seeded demo user", "username", user.Username)
	}
	return nil
}

// seedRun plays a four-restaurant bracket to the end, always picking the
// first side.
func seedRun(db *gorm.DB, uid uint) error {
	candidates := make([]tournament.Candidate, len(restaurants))
	for i, r := range restaurants {
		candidates[i] = tournament.Candidate{ID: r.PlaceID, Name: r.Name}
	}

	run := models.TournamentRun{UserID: &uid, Candidates: candidates}
	run.Prepare()
	b, err := run.Bracket()
	if err != nil {
		return err
	}
	for !b.IsTerminal() {
		m, err := b.CurrentMatch()
		if err != nil {
			return err
		}
		if err := b.ChooseWinner(m.A); err != nil {
			return err
		}
	}
	run.Sync(b, time.Now())
	_, err = run.SaveRun(db)
	return err
}
