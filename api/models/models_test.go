package models

import (
	"fmt"
	"testing"
	"time"

	"RestaurantAdviser/api/sentiment"
	"RestaurantAdviser/api/tournament"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&User{}, &ResetPassword{}, &Comment{}, &CommentLike{}, &Favorite{}, &TournamentRun{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *User {
	t.Helper()
	u := &User{Username: name, Email: name + "@example.com", Password: "password123"}
	u.Prepare()
	require.Empty(t, u.Validate(""))
	saved, err := u.SaveUser(db)
	require.NoError(t, err)
	return saved
}

func candidates(n int) []tournament.Candidate {
	out := make([]tournament.Candidate, n)
	for i := range out {
		out[i] = tournament.Candidate{ID: fmt.Sprintf("place-%d", i), Name: fmt.Sprintf("Place %d", i)}
	}
	return out
}

func TestUserPasswordIsHashedAndPublicIDSet(t *testing.T) {
	db := setupDB(t)
	u := seedUser(t, db, "ola")
	assert.NotEqual(t, "password123", u.Password)
	assert.NotEmpty(t, u.PublicID)

	found, err := (&User{}).FindUserByIdentifier(db, u.PublicID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	found, err = (&User{}).FindUserByIdentifier(db, fmt.Sprint(u.ID))
	require.NoError(t, err)
	assert.Equal(t, "ola", found.Username)

	_, err = (&User{}).FindUserByID(db, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserValidate(t *testing.T) {
	u := &User{Email: "not-an-email", Password: "123"}
	errs := u.Validate("")
	assert.Contains(t, errs, "Required_username")
	assert.Contains(t, errs, "Invalid_password")
	assert.Contains(t, errs, "Invalid_email")

	errs = (&User{}).Validate("login")
	assert.Contains(t, errs, "Required_email")
	assert.Contains(t, errs, "Required_password")
}

func TestFavoriteUpsertOverwritesSnapshot(t *testing.T) {
	db := setupDB(t)
	u := seedUser(t, db, "kuba")

	f := &Favorite{UserID: u.ID, PlaceID: "p1", Name: "Old Name", Rating: 3.5}
	f.Prepare()
	_, err := f.SaveFavorite(db)
	require.NoError(t, err)

	again := &Favorite{UserID: u.ID, PlaceID: "p1", Name: "New Name", Rating: 4.5}
	again.Prepare()
	saved, err := again.SaveFavorite(db)
	require.NoError(t, err)
	assert.Equal(t, "New Name", saved.Name)
	assert.Equal(t, 4.5, saved.Rating)

	all, err := (&Favorite{}).FindUserFavorites(db, u.ID)
	require.NoError(t, err)
	assert.Len(t, *all, 1)

	n, err := (&Favorite{}).DeleteFavorite(db, u.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCommentLikesAndAspects(t *testing.T) {
	db := setupDB(t)
	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")

	c := &Comment{UserID: author.ID, PlaceID: "p1", Body: "Great soup"}
	c.Prepare()
	require.Empty(t, c.Validate(""))
	_, err := c.SaveComment(db)
	require.NoError(t, err)

	liked, err := (&CommentLike{CommentID: c.ID, UserID: fan.ID}).ToggleLike(db)
	require.NoError(t, err)
	assert.True(t, liked)

	counts, err := CountLikes(db, []uint{c.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[c.ID])

	byFan, err := LikedBy(db, fan.ID, []uint{c.ID})
	require.NoError(t, err)
	assert.True(t, byFan[c.ID])

	liked, err = (&CommentLike{CommentID: c.ID, UserID: fan.ID}).ToggleLike(db)
	require.NoError(t, err)
	assert.False(t, liked)

	stored, err := c.SetAspects(db, "Great soup", []sentiment.Aspect{{Aspect: "soup", Sentiment: "positive"}})
	require.NoError(t, err)
	assert.True(t, stored)

	// stale body is ignored
	stored, err = c.SetAspects(db, "Edited", nil)
	require.NoError(t, err)
	assert.False(t, stored)

	found, err := (&Comment{}).FindCommentByPublicID(db, c.PublicID)
	require.NoError(t, err)
	assert.Equal(t, []sentiment.Aspect{{Aspect: "soup", Sentiment: "positive"}}, found.Aspects)
	assert.Equal(t, "author", found.Author.Username)
}

func TestDeleteUserRemovesOwnedRows(t *testing.T) {
	db := setupDB(t)
	u := seedUser(t, db, "leaving")
	other := seedUser(t, db, "staying")

	c := &Comment{UserID: u.ID, PlaceID: "p", Body: "bye"}
	c.Prepare()
	_, err := c.SaveComment(db)
	require.NoError(t, err)
	_, err = (&CommentLike{CommentID: c.ID, UserID: other.ID}).ToggleLike(db)
	require.NoError(t, err)

	f := &Favorite{UserID: u.ID, PlaceID: "p", Name: "P"}
	f.Prepare()
	_, err = f.SaveFavorite(db)
	require.NoError(t, err)

	n, err := (&User{}).DeleteAUser(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int64
	db.Model(&Comment{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&CommentLike{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&Favorite{}).Count(&count)
	assert.Zero(t, count)
}

func TestTournamentRunReplayAndSync(t *testing.T) {
	db := setupDB(t)
	run := &TournamentRun{Candidates: candidates(4)}
	run.Prepare()
	require.Empty(t, run.Validate())
	_, err := run.SaveRun(db)
	require.NoError(t, err)
	assert.Len(t, run.PublicID, 36)
	assert.Equal(t, 2, run.TotalRounds)

	for _, pick := range []string{"place-0", "place-3", "place-3"} {
		loaded, err := (&TournamentRun{}).FindRunByPublicID(db, run.PublicID, true)
		require.NoError(t, err)
		b, err := loaded.Bracket()
		require.NoError(t, err)
		require.NoError(t, b.ChooseWinnerID(pick))
		loaded.Sync(b, time.Now())
		require.NoError(t, loaded.SaveProgress(db))
	}

	done, err := (&TournamentRun{}).FindRunByPublicID(db, run.PublicID, false)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, done.Status)
	assert.Equal(t, "place-3", done.WinnerPlaceID)
	assert.Equal(t, []string{"place-0", "place-3", "place-3"}, done.Choices)
	require.NotNil(t, done.CompletedAt)

	assert.ErrorIs(t, done.Abandon(db, time.Now()), ErrRunClosed)
}

func TestTournamentRunValidate(t *testing.T) {
	run := &TournamentRun{Candidates: candidates(1)}
	assert.Contains(t, run.Validate(), "Required_candidates")

	dup := append(candidates(2), candidates(1)...)
	run = &TournamentRun{Candidates: dup}
	assert.Contains(t, run.Validate(), "Invalid_candidates")
}

func TestAbandonStaleRunsAndPurgeTokens(t *testing.T) {
	db := setupDB(t)
	now := time.Now()

	fresh := &TournamentRun{Candidates: candidates(2)}
	fresh.Prepare()
	_, err := fresh.SaveRun(db)
	require.NoError(t, err)

	stale := &TournamentRun{Candidates: candidates(2)}
	stale.Prepare()
	stale.UpdatedAt = now.Add(-48 * time.Hour)
	_, err = stale.SaveRun(db)
	require.NoError(t, err)

	n, err := AbandonStaleRuns(db, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := (&TournamentRun{}).FindRunByPublicID(db, stale.PublicID, false)
	require.NoError(t, err)
	assert.Equal(t, RunStatusAbandoned, got.Status)

	old := &ResetPassword{Email: "a@example.com", Token: "old"}
	old.Prepare()
	old.CreatedAt = now.Add(-2 * time.Hour)
	_, err = old.SaveResetPassword(db)
	require.NoError(t, err)

	recent := &ResetPassword{Email: "a@example.com", Token: "new"}
	recent.Prepare()
	_, err = recent.SaveResetPassword(db)
	require.NoError(t, err)

	_, err = (&ResetPassword{}).FindValidToken(db, "old", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	purged, err := PurgeExpiredResetTokens(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = (&ResetPassword{}).FindValidToken(db, "new", now)
	assert.NoError(t, err)
}
