package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bracketOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	bracket, ok := object(t, body)["bracket"].(map[string]interface{})
	require.True(t, ok, "no bracket in %v", body)
	return bracket
}

func currentMatch(t *testing.T, body map[string]interface{}) (string, string) {
	t.Helper()
	match, ok := bracketOf(t, body)["match"].(map[string]interface{})
	require.True(t, ok, "no current match in %v", body)
	a := match["a"].(map[string]interface{})["id"].(string)
	b := match["b"].(map[string]interface{})["id"].(string)
	return a, b
}

func startExplicit(t *testing.T, env *testEnv, token string, ids ...string) (string, map[string]interface{}) {
	t.Helper()
	w, body := env.request(t, http.MethodPost, "/api/v1/tournaments", map[string]interface{}{"place_ids": ids}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return object(t, body)["id"].(string), body
}

func choose(t *testing.T, env *testEnv, token, id, winner string) (int, map[string]interface{}) {
	t.Helper()
	w, body := env.request(t, http.MethodPost, "/api/v1/tournaments/"+id+"/choose", map[string]string{"winner_id": winner}, token)
	return w.Code, body
}

func TestFourRestaurantTournament(t *testing.T) {
	env := setup(t)

	id, body := startExplicit(t, env, "", "r00", "r01", "r02", "r03")
	assert.Equal(t, "active", object(t, body)["status"])
	assert.Equal(t, float64(2), bracketOf(t, body)["total_rounds"])
	a, b := currentMatch(t, body)
	assert.Equal(t, []string{"r00", "r01"}, []string{a, b})

	code, body := choose(t, env, "", id, "r00")
	require.Equal(t, http.StatusOK, code)
	a, b = currentMatch(t, body)
	assert.Equal(t, []string{"r02", "r03"}, []string{a, b})

	code, body = choose(t, env, "", id, "r02")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), bracketOf(t, body)["round"])
	a, b = currentMatch(t, body)
	assert.Equal(t, []string{"r00", "r02"}, []string{a, b})

	code, body = choose(t, env, "", id, "r00")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "completed", object(t, body)["status"])
	bracket := bracketOf(t, body)
	assert.Equal(t, true, bracket["terminal"])
	assert.Equal(t, "r00", bracket["winner"].(map[string]interface{})["id"])
	assert.Equal(t, map[string]interface{}{"completed": float64(3), "total": float64(3)}, bracket["progress"])

	// the winner is enriched with details
	meta := bracket["winner"].(map[string]interface{})["metadata"].(map[string]interface{})
	assert.Equal(t, "Restaurant 0", meta["name"])

	code, _ = choose(t, env, "", id, "r00")
	assert.Equal(t, http.StatusConflict, code)

	w, body := env.request(t, http.MethodGet, "/api/v1/tournaments/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r00", bracketOf(t, body)["winner"].(map[string]interface{})["id"])
}

func TestChooseRejectsRestaurantOutsideMatch(t *testing.T) {
	env := setup(t)
	id, _ := startExplicit(t, env, "", "r00", "r01", "r02", "r03")

	code, body := choose(t, env, "", id, "r02")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, errorsOf(t, body, "error"), "Invalid_winner")

	w, body := env.request(t, http.MethodGet, "/api/v1/tournaments/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	progress := bracketOf(t, body)["progress"].(map[string]interface{})
	assert.Equal(t, float64(0), progress["completed"])

	code, _ = choose(t, env, "", id, "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestOddTournamentGivesBye(t *testing.T) {
	env := setup(t)
	id, body := startExplicit(t, env, "", "r00", "r01", "r02", "r03", "r04")
	assert.Equal(t, float64(3), bracketOf(t, body)["total_rounds"])

	choose(t, env, "", id, "r00")
	code, body := choose(t, env, "", id, "r03")
	require.Equal(t, http.StatusOK, code)

	bracket := bracketOf(t, body)
	assert.Equal(t, float64(2), bracket["round"])
	a, b := currentMatch(t, body)
	assert.Equal(t, []string{"r00", "r03"}, []string{a, b})
	remaining := bracket["remaining"].([]interface{})
	require.Len(t, remaining, 3)
	assert.Equal(t, "r04", remaining[2].(map[string]interface{})["id"])
}

func TestStartTournamentFromSearch(t *testing.T) {
	env := setup(t)

	w, body := env.request(t, http.MethodPost, "/api/v1/tournaments", map[string]interface{}{
		"location": map[string]float64{"lat": 48.1, "lng": 11.5},
		"radius":   2000,
		"size":     16,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(16), object(t, body)["size"])
	assert.Equal(t, float64(4), bracketOf(t, body)["total_rounds"])
	a, b := currentMatch(t, body)
	assert.Equal(t, []string{"r00", "r01"}, []string{a, b})

	w, body = env.request(t, http.MethodPost, "/api/v1/tournaments", map[string]interface{}{
		"location": map[string]float64{"lat": 48.1, "lng": 11.5},
		"size":     32,
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, errorsOf(t, body, "error"), "Invalid_size")
}

func TestStartTournamentTooFewRestaurants(t *testing.T) {
	env := setup(t)
	env.places.nearby = restaurantsNamed(6)

	w, body := env.request(t, http.MethodPost, "/api/v1/tournaments", map[string]interface{}{
		"location": map[string]float64{"lat": 48.1, "lng": 11.5},
		"size":     8,
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, errorsOf(t, body, "error"), "Too_few_restaurants")
}

func TestStartTournamentValidation(t *testing.T) {
	env := setup(t)

	w, body := env.request(t, http.MethodPost, "/api/v1/tournaments", map[string]interface{}{}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := errorsOf(t, body, "error")
	assert.Contains(t, errs, "Required_location")
	assert.Contains(t, errs, "Required_size")

	// one of the two places has no details, leaving a single entrant
	w, body = env.request(t, http.MethodPost, "/api/v1/tournaments", map[string]interface{}{
		"place_ids": []string{"r00", "unknown"},
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, errorsOf(t, body, "error"), "Required_candidates")
}

func TestOwnedTournamentIsPrivate(t *testing.T) {
	env := setup(t)
	owner, ownerID := env.signUp(t, "xena")
	other, _ := env.signUp(t, "yuri")

	id, _ := startExplicit(t, env, owner, "r00", "r01")

	w, _ := env.request(t, http.MethodGet, "/api/v1/tournaments/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = env.request(t, http.MethodGet, "/api/v1/tournaments/"+id, nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)
	code, _ := choose(t, env, other, id, "r00")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = choose(t, env, owner, id, "r01")
	require.Equal(t, http.StatusOK, code)

	w, body := env.request(t, http.MethodGet, "/api/v1/users/"+ownerID+"/tournaments", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	winners := list(t, body)
	require.Len(t, winners, 1)
	assert.Equal(t, "r01", winners[0].(map[string]interface{})["place_id"])
	assert.Equal(t, id, winners[0].(map[string]interface{})["tournament_id"])
}

func TestAbandonTournament(t *testing.T) {
	env := setup(t)
	id, _ := startExplicit(t, env, "", "r00", "r01", "r02")

	w, body := env.request(t, http.MethodDelete, "/api/v1/tournaments/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abandoned", object(t, body)["status"])

	w, _ = env.request(t, http.MethodDelete, "/api/v1/tournaments/"+id, nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	code, _ := choose(t, env, "", id, "r00")
	assert.Equal(t, http.StatusConflict, code)
}

func TestUnknownTournament(t *testing.T) {
	env := setup(t)

	w, _ := env.request(t, http.MethodGet, "/api/v1/tournaments/00000000-0000-0000-0000-000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = env.request(t, http.MethodGet, "/api/v1/tournaments/42", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
