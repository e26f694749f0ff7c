package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkearsley/madness-pool/handlers"
	"github.com/mkearsley/madness-pool/repositories/inmem"
	"github.com/mkearsley/madness-pool/routes"
	"github.com/mkearsley/madness-pool/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := inmem.NewStore()
	teamRepo := inmem.NewTeamRepository(store)
	rankRepo := inmem.NewTeamRankRepository(store)
	tournamentRepo := inmem.NewTournamentRepository(store)
	roundRepo := inmem.NewRoundRepository(store)
	matchRepo := inmem.NewMatchRepository(store)
	userRepo := inmem.NewUserRepository(store)
	predictionRepo := inmem.NewPredictionRepository(store)
	groupRepo := inmem.NewGroupRepository(store)

	teamService := services.NewTeamService(teamRepo, rankRepo, nil)
	tournamentService := services.NewTournamentService(tournamentRepo, roundRepo, matchRepo, teamRepo)
	bracketService := services.NewBracketService(tournamentRepo, roundRepo, matchRepo, nil)
	matchService := services.NewMatchService(matchRepo, nil)
	predictionService := services.NewPredictionService(matchRepo, teamRepo, userRepo, predictionRepo)
	scoringService := services.NewScoringService(tournamentRepo, matchRepo, rankRepo, predictionRepo, userRepo, groupRepo)
	groupService := services.NewGroupService(groupRepo, tournamentRepo, userRepo)
	userService := services.NewUserService(userRepo)

	router := routes.InitRoutes(routes.Handlers{
		Team:       handlers.NewTeamHandler(teamService),
		Tournament: handlers.NewTournamentHandler(tournamentService, bracketService, scoringService),
		Match:      handlers.NewMatchHandler(matchService),
		Prediction: handlers.NewPredictionHandler(predictionService),
		Group:      handlers.NewGroupHandler(groupService),
		User:       handlers.NewUserHandler(userService),
		WebSocket:  handlers.NewWebSocketHandler(nil, tournamentService),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, server *httptest.Server, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]json.RawMessage {
	t.Helper()
	defer resp.Body.Close()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestCreateTeamEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/teams", map[string]string{"name": "Duke"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	envelope := decodeBody(t, resp)
	assert.Contains(t, envelope, "team")

	// Duplicate name conflicts.
	resp = postJSON(t, server, "/teams", map[string]string{"name": "Duke"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Missing name fails validation.
	resp = postJSON(t, server, "/teams", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestTournamentEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/tournaments", map[string]interface{}{"name": "Midwest Regional", "year": 2024})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/tournaments/999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Building the lineup without round-one matches is a caller error.
	resp = postJSON(t, server, "/tournaments/1/bracket/lineup", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestPredictionEndpointRequiresGuess(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/users", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	request, err := http.NewRequest(http.MethodPut, server.URL+"/matches/1/prediction",
		bytes.NewReader([]byte(`{"user_id": 1}`)))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(request)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestIconUploadWithoutStorage(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/teams", map[string]string{"name": "Duke"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var buf bytes.Buffer
	writer := newMultipartIcon(t, &buf)
	request, err := http.NewRequest(http.MethodPost, server.URL+"/teams/1/icon", &buf)
	require.NoError(t, err)
	request.Header.Set("Content-Type", writer)
	resp, err = http.DefaultClient.Do(request)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}

func newMultipartIcon(t *testing.T, buf *bytes.Buffer) string {
	t.Helper()
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("icon", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return writer.FormDataContentType()
}

func TestGroupEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/users", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = postJSON(t, server, "/tournaments", map[string]interface{}{"name": "Midwest Regional", "year": 2024})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server, "/tournaments/2/groups", map[string]interface{}{"name": "Office", "captain_id": 1})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Adding the captain again conflicts.
	resp = postJSON(t, server, fmt.Sprintf("/groups/%d/members", 3), map[string]int{"user_id": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}
