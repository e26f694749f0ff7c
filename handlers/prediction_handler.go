package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mkearsley/madness-pool/services"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(predictionService services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// GetChoices lists the teams a user could legitimately pick for a match,
// honoring the user's own guesses on earlier rounds. The user travels as
// ?user_id=N since there is no authentication layer.
func (h *PredictionHandler) GetChoices(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil || userID <= 0 {
		badRequestResponse(w, r, errors.New("query parameter user_id must be a positive integer"))
		return
	}

	choices, err := h.predictionService.TeamChoices(r.Context(), matchID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"choices": choices}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type submitPredictionInput struct {
	UserID     int    `json:"user_id" validate:"required,min=1"`
	GuessID    int    `json:"guess_id"`
	Guess      string `json:"guess"`
	Team1Score *int   `json:"team1_score"`
	Team2Score *int   `json:"team2_score"`
}

func (h *PredictionHandler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input submitPredictionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if problems := validateStruct(input); problems != nil {
		failedValidationResponse(w, r, problems)
		return
	}
	if input.GuessID == 0 && input.Guess == "" {
		badRequestResponse(w, r, errors.New("either guess_id or guess must be provided"))
		return
	}

	prediction, err := h.predictionService.SubmitPrediction(r.Context(), services.SubmitPredictionInput{
		UserID:     input.UserID,
		MatchID:    matchID,
		GuessID:    input.GuessID,
		Guess:      input.Guess,
		Team1Score: input.Team1Score,
		Team2Score: input.Team2Score,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"prediction": prediction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil || userID <= 0 {
		badRequestResponse(w, r, errors.New("query parameter user_id must be a positive integer"))
		return
	}

	prediction, err := h.predictionService.GetPrediction(r.Context(), userID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"prediction": prediction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
