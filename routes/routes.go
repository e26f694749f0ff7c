package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mkearsley/madness-pool/handlers"
)

type Handlers struct {
	Team       *handlers.TeamHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	Prediction *handlers.PredictionHandler
	Group      *handlers.GroupHandler
	User       *handlers.UserHandler
	WebSocket  *handlers.WebSocketHandler
}

func InitRoutes(h Handlers) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/users", func(r chi.Router) {
		r.Post("/", h.User.CreateUser)
		r.Get("/", h.User.ListUsers)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Post("/", h.Team.CreateTeam)
		r.Get("/", h.Team.ListTeams)
		r.Get("/{teamID}", h.Team.GetTeamByID)
		r.Post("/{teamID}/icon", h.Team.UploadIcon)
		r.Post("/{teamID}/ranks", h.Team.AssignRank)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", h.Tournament.CreateTournament)
		r.Get("/", h.Tournament.ListTournaments)
		r.Get("/{tournamentID}", h.Tournament.GetTournamentByID)
		r.Get("/{tournamentID}/bracket", h.Tournament.GetBracket)
		r.Post("/{tournamentID}/bracket/lineup", h.Tournament.BuildLineup)
		r.Post("/{tournamentID}/values", h.Tournament.AssignValues)
		r.Get("/{tournamentID}/standings", h.Tournament.GetStandings)
		r.Post("/{tournamentID}/groups", h.Group.CreateGroup)
	})

	router.Route("/groups", func(r chi.Router) {
		r.Get("/{groupID}", h.Group.GetGroupByID)
		r.Post("/{groupID}/members", h.Group.AddMember)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetMatchByID)
		r.Put("/{matchID}/result", h.Match.SetResult)
		r.Get("/{matchID}/choices", h.Prediction.GetChoices)
		r.Get("/{matchID}/prediction", h.Prediction.GetPrediction)
		r.Put("/{matchID}/prediction", h.Prediction.SubmitPrediction)
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.JoinTournament)

	return router
}
