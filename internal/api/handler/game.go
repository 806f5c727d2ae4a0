package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/api/middleware"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/api/request"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/api/response"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	games *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *game.Controller) *GameHandler {
	return &GameHandler{
		games: games,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	gameType := req.Type
	if gameType == "" {
		gameType = model.GameTypeWar
	}

	g, err := h.games.Create(r.Context(), gameType)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// Get handles GET /api/v1/games/{gameId}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameId"])

	g, err := h.games.Get(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Join handles POST /api/v1/games/{gameId}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameId"])
	identity := middleware.MustGetIdentity(r.Context())

	g, err := h.games.Join(r.Context(), gameID, model.PlayerID(identity.Username))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}
