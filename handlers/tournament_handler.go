package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/knightsclub/chessclub/middleware"
	"github.com/knightsclub/chessclub/models"
	"github.com/knightsclub/chessclub/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

type createTournamentRequest struct {
	Name         string                  `json:"name"`
	Type         models.TournamentType   `json:"type"`
	EventDate    time.Time               `json:"event_date"`
	TimeControl  string                  `json:"time_control"`
	AdminComment string                  `json:"admin_comment"`
	Participants []models.ParticipantRef `json:"participants"`
}

type updateTournamentRequest struct {
	ID           int                      `json:"id"`
	Name         *string                  `json:"name"`
	Type         *models.TournamentType   `json:"type"`
	EventDate    *time.Time               `json:"event_date"`
	TimeControl  *string                  `json:"time_control"`
	AdminComment *string                  `json:"admin_comment"`
	Participants *[]models.ParticipantRef `json:"participants"`
}

type tournamentIDRequest struct {
	TournamentID int `json:"tournamentId"`
}

// matchPayload accepts a match as it is rendered by GET /tournaments/{id}, so
// clients can send a modified copy back. Only round, number and players are read.
type matchPayload struct {
	ID          string                 `json:"id"`
	Side        string                 `json:"side"`
	Round       int                    `json:"round"`
	MatchNumber int                    `json:"match_number"`
	Player1     *models.ParticipantRef `json:"player1"`
	Player2     *models.ParticipantRef `json:"player2"`
	Winner      *models.ParticipantRef `json:"winner"`
	Score1      *int                   `json:"score1"`
	Score2      *int                   `json:"score2"`
	Completed   bool                   `json:"completed"`
}

type manualPairingRequest struct {
	TournamentID int            `json:"tournamentId"`
	Matches      []matchPayload `json:"matches"`
}

type updateMatchRequest struct {
	TournamentID int                   `json:"tournamentId"`
	MatchID      string                `json:"matchId"`
	Score1       *int                  `json:"score1"`
	Score2       *int                  `json:"score2"`
	WinnerID     models.ParticipantRef `json:"winnerId"`
}

func refIDs(refs []models.ParticipantRef) []int {
	ids := make([]int, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID()
	}
	return ids
}

func requireTournamentID(id int) error {
	if id <= 0 {
		return errors.New("tournamentId is required")
	}
	return nil
}

// List godoc
// @Summary List tournaments
// @Tags tournaments
// @Produce json
// @Param status query string false "upcoming, in-progress or completed"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{} "Tournaments"
// @Failure 400 {object} map[string]string "Invalid query"
// @Router /tournaments [get]
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter services.ListTournamentsFilter
	query := r.URL.Query()

	if statusStr := query.Get("status"); statusStr != "" {
		status := models.TournamentStatus(statusStr)
		switch status {
		case models.StatusUpcoming, models.StatusInProgress, models.StatusCompleted:
			filter.Status = &status
		default:
			badRequestResponse(w, r, fmt.Errorf("invalid status %q", statusStr))
			return
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
		filter.Limit = limit
	} else {
		filter.Limit = 20
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
		filter.Offset = offset
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get godoc
// @Summary Get a tournament with its bracket
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Tournament"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Not found"
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Create a tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body createTournamentRequest true "Tournament"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin only"
// @Security BearerAuth
// @Router /tournaments/create [post]
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to create tournament")
		return
	}

	var input createTournamentRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), actorID, services.CreateTournamentInput{
		Name:         input.Name,
		Type:         input.Type,
		EventDate:    input.EventDate,
		TimeControl:  input.TimeControl,
		AdminComment: input.AdminComment,
		Participants: refIDs(input.Participants),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"message": "tournament created", "tournament": tournament}
	if err := writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary Update tournament details
// @Description Only allowed while the tournament is upcoming. Changing the participant list or type clears the bracket.
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body updateTournamentRequest true "Fields to change"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Security BearerAuth
// @Router /tournaments/update [put]
func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input updateTournamentRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ID <= 0 {
		badRequestResponse(w, r, errors.New("id is required"))
		return
	}

	update := services.UpdateTournamentInput{
		Name:         input.Name,
		Type:         input.Type,
		EventDate:    input.EventDate,
		TimeControl:  input.TimeControl,
		AdminComment: input.AdminComment,
	}
	if input.Participants != nil {
		ids := refIDs(*input.Participants)
		update.Participants = &ids
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), input.ID, update)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"message": "tournament updated", "tournament": tournament}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Delete a tournament
// @Tags tournaments
// @Produce json
// @Param id query int true "Tournament ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /tournaments/delete [delete]
func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Query().Get("id"), "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "tournament deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Register godoc
// @Summary Register the caller for a tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body tournamentIDRequest true "Tournament"
// @Success 200 {object} map[string]interface{} "Registered"
// @Failure 400 {object} map[string]string "Tournament already started"
// @Failure 409 {object} map[string]string "Already registered"
// @Security BearerAuth
// @Router /tournaments/register [post]
func (h *TournamentHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.roster(w, r, "registered for tournament", h.tournamentService.Register)
}

// Unregister godoc
// @Summary Withdraw the caller from a tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body tournamentIDRequest true "Tournament"
// @Success 200 {object} map[string]interface{} "Unregistered"
// @Failure 400 {object} map[string]string "Not registered or tournament already started"
// @Security BearerAuth
// @Router /tournaments/unregister [post]
func (h *TournamentHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	h.roster(w, r, "unregistered from tournament", h.tournamentService.Unregister)
}

type rosterFunc func(ctx context.Context, id, userID int) (*models.Tournament, error)

func (h *TournamentHandler) roster(w http.ResponseWriter, r *http.Request, message string, fn rosterFunc) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input tournamentIDRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := requireTournamentID(input.TournamentID); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := fn(r.Context(), input.TournamentID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": message, "tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GeneratePairings godoc
// @Summary Seed participants by rating and build the bracket
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body tournamentIDRequest true "Tournament"
// @Success 200 {object} map[string]interface{} "Bracket generated"
// @Failure 400 {object} map[string]string "Participant count not a power of two, or tournament started"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /tournaments/generate-pairings [post]
func (h *TournamentHandler) GeneratePairings(w http.ResponseWriter, r *http.Request) {
	var input tournamentIDRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := requireTournamentID(input.TournamentID); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GeneratePairings(r.Context(), input.TournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"message": "pairings generated", "tournament": tournament}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ManualPairing godoc
// @Summary Replace the bracket with admin-chosen first round pairings
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body manualPairingRequest true "Full match list; only round 1 players are used"
// @Success 200 {object} map[string]interface{} "Pairings saved"
// @Failure 400 {object} map[string]string "Invalid pairing"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /tournaments/manual-pairing [post]
func (h *TournamentHandler) ManualPairing(w http.ResponseWriter, r *http.Request) {
	var input manualPairingRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := requireTournamentID(input.TournamentID); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches := make([]models.Match, 0, len(input.Matches))
	for _, m := range input.Matches {
		if m.Side != "" && m.Side != string(models.WinnersSide) {
			continue
		}
		matches = append(matches, models.Match{
			Round:       m.Round,
			MatchNumber: m.MatchNumber,
			Player1:     models.IDPtr(m.Player1),
			Player2:     models.IDPtr(m.Player2),
		})
	}

	tournament, err := h.tournamentService.ManualPairing(r.Context(), input.TournamentID, matches)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"message": "pairings saved", "tournament": tournament}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMatch godoc
// @Summary Record a match result
// @Description Advances the winner. The first result starts the tournament, the final completes it.
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body updateMatchRequest true "Result"
// @Success 200 {object} map[string]interface{} "Result recorded"
// @Failure 400 {object} map[string]string "Tied score, winner mismatch or match already completed"
// @Failure 404 {object} map[string]string "Tournament or match not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Security BearerAuth
// @Router /tournaments/update-match [post]
func (h *TournamentHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	var input updateMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := requireTournamentID(input.TournamentID); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.MatchID == "" || input.Score1 == nil || input.Score2 == nil || input.WinnerID.ID() <= 0 {
		badRequestResponse(w, r, errors.New("matchId, score1, score2 and winnerId are required"))
		return
	}
	if *input.Score1 < 0 || *input.Score2 < 0 {
		badRequestResponse(w, r, errors.New("scores cannot be negative"))
		return
	}

	out, err := h.tournamentService.RecordMatchResult(r.Context(), input.TournamentID, services.RecordResultInput{
		MatchID:  input.MatchID,
		Score1:   *input.Score1,
		Score2:   *input.Score2,
		WinnerID: input.WinnerID.ID(),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	message := "match updated"
	if out.Completed {
		message = "match updated, tournament completed"
	}
	resp := jsonResponse{"message": message, "tournament": out.Tournament, "match": out.Match}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
