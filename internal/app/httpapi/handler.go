// Package httpapi exposes the mechanic services over REST.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	app "github.com/sanctum-collective/sanctum/internal/app"
	"github.com/sanctum-collective/sanctum/internal/app/domain/anoint"
	"github.com/sanctum-collective/sanctum/internal/app/domain/eligibility"
	"github.com/sanctum-collective/sanctum/internal/app/domain/governance"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/prophecy"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ritual"
	"github.com/sanctum-collective/sanctum/internal/app/domain/token"
	"github.com/sanctum-collective/sanctum/internal/app/metrics"
	"github.com/sanctum-collective/sanctum/internal/app/services/leaderboard"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// NewHandler returns a router exposing the core REST API.
func NewHandler(application *app.Application) http.Handler {
	h := &handler{app: application}
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/members", h.activateMember).Methods(http.MethodPost)
	api.HandleFunc("/members/{id:[0-9]+}", h.getMember).Methods(http.MethodGet)
	api.HandleFunc("/members/{id:[0-9]+}/upgrade", h.upgradeMember).Methods(http.MethodPost)
	api.HandleFunc("/members/{id:[0-9]+}/benefits", h.memberBenefits).Methods(http.MethodGet)
	api.HandleFunc("/members/{id:[0-9]+}/anointings", h.memberAnointings).Methods(http.MethodGet)

	api.HandleFunc("/anointings/eligibility", h.anointingEligibility).Methods(http.MethodGet)
	api.HandleFunc("/anointings", h.anoint).Methods(http.MethodPost)
	api.HandleFunc("/anointings/recent", h.recentAnointings).Methods(http.MethodGet)
	api.HandleFunc("/anointings/top", h.topAnointers).Methods(http.MethodGet)
	api.HandleFunc("/anointings/{id}", h.getAnointing).Methods(http.MethodGet)

	api.HandleFunc("/staking", h.stake).Methods(http.MethodPost)
	api.HandleFunc("/staking/{id:[0-9]+}/rewards", h.stakingRewards).Methods(http.MethodGet)

	api.HandleFunc("/proposals", h.createProposal).Methods(http.MethodPost)
	api.HandleFunc("/proposals", h.listProposals).Methods(http.MethodGet)
	api.HandleFunc("/proposals/{id}/votes", h.voteProposal).Methods(http.MethodPost)
	api.HandleFunc("/proposals/{id}/results", h.proposalResults).Methods(http.MethodGet)
	api.HandleFunc("/proposals/{id}/execute", h.executeProposal).Methods(http.MethodPost)

	api.HandleFunc("/rituals", h.createRitual).Methods(http.MethodPost)
	api.HandleFunc("/rituals", h.listRituals).Methods(http.MethodGet)
	api.HandleFunc("/rituals/{id}", h.getRitual).Methods(http.MethodGet)
	api.HandleFunc("/rituals/{id}/votes", h.voteRitual).Methods(http.MethodPost)

	api.HandleFunc("/tokens", h.listTokens).Methods(http.MethodGet)
	api.HandleFunc("/tokens", h.createDrop).Methods(http.MethodPost)
	api.HandleFunc("/tokens/{id}/claim", h.claimToken).Methods(http.MethodPost)
	api.HandleFunc("/tokens/{id}/ship", h.shipToken).Methods(http.MethodPost)
	api.HandleFunc("/tokens/claims/recent", h.recentClaims).Methods(http.MethodGet)

	api.HandleFunc("/prophecies", h.createProphecy).Methods(http.MethodPost)
	api.HandleFunc("/prophecies", h.listProphecies).Methods(http.MethodGet)
	api.HandleFunc("/prophecies/burned", h.listBurned).Methods(http.MethodGet)
	api.HandleFunc("/prophecies/{id}/reforge/eligibility", h.reforgeEligibility).Methods(http.MethodGet)
	api.HandleFunc("/prophecies/{id}/reforge", h.initiateReforge).Methods(http.MethodPost)
	api.HandleFunc("/reforges/{id}/complete", h.completeReforge).Methods(http.MethodPost)
	api.HandleFunc("/reforges/{id}/fail", h.failReforge).Methods(http.MethodPost)
	api.HandleFunc("/reforges/stats", h.reforgeStats).Methods(http.MethodGet)

	api.HandleFunc("/leaderboards/{category}", h.leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/feed", h.feed).Methods(http.MethodGet)

	return metrics.InstrumentHandler(r)
}

// touch refreshes a member's last-active timestamp after a successful
// action. Best-effort: a failed refresh never fails the request.
func (h *handler) touch(r *http.Request, memberID int64) {
	_ = h.app.Members.TouchActivity(r.Context(), memberID)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

// members ---------------------------------------------------------------------

func (h *handler) activateMember(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email       string `json:"email"`
		Tier        string `json:"tier"`
		CustomerRef string `json:"customer_ref"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	tier := member.Tier(payload.Tier)
	if payload.Tier == "" {
		tier = member.TierInitiate
	}
	m, err := h.app.Members.Activate(r.Context(), payload.Email, tier, payload.CustomerRef)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *handler) getMember(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	m, err := h.app.Members.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *handler) upgradeMember(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Tier string `json:"tier"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	tier, err := member.ParseTier(payload.Tier)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := h.app.Members.Upgrade(r.Context(), pathID(r), tier)
	if err != nil {
		writeServiceError(w, "members", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *handler) memberBenefits(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, err := h.app.Members.Get(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	benefits, err := h.app.Anointing.ActiveBenefits(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, benefits)
}

func (h *handler) memberAnointings(w http.ResponseWriter, r *http.Request) {
	received, given, err := h.app.Anointing.MemberAnointments(r.Context(), pathID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]anoint.Anointment{
		"received": received,
		"given":    given,
	})
}

// anointing -------------------------------------------------------------------

func (h *handler) anointingEligibility(w http.ResponseWriter, r *http.Request) {
	actorID, err := queryID(r, "actor")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := h.app.Anointing.CheckEligibility(r.Context(), actorID)
	if err != nil {
		// Unknown actors are ineligible, not an error.
		res = eligibility.Deny("User not found")
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) anoint(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		AnointerID  int64  `json:"anointer_id"`
		RecipientID int64  `json:"recipient_id"`
		SigilType   string `json:"sigil_type"`
		Message     string `json:"public_message"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	record, err := h.app.Anointing.Anoint(r.Context(), payload.AnointerID, payload.RecipientID, anoint.SigilType(payload.SigilType), payload.Message)
	if err != nil {
		writeServiceError(w, "anoint", err)
		return
	}
	metrics.RecordMutation("anoint")
	h.touch(r, payload.AnointerID)
	writeJSON(w, http.StatusCreated, record)
}

func (h *handler) getAnointing(w http.ResponseWriter, r *http.Request) {
	record, err := h.app.Anointing.GetAnointment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *handler) recentAnointings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.app.Anointing.RecentAnointings(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) topAnointers(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.app.Anointing.TopAnointers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// staking & governance --------------------------------------------------------

func (h *handler) stake(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MemberID int64 `json:"member_id"`
		Amount   int64 `json:"amount"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	position, err := h.app.Staking.Stake(r.Context(), payload.MemberID, payload.Amount)
	if err != nil {
		writeServiceError(w, "stake", err)
		return
	}
	metrics.RecordMutation("stake")
	h.touch(r, payload.MemberID)
	writeJSON(w, http.StatusCreated, position)
}

func (h *handler) stakingRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.app.Staking.StakingRewards(r.Context(), pathID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rewards)
}

func (h *handler) createProposal(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Type               string `json:"type"`
		Title              string `json:"title"`
		Description        string `json:"description"`
		ProposerID         int64  `json:"proposer_id"`
		StakingRequirement int64  `json:"staking_requirement"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	proposal, err := h.app.Staking.CreateProposal(r.Context(), payload.ProposerID, governance.ProposalType(payload.Type), payload.Title, payload.Description, payload.StakingRequirement)
	if err != nil {
		writeServiceError(w, "governance", err)
		return
	}
	writeJSON(w, http.StatusCreated, proposal)
}

func (h *handler) listProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.app.Staking.ActiveProposals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, proposals)
}

func (h *handler) voteProposal(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MemberID int64  `json:"member_id"`
		Choice   string `json:"choice"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err := h.app.Staking.Vote(r.Context(), mux.Vars(r)["id"], payload.MemberID, governance.Choice(payload.Choice))
	if err != nil {
		writeServiceError(w, "governance", err)
		return
	}
	metrics.RecordMutation("governance_vote")
	h.touch(r, payload.MemberID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) proposalResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.app.Staking.Results(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *handler) executeProposal(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.app.Staking.ExecuteProposal(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "governance", err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// rituals ---------------------------------------------------------------------

func (h *handler) createRitual(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Type             string `json:"type"`
		Title            string `json:"title"`
		Description      string `json:"description"`
		StakingWindowHrs int    `json:"staking_window_hours"`
		MinimumQuorum    int    `json:"minimum_quorum"`
		WhisperTrigger   int    `json:"whisper_trigger"`
		TimeDecay        bool   `json:"time_decay"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	proposal, err := h.app.Rituals.CreateRitual(r.Context(), ritual.ProposalType(payload.Type), payload.Title, payload.Description,
		time.Duration(payload.StakingWindowHrs)*time.Hour, payload.MinimumQuorum, payload.WhisperTrigger, payload.TimeDecay)
	if err != nil {
		writeServiceError(w, "ritual", err)
		return
	}
	writeJSON(w, http.StatusCreated, proposal)
}

func (h *handler) listRituals(w http.ResponseWriter, r *http.Request) {
	rituals, err := h.app.Rituals.ActiveRituals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rituals)
}

func (h *handler) getRitual(w http.ResponseWriter, r *http.Request) {
	proposal, err := h.app.Rituals.GetRitual(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, proposal)
}

func (h *handler) voteRitual(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MemberID int64 `json:"member_id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	outcome, err := h.app.Rituals.Vote(r.Context(), mux.Vars(r)["id"], payload.MemberID)
	if err != nil {
		writeServiceError(w, "ritual_vote", err)
		return
	}
	metrics.RecordMutation("ritual_vote")
	h.touch(r, payload.MemberID)
	writeJSON(w, http.StatusOK, outcome)
}

// tokens ----------------------------------------------------------------------

func (h *handler) listTokens(w http.ResponseWriter, r *http.Request) {
	tier, err := member.ParseTier(r.URL.Query().Get("tier"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	drops, err := h.app.Tokens.AvailableTokens(r.Context(), tier)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, drops)
}

func (h *handler) createDrop(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Tier      string `json:"tier"`
		TokenType string `json:"token_type"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	drop, err := h.app.Tokens.CreateDrop(r.Context(), member.Tier(payload.Tier), token.Type(payload.TokenType))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, drop)
}

func (h *handler) claimToken(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MemberID int64 `json:"member_id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := h.app.Tokens.AttemptClaim(r.Context(), mux.Vars(r)["id"], payload.MemberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if result.Success {
		metrics.RecordMutation("token_claim")
		h.touch(r, payload.MemberID)
	} else {
		metrics.RecordRejection("token_claim")
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) shipToken(w http.ResponseWriter, r *http.Request) {
	drop, err := h.app.Tokens.MarkShipped(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "token_ship", err)
		return
	}
	writeJSON(w, http.StatusOK, drop)
}

func (h *handler) recentClaims(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	claims, err := h.app.Tokens.RecentClaims(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

// prophecies ------------------------------------------------------------------

func (h *handler) createProphecy(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MemberID int64  `json:"member_id"`
		Content  string `json:"content"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	record, err := h.app.Prophecies.CreateProphecy(r.Context(), payload.MemberID, payload.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *handler) listProphecies(w http.ResponseWriter, r *http.Request) {
	memberID, err := queryID(r, "member")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	records, err := h.app.Prophecies.MemberProphecies(r.Context(), memberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) listBurned(w http.ResponseWriter, r *http.Request) {
	memberID, err := queryID(r, "member")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	records, err := h.app.Prophecies.BurnedProphecies(r.Context(), memberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) reforgeEligibility(w http.ResponseWriter, r *http.Request) {
	actorID, err := queryID(r, "actor")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := h.app.Prophecies.CheckEligibility(r.Context(), mux.Vars(r)["id"], actorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) initiateReforge(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MemberID      int64  `json:"member_id"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := h.app.Prophecies.InitiateBurn(r.Context(), mux.Vars(r)["id"], payload.MemberID, prophecy.PaymentMethod(payload.PaymentMethod))
	if err != nil {
		writeServiceError(w, "reforge", err)
		return
	}
	h.touch(r, payload.MemberID)
	writeJSON(w, http.StatusCreated, result)
}

func (h *handler) completeReforge(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Prophecies.CompleteReforge(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "reforge", err)
		return
	}
	metrics.RecordMutation("reforge")
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) failReforge(w http.ResponseWriter, r *http.Request) {
	request, err := h.app.Prophecies.FailReforge(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "reforge", err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *handler) reforgeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.app.Prophecies.ReforgeStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// projections -----------------------------------------------------------------

func (h *handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	category := leaderboard.Category(mux.Vars(r)["category"])
	if !category.Valid() {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown leaderboard category %q", category))
		return
	}
	board, err := h.app.Leaderboards.Board(r.Context(), category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *handler) feed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, h.app.Feed.Recent(limit))
}

// helpers ---------------------------------------------------------------------

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryID(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, fmt.Errorf("%s query parameter is required", key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return id, nil
}

// writeServiceError maps service failures onto status codes: eligibility
// rejections are 400 with the evaluator's reason verbatim, missing records
// are 404, settled-state conflicts are 409.
func writeServiceError(w http.ResponseWriter, mechanic string, err error) {
	if eligibility.IsRejection(err) {
		metrics.RecordRejection(mechanic)
		status := http.StatusBadRequest
		if isConflictReason(err.Error()) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}
	if strings.Contains(err.Error(), "not found") {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusBadRequest, err)
}

func isConflictReason(reason string) bool {
	switch {
	case strings.Contains(reason, "already processed"),
		strings.Contains(reason, "already been burned"),
		strings.Contains(reason, "already settled"),
		strings.Contains(reason, "voting closed"):
		return true
	}
	return false
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
