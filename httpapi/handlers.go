package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ZaguanLabs/teamtl"
	"github.com/ZaguanLabs/teamtl/store"
)

const maxBodySize = 1 << 20

// teamResponse is a team with its players attached when requested.
type teamResponse struct {
	teamtl.Team
	Players []teamtl.Player `json:"players"`
}

// langResult is one entry of the multi-language translation response.
type langResult struct {
	TargetLang string         `json:"targetLanguage"`
	Result     *teamtl.Result `json:"result,omitempty"`
	Error      *ErrorBody     `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": teamtl.Version,
	})
}

// teamID parses the {teamId} path variable.
func teamID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["teamId"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &teamtl.InvalidInputError{Field: "teamId", Message: "must be a positive integer"}
	}
	return id, nil
}

func playerFilter(r *http.Request) (store.PlayerFilter, error) {
	q := r.URL.Query()
	filter := store.PlayerFilter{Position: q.Get("position")}

	if v := q.Get("isCaptain"); v != "" {
		captain, err := strconv.ParseBool(v)
		if err != nil {
			return filter, &teamtl.InvalidInputError{Field: "isCaptain", Message: "must be true or false"}
		}
		filter.IsCaptain = &captain
	}
	return filter, nil
}

// handleGetTeam returns a team; ?players=true attaches its players, filtered
// by position and isCaptain.
func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := teamID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entityID := strconv.FormatInt(id, 10)

	team, err := s.teams.Get(r.Context(), entityID)
	if err != nil {
		s.writeError(w, r, &teamtl.StorageError{Op: "get team", Message: "reading team " + entityID, Cause: err})
		return
	}
	if team == nil {
		s.writeError(w, r, &teamtl.NotFoundError{EntityID: entityID})
		return
	}

	resp := teamResponse{Team: *team}
	if r.URL.Query().Get("players") == "true" {
		filter, err := playerFilter(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Players, err = s.teams.Players(r.Context(), team.ID, filter)
		if err != nil {
			s.writeError(w, r, &teamtl.StorageError{Op: "get players", Message: "reading players of " + entityID, Cause: err})
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handlePutTeam replaces a team. A changed history invalidates its cached
// translations on their next lookup.
func (s *Server) handlePutTeam(w http.ResponseWriter, r *http.Request) {
	id, err := teamID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var team teamtl.Team
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&team); err != nil {
		s.writeError(w, r, &teamtl.InvalidInputError{Field: "body", Message: "must be a JSON team: " + err.Error()})
		return
	}
	if err := validateTeam(&team); err != nil {
		s.writeError(w, r, err)
		return
	}

	team.ID = id
	if err := s.teams.PutTeam(r.Context(), &team); err != nil {
		s.writeError(w, r, &teamtl.StorageError{Op: "put team", Message: "writing team " + team.EntityID(), Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Team updated successfully"})
}

func validateTeam(team *teamtl.Team) error {
	required := []struct {
		field, value string
	}{
		{"teamName", team.TeamName},
		{"country", team.Country},
		{"league", team.League},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &teamtl.InvalidInputError{Field: f.field, Message: "required"}
		}
	}
	if team.Founded < 0 {
		return &teamtl.InvalidInputError{Field: "founded", Message: "must be non-negative"}
	}
	if team.TitlesWon < 0 {
		return &teamtl.InvalidInputError{Field: "titlesWon", Message: "must be non-negative"}
	}
	return nil
}

func (s *Server) handleGetPlayers(w http.ResponseWriter, r *http.Request) {
	id, err := teamID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter, err := playerFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	players, err := s.teams.Players(r.Context(), id, filter)
	if err != nil {
		s.writeError(w, r, &teamtl.StorageError{Op: "get players", Message: "reading players", Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string][]teamtl.Player{"data": players})
}

func (s *Server) handleTranslation(w http.ResponseWriter, r *http.Request) {
	entityID := mux.Vars(r)["teamId"]
	lang := r.URL.Query().Get("language")

	res, err := s.service.LookupOrTranslate(r.Context(), entityID, lang)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res.CacheWriteErr != nil {
		w.Header().Set("X-Cache-Write-Error", "true")
	}

	writeJSON(w, http.StatusOK, res)
}

// handleTranslations resolves a comma-separated ?languages= list. Each entry
// carries its own result or error; the response itself is always 200.
func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	entityID := mux.Vars(r)["teamId"]

	var langs []string
	for _, lang := range strings.Split(r.URL.Query().Get("languages"), ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	if len(langs) == 0 {
		s.writeError(w, r, &teamtl.InvalidInputError{Field: "languages", Message: "required"})
		return
	}

	results := s.service.LookupMany(r.Context(), entityID, langs)

	out := make([]langResult, len(results))
	for i, res := range results {
		out[i] = langResult{TargetLang: res.TargetLang, Result: res.Result}
		if res.Err != nil {
			_, body := ErrorResponse(res.Err)
			out[i].Error = &body
		}
	}

	writeJSON(w, http.StatusOK, map[string][]langResult{"data": out})
}
