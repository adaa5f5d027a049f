package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pokehub/internal/catalog"
	"pokehub/internal/engine"
)

type regionCount struct {
	Region catalog.Region `json:"region"`
	Count  int            `json:"count"`
}

type statusBody struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Count   int    `json:"count"`
}

type toggleBody struct {
	ID       int64 `json:"id"`
	Favorite bool  `json:"favorite"`
}

func regionCounts(snap engine.Snapshot) []regionCount {
	counts := snap.CountsByRegion()
	out := make([]regionCount, 0, len(counts))
	for _, r := range catalog.Regions() {
		out = append(out, regionCount{Region: r, Count: counts[r]})
	}
	return out
}

func statusOf(snap engine.Snapshot) statusBody {
	st := statusBody{Loading: snap.Loading, Count: snap.Len()}
	if snap.Err != nil {
		st.Error = snap.Err.Error()
	}
	return st
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusOf(s.svc.Snapshot()))
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	b, err := catalog.MarshalDocumentSchema()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(b)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reload(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statusOf(s.svc.Snapshot()))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	region, err := catalog.ParseRegion(q.Get("region"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	favOnly, _ := strconv.ParseBool(q.Get("favorites"))

	entries := s.svc.Snapshot().Apply(engine.Filter{
		Region:        region,
		Search:        q.Get("q"),
		FavoritesOnly: favOnly,
	})
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, regionCounts(s.svc.Snapshot()))
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot().FavoriteIDs())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	fav, err := s.svc.ToggleFavorite(r.Context(), id)
	if err != nil {
		s.log.Error("toggle favorite", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toggleBody{ID: id, Favorite: fav})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewEntry
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	var verrs catalog.ValidationErrors
	if err := in.Validate(); errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verrs.Error(), Fields: verrs})
		return
	}

	added, err := s.svc.AddEntry(r.Context(), in)
	if err != nil {
		var perr *engine.PersistError
		if errors.As(err, &perr) {
			writeError(w, http.StatusBadGateway, perr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, added)
}
