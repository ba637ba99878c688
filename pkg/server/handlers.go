package server

import (
	"fmt"
	"net/http"

	"github.com/matzehuels/globecover/pkg/buildinfo"
	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/errors"
	"github.com/matzehuels/globecover/pkg/globe"
	gio "github.com/matzehuels/globecover/pkg/io"
	"github.com/matzehuels/globecover/pkg/pipeline"
)

type coverSummary struct {
	EquatorialCount int `json:"equatorial_count"`
	Rungs           int `json:"rungs"`
	Points          int `json:"points"`
}

type rungsResponse struct {
	EquatorialCount int          `json:"equatorial_count"`
	Rungs           []cover.Rung `json:"rungs"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeBytes(w, "text/plain; charset=utf-8", []byte("ok\n"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeBytes(w, "text/plain; charset=utf-8", []byte(buildinfo.String()+"\n"))
}

func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	n, err := s.equatorialCount(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.runner.Cover(r.Context(), pipeline.Options{EquatorialCount: n, Logger: s.logger})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sphere_cover_%d.csv"`, n))
	writeBytes(w, "text/csv; charset=utf-8", out.CSV)
}

func (s *Server) handleCoverSummary(w http.ResponseWriter, r *http.Request) {
	n, err := s.equatorialCount(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	total, err := cover.Total(n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coverSummary{EquatorialCount: n, Rungs: cover.RungCount(n), Points: total})
}

func (s *Server) handleRungs(w http.ResponseWriter, r *http.Request) {
	n, err := s.equatorialCount(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rungs, err := cover.Plan(n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rungs == nil {
		rungs = []cover.Rung{}
	}
	writeJSON(w, http.StatusOK, rungsResponse{EquatorialCount: n, Rungs: rungs})
}

func (s *Server) handleGlobe(w http.ResponseWriter, r *http.Request) {
	if s.classifier == nil {
		writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no texture configured"))
		return
	}
	n, err := s.equatorialCount(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), s.buildOptions(n))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("X-Globe-Points", fmt.Sprint(res.Stats.GlobePoints))
	writeBytes(w, "application/json", res.Globe.Payload)
}

func (s *Server) handleSpots(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Spots == "" {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "no places file configured"))
		return
	}
	places, err := gio.ImportPlacesCSV(s.cfg.Spots)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := gio.WriteSpots(w, globe.Spots(places)); err != nil {
		s.logger.Error("write spots", "err", err)
	}
}

func (s *Server) buildOptions(n int) pipeline.Options {
	return pipeline.Options{
		EquatorialCount: n,
		Spots:           s.cfg.Spots,
		Classifier:      s.classifier,
		TextureHash:     s.textureHash,
		Logger:          s.logger,
	}
}

// equatorialCount reads ?n=, defaulting to the reference configuration.
func (s *Server) equatorialCount(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return cover.DefaultEquatorialCount, nil
	}
	n, err := errors.ParseEquatorialCount(raw)
	if err != nil {
		return 0, err
	}
	if n > s.cfg.MaxEquatorialCount {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "equatorial count %d exceeds the server limit of %d", n, s.cfg.MaxEquatorialCount)
	}
	return n, nil
}
