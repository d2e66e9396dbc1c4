package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"fit-service/internal/catalog/model"
	catSvc "fit-service/internal/catalog/service"
	"fit-service/internal/fileio"
	"fit-service/internal/utils"
)

const formMemory = 8 << 20

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(formMemory)
	}
	return r.ParseForm()
}

// ListGarments: GET /api/garments?gender=
func ListGarments(svc *catSvc.Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(logger, r)
		gs, err := svc.List(r.Context(), r.URL.Query().Get("gender"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"garments": gs, "count": len(gs)})
	}
}

// GetGarment: GET /api/garments/{id}
func GetGarment(svc *catSvc.Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(logger, r)
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			badRequest(w, "invalid garment id")
			return
		}
		g, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// AddGarment: POST /api/garments with url, measurements, price and optional gender.
func AddGarment(svc *catSvc.Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(logger, r)
		if err := parseForm(r); err != nil {
			formError(w, err)
			return
		}
		g, err := svc.Add(r.Context(), model.GarmentInput{
			SourceRef:       r.FormValue("url"),
			RawMeasurements: r.FormValue("measurements"),
			PriceText:       r.FormValue("price"),
			Gender:          r.FormValue("gender"),
		})
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

// Upload: POST /api/garments/upload, multipart field excel_file (.xls, .xlsx or .csv).
func Upload(svc *catSvc.Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(logger, r)

		if err := r.ParseMultipartForm(formMemory); err != nil {
			formError(w, err)
			return
		}
		// parts without a filename are plain values, so FormFile misses them too
		file, header, err := r.FormFile("excel_file")
		if err != nil {
			badRequest(w, "no file uploaded")
			return
		}
		defer file.Close()
		if !fileio.Supported(header.Filename) {
			badRequest(w, "file type not allowed, use .xls, .xlsx or .csv")
			return
		}

		m := mappingFromForm(r)
		table, err := fileio.ReadTable(file, header.Filename, m.HeaderRow)
		if err != nil {
			log.Warn().Err(err).Str("file", header.Filename).Msg("read spreadsheet")
			badRequest(w, "failed to read spreadsheet: "+err.Error())
			return
		}

		rep, err := svc.Import(r.Context(), table, m)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)

		log.Info().
			Str("file", header.Filename).
			Int("rows", len(table.Records)).
			Int("imported", rep.Imported).
			Dur("elapsed", time.Since(start)).
			Msg("upload done")
	}
}

// Averages: GET /api/stats/averages
func Averages(svc *catSvc.Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		avgs, err := svc.Averages(r.Context())
		if err != nil {
			writeError(w, requestLogger(logger, r), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"averages": avgs})
	}
}

// Fields: GET /api/search/fields
func Fields(svc *catSvc.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"fields":    SearchFields,
			"tolerance": svc.Tolerance(),
		})
	}
}

type searchResponse struct {
	Input     model.Measurements     `json:"input"`
	Tolerance float64                `json:"tolerance"`
	Gender    string                 `json:"gender,omitempty"`
	Results   []model.MatchCandidate `json:"results"`
}

// Search: POST /api/search with one field per known category, optional
// tolerance and gender.
func Search(svc *catSvc.Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(logger, r)
		if err := parseForm(r); err != nil {
			formError(w, err)
			return
		}

		q := model.SearchQuery{
			Target:    targetFromForm(r),
			Tolerance: svc.Tolerance(),
			Gender:    strings.TrimSpace(r.FormValue("gender")),
		}
		if raw := r.FormValue("tolerance"); strings.TrimSpace(raw) != "" {
			t, ok := utils.ParseFloatBR(raw)
			if !ok {
				badRequest(w, "invalid tolerance")
				return
			}
			q.Tolerance = t
		}

		res, err := svc.Search(r.Context(), q)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, searchResponse{
			Input:     q.Target,
			Tolerance: q.Tolerance,
			Gender:    q.Gender,
			Results:   res,
		})
	}
}
