package server

import (
	"errors"
	"net/http"

	"github.com/playperu/maptrivia/internal/loader"
	"github.com/playperu/maptrivia/internal/trivia"
)

type LocationResponse struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func toLocationResponse(l trivia.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Name: l.Name, Lat: l.Lat, Lng: l.Lng}
}

func handleStatus(datasets *loader.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, datasets.Status())
	}
}

func handleLocations(datasets *loader.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := datasets.Catalog()
		if errors.Is(err, loader.ErrNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, datasets.Status().Message)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		locs := catalog.Locations()
		resp := make([]LocationResponse, len(locs))
		for i, l := range locs {
			resp[i] = toLocationResponse(l)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
