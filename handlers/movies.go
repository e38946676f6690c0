package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/techbridge/movies/backend/models"
	"github.com/techbridge/movies/backend/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MovieStore is the slice of the catalog store the movie endpoints need.
type MovieStore interface {
	InsertMovie(ctx context.Context, movie *models.Movie) (primitive.ObjectID, error)
	FindMovies(ctx context.Context, f query.Filter) ([]models.Movie, error)
	AllMovies(ctx context.Context) ([]models.Movie, error)
	MovieByID(ctx context.Context, id primitive.ObjectID) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id primitive.ObjectID, movie *models.Movie) error
	DeleteMovie(ctx context.Context, id primitive.ObjectID) (*models.Movie, error)
}

type MoviesHandler struct {
	DB MovieStore
}

// List returns the movies matching the request's search/filter/sort
// parameters. With no parameters it returns the whole catalog, newest first.
func (h *MoviesHandler) List(w http.ResponseWriter, r *http.Request) {
	f := query.ParseFilter(r.URL.Query())
	if _, _, err := f.Build(); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
		return
	}
	movies, err := h.DB.FindMovies(r.Context(), f)
	if err != nil {
		log.Println("list movies:", err)
		http.Error(w, `{"message":"Server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movies)
}

type filtersResponse struct {
	Genres    []string  `json:"genres"`
	Languages []string  `json:"languages"`
	YearRange yearRange `json:"yearRange"`
}

type yearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Filters reports the filter options present in the catalog: distinct
// genres and languages (sorted) and the min/max year.
func (h *MoviesHandler) Filters(w http.ResponseWriter, r *http.Request) {
	movies, err := h.DB.AllMovies(r.Context())
	if err != nil {
		log.Println("movie filters:", err)
		http.Error(w, `{"message":"Server error"}`, http.StatusInternalServerError)
		return
	}

	genreSet := make(map[string]bool)
	langSet := make(map[string]bool)
	var years yearRange
	for i, m := range movies {
		for _, g := range m.Genre {
			genreSet[g] = true
		}
		langSet[m.Language] = true
		if i == 0 {
			years = yearRange{Min: m.Year, Max: m.Year}
			continue
		}
		if m.Year < years.Min {
			years.Min = m.Year
		}
		if m.Year > years.Max {
			years.Max = m.Year
		}
	}

	resp := filtersResponse{
		Genres:    sortedKeys(genreSet),
		Languages: sortedKeys(langSet),
		YearRange: years,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (h *MoviesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"message":"Movie not found"}`, http.StatusNotFound)
		return
	}
	movie, err := h.DB.MovieByID(r.Context(), id)
	if err != nil {
		log.Println("get movie:", err)
		http.Error(w, `{"message":"Server error"}`, http.StatusInternalServerError)
		return
	}
	if movie == nil {
		http.Error(w, `{"message":"Movie not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movie)
}

// Create adds a movie to the catalog. Admin only.
func (h *MoviesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var movie models.Movie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		http.Error(w, `{"message":"Invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	movie.ID = primitive.NilObjectID
	movie.ApplyDefaults()
	if errs := movie.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}
	now := time.Now()
	movie.CreatedAt = now
	movie.UpdatedAt = now
	id, err := h.DB.InsertMovie(r.Context(), &movie)
	if err != nil {
		log.Println("create movie:", err)
		http.Error(w, `{"message":"Server error"}`, http.StatusInternalServerError)
		return
	}
	movie.ID = id
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(movie)
}

type moviePatch struct {
	MovieName   *string   `json:"movie_name"`
	Genre       *[]string `json:"genre"`
	Year        *int      `json:"year"`
	PosterURL   *string   `json:"poster_url"`
	Description *string   `json:"description"`
	Language    *string   `json:"language"`
	Production  *string   `json:"production"`
	Tagline     *string   `json:"tagline"`
}

// Update applies a partial update: supplied fields overwrite, omitted
// fields keep their stored values. Admin only.
func (h *MoviesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"message":"Movie not found"}`, http.StatusNotFound)
		return
	}
	movie, err := h.DB.MovieByID(r.Context(), id)
	if err != nil {
		log.Println("update movie:", err)
		http.Error(w, `{"message":"Server error"}`, http.StatusInternalServerError)
		return
	}
	if movie == nil {
		http.Error(w, `{"message":"Movie not found"}`, http.StatusNotFound)
		return
	}
	var patch moviePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, `{"message":"Invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	patch.apply(movie)
	if errs := movie.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}
	movie.UpdatedAt = time.Now()
	if err := h.DB.UpdateMovie(r.Context(), id, movie); err != nil {
		log.Println("update movie:", err)
		http.Error(w, `{"message":"Server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movie)
}

func (p *moviePatch) apply(m *models.Movie) {
	if p.MovieName != nil {
		m.MovieName = *p.MovieName
	}
	if p.Genre != nil {
		m.Genre = *p.Genre
	}
	if p.Year != nil {
		m.Year = *p.Year
	}
	if p.PosterURL != nil {
		m.PosterURL = *p.PosterURL
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Language != nil {
		m.Language = *p.Language
	}
	if p.Production != nil {
		m.Production = *p.Production
	}
	if p.Tagline != nil {
		m.Tagline = *p.Tagline
	}
	m.ApplyDefaults()
}

// Delete removes a movie. A repeated delete of the same ID reports not
// found. Admin only.
func (h *MoviesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"message":"Movie not found"}`, http.StatusNotFound)
		return
	}
	deleted, err := h.DB.DeleteMovie(r.Context(), id)
	if err != nil {
		log.Println("delete movie:", err)
		http.Error(w, `{"message":"Server error"}`, http.StatusInternalServerError)
		return
	}
	if deleted == nil {
		http.Error(w, `{"message":"Movie not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Movie deleted successfully"})
}

func writeValidationErrors(w http.ResponseWriter, errs map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Validation failed",
		"errors":  errs,
	})
}
