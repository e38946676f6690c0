package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductionNotAvailable is stored when a movie has no production company.
const ProductionNotAvailable = "N/A"

type Movie struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MovieName   string             `bson:"movie_name" json:"movie_name"`
	Genre       []string           `bson:"genre" json:"genre"` // ordered; first entry is the primary genre
	Year        int                `bson:"year" json:"year"`
	PosterURL   string             `bson:"poster_url" json:"poster_url"`
	Description string             `bson:"description" json:"description"`
	Language    string             `bson:"language" json:"language"`
	Production  string             `bson:"production" json:"production"`
	Tagline     string             `bson:"tagline" json:"tagline"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ApplyDefaults trims the name and fills optional fields with their defaults.
func (m *Movie) ApplyDefaults() {
	m.MovieName = strings.TrimSpace(m.MovieName)
	if m.Production == "" {
		m.Production = ProductionNotAvailable
	}
}

// Validate checks the required fields. It returns a field->message map,
// or nil when the movie is valid.
func (m *Movie) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(m.MovieName) == "" {
		errs["movie_name"] = "movie name is required"
	}
	if strings.TrimSpace(m.Description) == "" {
		errs["description"] = "description is required"
	}
	if m.Year == 0 {
		errs["year"] = "year is required"
	}
	if len(m.Genre) == 0 {
		errs["genre"] = "at least one genre is required"
	}
	if strings.TrimSpace(m.Language) == "" {
		errs["language"] = "language is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
