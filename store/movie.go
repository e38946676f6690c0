package store

import (
	"context"

	"github.com/techbridge/movies/backend/models"
	"github.com/techbridge/movies/backend/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertMovie(ctx context.Context, movie *models.Movie) (primitive.ObjectID, error) {
	res, err := db.Movies().InsertOne(ctx, movie, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// FindMovies returns the movies matching f, in f's sort order.
func (db *DB) FindMovies(ctx context.Context, f query.Filter) ([]models.Movie, error) {
	filter, sort, err := f.Build()
	if err != nil {
		return nil, err
	}
	cur, err := db.Movies().Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	movies := []models.Movie{}
	if err := cur.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// AllMovies returns the full catalog; used to compute filter metadata.
func (db *DB) AllMovies(ctx context.Context) ([]models.Movie, error) {
	cur, err := db.Movies().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	movies := []models.Movie{}
	if err := cur.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (db *DB) MovieByID(ctx context.Context, id primitive.ObjectID) (*models.Movie, error) {
	var movie models.Movie
	err := db.Movies().FindOne(ctx, bson.M{"_id": id}).Decode(&movie)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// UpdateMovie overwrites the movie's editable fields and bumps updatedAt.
func (db *DB) UpdateMovie(ctx context.Context, id primitive.ObjectID, movie *models.Movie) error {
	update := bson.M{
		"movie_name":  movie.MovieName,
		"genre":       movie.Genre,
		"year":        movie.Year,
		"poster_url":  movie.PosterURL,
		"description": movie.Description,
		"language":    movie.Language,
		"production":  movie.Production,
		"tagline":     movie.Tagline,
		"updatedAt":   movie.UpdatedAt,
	}
	_, err := db.Movies().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// DeleteMovie removes a movie by ID, returning the deleted record.
// A second delete of the same ID returns (nil, nil).
func (db *DB) DeleteMovie(ctx context.Context, id primitive.ObjectID) (*models.Movie, error) {
	var movie models.Movie
	err := db.Movies().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&movie)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}
