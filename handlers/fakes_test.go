package handlers

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/techbridge/movies/backend/models"
	"github.com/techbridge/movies/backend/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *fakeUserStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[id], nil
}

func (s *fakeUserStore) CreateUser(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	if s.err != nil {
		return primitive.NilObjectID, s.err
	}
	id := primitive.NewObjectID()
	u := *user
	u.ID = id
	s.users[id] = &u
	return id, nil
}

// fakeMovieStore is an in-memory MovieStore that mirrors the matching
// semantics the real store gets from query.Filter.Build.
type fakeMovieStore struct {
	movies []models.Movie
	err    error
}

func (s *fakeMovieStore) InsertMovie(_ context.Context, movie *models.Movie) (primitive.ObjectID, error) {
	if s.err != nil {
		return primitive.NilObjectID, s.err
	}
	id := primitive.NewObjectID()
	m := *movie
	m.ID = id
	s.movies = append(s.movies, m)
	return id, nil
}

func (s *fakeMovieStore) FindMovies(_ context.Context, f query.Filter) ([]models.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []models.Movie{}
	for _, m := range s.movies {
		if movieMatches(m, f) {
			out = append(out, m)
		}
	}
	sortMovies(out, f)
	return out, nil
}

func (s *fakeMovieStore) AllMovies(_ context.Context) ([]models.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Movie{}, s.movies...), nil
}

func (s *fakeMovieStore) MovieByID(_ context.Context, id primitive.ObjectID) (*models.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.movies {
		if s.movies[i].ID == id {
			m := s.movies[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (s *fakeMovieStore) UpdateMovie(_ context.Context, id primitive.ObjectID, movie *models.Movie) error {
	if s.err != nil {
		return s.err
	}
	for i := range s.movies {
		if s.movies[i].ID == id {
			m := *movie
			m.ID = id
			s.movies[i] = m
			return nil
		}
	}
	return nil
}

func (s *fakeMovieStore) DeleteMovie(_ context.Context, id primitive.ObjectID) (*models.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.movies {
		if s.movies[i].ID == id {
			m := s.movies[i]
			s.movies = append(s.movies[:i], s.movies[i+1:]...)
			return &m, nil
		}
	}
	return nil, nil
}

func movieMatches(m models.Movie, f query.Filter) bool {
	contains := func(hay, needle string) bool {
		return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
	}
	if f.Q != "" && !contains(m.MovieName, f.Q) && !contains(m.Description, f.Q) && !contains(m.Tagline, f.Q) {
		return false
	}
	if len(f.Genres) > 0 {
		found := false
		for _, want := range f.Genres {
			for _, g := range m.Genre {
				if contains(g, want) {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Languages) > 0 {
		found := false
		for _, want := range f.Languages {
			if contains(m.Language, want) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if f.Year != "" {
		if start, end, isRange := strings.Cut(f.Year, "-"); isRange {
			y1, _ := strconv.Atoi(strings.TrimSpace(start))
			y2, _ := strconv.Atoi(strings.TrimSpace(end))
			if m.Year < y1 || m.Year > y2 {
				return false
			}
		} else if y, _ := strconv.Atoi(f.Year); m.Year != y {
			return false
		}
	}
	return true
}

func sortMovies(movies []models.Movie, f query.Filter) {
	field := f.SortBy
	if field == "" {
		field = "createdAt"
	}
	asc := f.SortBy != "" && f.SortOrder == "asc"
	sort.SliceStable(movies, func(i, j int) bool {
		var less bool
		switch field {
		case "year":
			less = movies[i].Year < movies[j].Year
		case "movie_name":
			less = movies[i].MovieName < movies[j].MovieName
		case "language":
			less = movies[i].Language < movies[j].Language
		default:
			less = movies[i].CreatedAt.Before(movies[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})
}
