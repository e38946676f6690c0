// Package query turns the listing endpoint's search/filter/sort parameters
// into a MongoDB filter document and sort order.
package query

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter is the parsed form of a movie listing request. Zero values mean
// "no constraint"; each set field narrows the result independently.
type Filter struct {
	Q         string   // free-text search over movie_name, description, tagline
	Genres    []string // case-insensitive substring match against any genre entry
	Languages []string // case-insensitive substring match against the language
	Year      string   // "2020" for an exact year, "2020-2023" for an inclusive range
	SortBy    string   // empty means default sort (createdAt descending)
	SortOrder string   // "asc" sorts ascending; anything else descending
}

// sortable lists the fields a client may sort by.
var sortable = map[string]bool{
	"movie_name": true,
	"year":       true,
	"language":   true,
	"createdAt":  true,
	"updatedAt":  true,
}

// ParseFilter extracts a Filter from URL query parameters. Repeated genre
// and language parameters accumulate into sets.
func ParseFilter(values url.Values) Filter {
	return Filter{
		Q:         strings.TrimSpace(values.Get("q")),
		Genres:    compact(values["genre"]),
		Languages: compact(values["language"]),
		Year:      strings.TrimSpace(values.Get("year")),
		SortBy:    strings.TrimSpace(values.Get("sortBy")),
		SortOrder: strings.TrimSpace(values.Get("sortOrder")),
	}
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Build maps f to a MongoDB filter document and sort order. Each active
// filter contributes one independent clause; the clauses are combined with
// logical AND. Malformed year or sort input is reported as an error rather
// than silently matching nothing.
func (f Filter) Build() (bson.M, bson.D, error) {
	var clauses []bson.M

	if f.Q != "" {
		re := substringRegex(f.Q)
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"movie_name": re},
			{"description": re},
			{"tagline": re},
		}})
	}
	if len(f.Genres) > 0 {
		clauses = append(clauses, bson.M{"genre": bson.M{"$in": substringRegexes(f.Genres)}})
	}
	if f.Year != "" {
		clause, err := yearClause(f.Year)
		if err != nil {
			return nil, nil, err
		}
		clauses = append(clauses, clause)
	}
	if len(f.Languages) > 0 {
		clauses = append(clauses, bson.M{"language": bson.M{"$in": substringRegexes(f.Languages)}})
	}

	sort, err := f.sortOrder()
	if err != nil {
		return nil, nil, err
	}

	switch len(clauses) {
	case 0:
		return bson.M{}, sort, nil
	case 1:
		return clauses[0], sort, nil
	default:
		return bson.M{"$and": clauses}, sort, nil
	}
}

func (f Filter) sortOrder() (bson.D, error) {
	if f.SortBy == "" {
		// Default: newest first.
		return bson.D{{Key: "createdAt", Value: -1}}, nil
	}
	if !sortable[f.SortBy] {
		return nil, fmt.Errorf("cannot sort by %q", f.SortBy)
	}
	order := -1
	if f.SortOrder == "asc" {
		order = 1
	}
	return bson.D{{Key: f.SortBy, Value: order}}, nil
}

// yearClause parses "Y" into an equality clause and "Y1-Y2" into an
// inclusive range clause.
func yearClause(year string) (bson.M, error) {
	if start, end, ok := strings.Cut(year, "-"); ok {
		y1, err1 := strconv.Atoi(strings.TrimSpace(start))
		y2, err2 := strconv.Atoi(strings.TrimSpace(end))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid year range %q", year)
		}
		return bson.M{"year": bson.M{"$gte": y1, "$lte": y2}}, nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil, fmt.Errorf("invalid year %q", year)
	}
	return bson.M{"year": y}, nil
}

// substringRegex builds a case-insensitive substring matcher. The input is
// escaped so user text is always matched literally, never as a pattern.
func substringRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func substringRegexes(in []string) []primitive.Regex {
	out := make([]primitive.Regex, 0, len(in))
	for _, s := range in {
		out = append(out, substringRegex(s))
	}
	return out
}
