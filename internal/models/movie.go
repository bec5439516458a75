package models

import "fmt"

// Genre is a TMDB genre reference.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is a TMDB movie. The JSON layout is also the persisted favorites layout.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Genres           []Genre `json:"genres"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
}

// Year returns the release year or an empty string when the date is missing.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// Rating formats the vote average with one decimal.
func (m Movie) Rating() string {
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

// Poster returns the poster path or an empty string.
func (m Movie) Poster() string {
	if m.PosterPath == nil {
		return ""
	}
	return *m.PosterPath
}

// Backdrop returns the backdrop path or an empty string.
func (m Movie) Backdrop() string {
	if m.BackdropPath == nil {
		return ""
	}
	return *m.BackdropPath
}

// GenreNames returns the genre names in order.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// PaginatedResult is one page of a TMDB list endpoint.
type PaginatedResult[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// HasNextPage reports whether another page exists after p.
func (p PaginatedResult[T]) HasNextPage() bool {
	return p.Page < p.TotalPages
}
