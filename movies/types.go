package movies

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// PosterBaseURL serves poster images at the size used by movie cards.
	PosterBaseURL = "https://image.tmdb.org/t/p/w500"
	// ProfileBaseURL serves cast profile images.
	ProfileBaseURL = "https://image.tmdb.org/t/p/w92"
	// PlayerBaseURL is the embeddable player used for movie pages.
	PlayerBaseURL = "https://moviesapi.club/movie"
)

// Movie is a TMDB movie as returned by list and detail endpoints. Detail-only
// fields are empty in list results.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Genres           []Genre `json:"genres,omitempty"`
	Runtime          int     `json:"runtime,omitempty"`
	Tagline          string  `json:"tagline,omitempty"`
}

// Year returns the release year, or 0 when the release date is unknown.
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Released parses the release date.
func (m Movie) Released() (time.Time, bool) {
	t, err := time.Parse("2006-01-02", m.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PosterURL returns the full poster URL, or "" when the movie has no poster.
func (m Movie) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return PosterBaseURL + m.PosterPath
}

// AllGenreIDs returns the genre ids from either list or detail payloads.
func (m Movie) AllGenreIDs() []int {
	if len(m.GenreIDs) > 0 {
		return m.GenreIDs
	}
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// PlayerURL returns the embeddable player URL for a movie id.
func PlayerURL(id int64) string {
	return fmt.Sprintf("%s/%d", PlayerBaseURL, id)
}

// MovieList is one page of movie results.
type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is a TMDB movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the payload of genre/movie/list.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// Name returns the name of the genre with the given id.
func (l GenreList) Name(id int) string {
	for _, g := range l.Genres {
		if g.ID == id {
			return g.Name
		}
	}
	return ""
}

// Credits is the payload of movie/<id>/credits.
type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
}

// TopCast returns the first n billed cast members.
func (c Credits) TopCast(n int) []CastMember {
	if n >= len(c.Cast) {
		return c.Cast
	}
	return c.Cast[:n]
}

// CastMember is one credited actor.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// ProfileURL returns the full profile image URL, or "".
func (c CastMember) ProfileURL() string {
	if c.ProfilePath == "" {
		return ""
	}
	return ProfileBaseURL + c.ProfilePath
}

// User is the signed-in account as exposed by /api/user.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// WatchlistEntry is one movie on a user's watchlist.
type WatchlistEntry struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"userId"`
	MovieID int64     `json:"movieId"`
	AddedAt time.Time `json:"addedAt"`
}
