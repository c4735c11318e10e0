package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/s0up4200/cinestream/movies"
)

// movieEnv builds the evaluation environment for one movie.
func movieEnv(m movies.Movie) map[string]any {
	genreIDs := m.AllGenreIDs()
	released, _ := m.Released()

	env := map[string]any{
		"Title":       m.Title,
		"Year":        m.Year(),
		"Rating":      m.VoteAverage,
		"Votes":       m.VoteCount,
		"Popularity":  m.Popularity,
		"Language":    m.OriginalLanguage,
		"Adult":       m.Adult,
		"GenreIDs":    genreIDs,
		"ReleaseDate": released,
		"Overview":    m.Overview,

		"hasGenre": func(id int) bool {
			return slices.Contains(genreIDs, id)
		},
	}
	addHelpers(env)
	return env
}

func addHelpers(env map[string]any) {
	env["daysSince"] = func(t time.Time) int {
		if t.IsZero() {
			return -1
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}
