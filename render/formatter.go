// Package render formats pages for the console.
package render

import (
	"fmt"
	"strings"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/query"
)

const (
	branch     = "├"
	lastBranch = "╰"
	line       = "──"
	pipe       = "│"
	star       = "★"
)

// ConsoleFormatter provides console output formatting for movies
type ConsoleFormatter struct {
	st styles
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(color bool) *ConsoleFormatter {
	return &ConsoleFormatter{st: newStyles(color)}
}

// FormatState renders the loading and failure affordances. It returns "" for
// a settled state without error.
func (f *ConsoleFormatter) FormatState(st query.State, what string) string {
	switch {
	case st.Err != nil:
		return f.st.err.Render(fmt.Sprintf("Failed to load %s: %v", what, st.Err))
	case st.IsLoading:
		return f.st.dim.Render("Loading...")
	default:
		return ""
	}
}

// FormatMovieList formats a list of movies for console display. genres may be
// nil, in which case genre names are omitted.
func (f *ConsoleFormatter) FormatMovieList(heading string, list []movies.Movie, genres *movies.GenreList) string {
	if len(list) == 0 {
		return "No movies found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", f.st.header.Render(heading), len(list))

	for i, m := range list {
		isLast := i == len(list)-1
		prefix, indent := branch, pipe+"   "
		if isLast {
			prefix, indent = lastBranch, "    "
		}

		fmt.Fprintf(&sb, "%s%s %s\n", prefix, line, f.title(m))

		details := []string{fmt.Sprintf("ID: %d", m.ID)}
		if m.VoteCount > 0 {
			details = append(details, f.rating(m))
		}
		fmt.Fprintf(&sb, "%s%s\n", indent, f.st.dim.Render(strings.Join(details, " | ")))

		if genres != nil {
			if names := genreNames(m, *genres); len(names) > 0 {
				fmt.Fprintf(&sb, "%sGenres: %s\n", indent, strings.Join(names, ", "))
			}
		}

		if !isLast {
			sb.WriteString(pipe + "\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatMovie formats a movie page with its cast and player link.
func (f *ConsoleFormatter) FormatMovie(m movies.Movie, cast []movies.CastMember) string {
	var sb strings.Builder

	sb.WriteString("\n" + f.title(m) + "\n")
	if m.Tagline != "" {
		sb.WriteString(f.st.dim.Render(m.Tagline) + "\n")
	}
	sb.WriteString("\n")

	var facts []string
	if m.ReleaseDate != "" {
		facts = append(facts, "Released: "+m.ReleaseDate)
	}
	if m.Runtime > 0 {
		facts = append(facts, fmt.Sprintf("Runtime: %dh %dm", m.Runtime/60, m.Runtime%60))
	}
	if m.VoteCount > 0 {
		facts = append(facts, f.rating(m))
	}
	if len(facts) > 0 {
		sb.WriteString(strings.Join(facts, " | ") + "\n")
	}

	if len(m.Genres) > 0 {
		names := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			names = append(names, g.Name)
		}
		sb.WriteString("Genres: " + strings.Join(names, ", ") + "\n")
	}

	if m.Overview != "" {
		sb.WriteString("\n" + m.Overview + "\n")
	}

	if len(cast) > 0 {
		sb.WriteString("\n" + f.st.header.Render("Cast") + "\n")
		for i, c := range cast {
			prefix := branch
			if i == len(cast)-1 {
				prefix = lastBranch
			}
			fmt.Fprintf(&sb, "%s%s %s", prefix, line, c.Name)
			if c.Character != "" {
				fmt.Fprintf(&sb, " as %s", c.Character)
			}
			sb.WriteString("\n")
		}
	}

	if url := m.PosterURL(); url != "" {
		sb.WriteString("\nPoster: " + f.st.link.Render(url) + "\n")
	}
	sb.WriteString("Watch:  " + f.st.link.Render(movies.PlayerURL(m.ID)) + "\n")
	return sb.String()
}

// FormatGenres lists genres with their ids.
func (f *ConsoleFormatter) FormatGenres(genres []movies.Genre) string {
	if len(genres) == 0 {
		return "No genres found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", f.st.header.Render("Genres"), len(genres))
	for _, g := range genres {
		fmt.Fprintf(&sb, "  %6d  %s\n", g.ID, g.Name)
	}
	return sb.String()
}

// FormatWatchlist formats the watchlist rows with the details that have
// loaded. Rows whose movie has not loaded show the id only.
func (f *ConsoleFormatter) FormatWatchlist(entries []movies.WatchlistEntry, details []movies.Movie) string {
	if len(entries) == 0 {
		return "Your watchlist is empty"
	}

	byID := make(map[int64]movies.Movie, len(details))
	for _, m := range details {
		byID[m.ID] = m
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", f.st.header.Render("Watchlist"), len(entries))
	for i, e := range entries {
		isLast := i == len(entries)-1
		prefix, indent := branch, pipe+"   "
		if isLast {
			prefix, indent = lastBranch, "    "
		}

		name := fmt.Sprintf("Movie %d", e.MovieID)
		if m, ok := byID[e.MovieID]; ok {
			name = f.title(m)
		}
		fmt.Fprintf(&sb, "%s%s %s\n", prefix, line, name)
		fmt.Fprintf(&sb, "%s%s\n", indent, f.st.dim.Render(fmt.Sprintf("ID: %d | Added: %s", e.MovieID, e.AddedAt.Format("2006-01-02"))))
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatUser formats the signed-in user.
func (f *ConsoleFormatter) FormatUser(u movies.User) string {
	s := "Signed in as " + f.st.accent.Render(u.Username)
	if !u.CreatedAt.IsZero() {
		s += f.st.dim.Render(" (member since " + u.CreatedAt.Format("2006-01-02") + ")")
	}
	return s
}

// FormatSuccess formats a confirmation message.
func (f *ConsoleFormatter) FormatSuccess(msg string) string {
	return f.st.success.Render(msg)
}

func (f *ConsoleFormatter) title(m movies.Movie) string {
	t := f.st.title.Render(m.Title)
	if year := m.Year(); year > 0 {
		t += fmt.Sprintf(" (%d)", year)
	}
	return t
}

func (f *ConsoleFormatter) rating(m movies.Movie) string {
	return f.st.accent.Render(fmt.Sprintf("%s %.1f", star, m.VoteAverage)) + fmt.Sprintf(" (%d votes)", m.VoteCount)
}

func genreNames(m movies.Movie, genres movies.GenreList) []string {
	var names []string
	for _, id := range m.AllGenreIDs() {
		if name := genres.Name(id); name != "" {
			names = append(names, name)
		}
	}
	return names
}
