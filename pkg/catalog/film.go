package catalog

import "strconv"

// NoGenres is shown in place of the genre list for films without genres.
const NoGenres = "-"

// Film is a keyword search result row.
type Film struct {
	FilmID      int64
	Title       string
	ReleaseYear *int
	Rating      string
}

// GenreFilm is a filtered search result row. Genres holds the distinct genre
// names sorted and joined with ", ", or NoGenres.
type GenreFilm struct {
	FilmID      int64
	Title       string
	ReleaseYear *int
	Genres      string
}

// Headers returns the column names of a keyword result table.
func (Film) Headers() []string {
	return []string{"film_id", "title", "release_year", "rating"}
}

// Values returns the row cells. A missing release year is left blank.
func (f Film) Values() []string {
	return []string{strconv.FormatInt(f.FilmID, 10), f.Title, formatYear(f.ReleaseYear), f.Rating}
}

// Headers returns the column names of a filtered result table.
func (GenreFilm) Headers() []string {
	return []string{"film_id", "title", "release_year", "genres"}
}

// Values returns the row cells.
func (f GenreFilm) Values() []string {
	return []string{strconv.FormatInt(f.FilmID, 10), f.Title, formatYear(f.ReleaseYear), f.Genres}
}

func formatYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}
