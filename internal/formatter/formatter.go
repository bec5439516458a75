// package formatter renders movie lists as JSON, CSV, Markdown, plain text and terminal tables
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/tmdb"
	"github.com/dustin/go-humanize"
)

// Format is an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists the supported export formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}
}

// ParseFormat accepts a format name or a common alias ("md", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// Export is a titled movie list with the image base used for poster links.
type Export struct {
	Title     string
	Movies    []models.Movie
	ImageBase string
}

// Votes formats a vote count with thousands separators.
func Votes(count int) string {
	return humanize.Comma(int64(count))
}

// ExportToJSON renders the movie list with the persisted favorites layout.
func ExportToJSON(export *Export) ([]byte, error) {
	movies := export.Movies
	if movies == nil {
		movies = []models.Movie{}
	}
	return shared.MarshalJSON(movies, true)
}

// ExportToCSV converts a movie list to CSV with columns: ID, Title, Year, Rating, Votes, Genres, Original Title, Language, Poster
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Rating", "Votes", "Genres", "Original Title", "Language", "Poster"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			strconv.Itoa(movie.ID),
			movie.Title,
			movie.Year(),
			movie.Rating(),
			strconv.Itoa(movie.VoteCount),
			strings.Join(movie.GenreNames(), "|"),
			movie.OriginalTitle,
			movie.OriginalLanguage,
			tmdb.ImageURL(export.ImageBase, movie.Poster()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a movie list to Markdown with poster links
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Title))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(export.Movies)))

	for i, movie := range export.Movies {
		buf.WriteString(fmt.Sprintf("## %d. %s", i+1, movie.Title))
		if year := movie.Year(); year != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", year))
		}
		buf.WriteString("\n\n")

		if poster := tmdb.ImageURL(export.ImageBase, movie.Poster()); poster != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", movie.Title, poster))
		}

		buf.WriteString(fmt.Sprintf("**Rating**: %s (%s votes)\n", movie.Rating(), Votes(movie.VoteCount)))
		if genres := movie.GenreNames(); len(genres) > 0 {
			buf.WriteString(fmt.Sprintf("**Genres**: %s\n", strings.Join(genres, ", ")))
		}
		if movie.OriginalTitle != "" && movie.OriginalTitle != movie.Title {
			buf.WriteString(fmt.Sprintf("**Original title**: %s\n", movie.OriginalTitle))
		}
		if movie.Overview != "" {
			buf.WriteString(fmt.Sprintf("\n%s\n", movie.Overview))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a movie list to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", export.Title))
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(export.Movies)))

	for i, movie := range export.Movies {
		line := fmt.Sprintf("%d. %s", i+1, movie.Title)
		if year := movie.Year(); year != "" {
			line += fmt.Sprintf(" (%s)", year)
		}
		buf.WriteString(fmt.Sprintf("%s - %s\n", line, movie.Rating()))
	}

	return buf.Bytes(), nil
}

// Render produces export in the given format.
func Render(export *Export, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders export and writes it to path, creating parent directories.
//
// An empty path defaults to favorites{ext} in the working directory.
func WriteExport(export *Export, format Format, path string) (string, error) {
	if path == "" {
		path = "favorites" + format.Extension()
	}

	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// WriteTable writes an aligned table of movies. marker, when non-nil, returns a short
// prefix for each row such as a favorite star.
func WriteTable(w io.Writer, movies []models.Movie, marker func(models.Movie) string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tTITLE\tYEAR\tRATING\tVOTES")

	for _, movie := range movies {
		mark := ""
		if marker != nil {
			mark = marker(movie)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			mark, movie.ID, movie.Title, movie.Year(), movie.Rating(), Votes(movie.VoteCount))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}
