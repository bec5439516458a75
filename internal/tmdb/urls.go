package tmdb

import (
	"strconv"
	"strings"
)

const (
	DefaultImageURL       = "https://image.tmdb.org/t/p/w500"
	DefaultImageBannerURL = "https://image.tmdb.org/t/p/original"
)

// ImageURL joins an image base such as [DefaultImageURL] with a poster or backdrop path.
// It returns an empty string when path is empty.
func ImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// MovieURL returns the TMDB website page of a movie.
func MovieURL(id int) string {
	return WebURL + "/movie/" + strconv.Itoa(id)
}
