// Package models defines the catalog entities shared by the TMDB client, the favorites store and the UI.
//
// The package contains:
//   - [Movie] : a movie as returned by TMDB and as persisted in the favorites list
//   - [Genre] : a genre reference attached to movie details
//   - [PaginatedResult] : one page of results plus totals, used to drive incremental loading
//
// Pure list utilities live alongside the types:
//   - [SortMovies] / [Sorter] : stable sort by title (locale-aware) or rating
//   - [MergePages] : flattens loaded pages into one list without duplicate ids
package models
