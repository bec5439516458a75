// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides four views:
//  1. [PopularView] : Browse popular movies, loading the next page as the cursor nears the end
//  2. [SearchView] : Search the catalog with a text input
//  3. [FavoritesView] : Sortable list of favorites
//  4. [DetailsView] : Details of the selected movie
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Catalog requests run as commands; favorites are read and changed only through the [Favorites] interface.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, f, s, o, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
