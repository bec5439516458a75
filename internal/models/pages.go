package models

// MergePages flattens pages in order, keeping the first occurrence of each movie id.
//
// TMDB popularity lists shift between requests, so a movie can appear on two consecutive pages.
func MergePages(pages ...PaginatedResult[Movie]) []Movie {
	total := 0
	for _, p := range pages {
		total += len(p.Results)
	}

	seen := make(map[int]struct{}, total)
	merged := make([]Movie, 0, total)
	for _, p := range pages {
		merged = AppendUnique(merged, seen, p.Results...)
	}
	return merged
}

// AppendUnique appends each movie whose id is not yet in seen, recording the ids it adds.
func AppendUnique(dst []Movie, seen map[int]struct{}, movies ...Movie) []Movie {
	for _, m := range movies {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		dst = append(dst, m)
	}
	return dst
}
