package har

// BuildPages derives the pages array from entries. Entries without a pageref
// are skipped; the first entry seen for a pageref supplies the page title
// (request.url, falling back to the pageref) and start time. Pages are
// returned in first-appearance order.
func BuildPages(entries []Entry) []Page {
	pages := make([]Page, 0)
	seen := make(map[string]struct{})

	for _, entry := range entries {
		ref := entry.PageRef()
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}

		title := ref
		if url, ok := entry.URL(); ok {
			title = url
		}

		pages = append(pages, Page{
			ID:              ref,
			Title:           title,
			StartedDateTime: entry.StartedDateTime(),
			PageTimings:     UnknownTimings,
		})
	}

	return pages
}
