package spotify

// AllPages follows a paged collection to its end and returns the items of
// every page concatenated in remote order. first is the already-fetched
// initial page; fetch loads the page at the given offset. Offsets advance by
// pageSize, matching the remote API's page contract (20 for playlist
// collections, 100 for track listings).
//
// A failed fetch fails the whole accumulation, there is no partial result.
func AllPages[T any](first *Page[T], pageSize int, fetch func(offset int) (*Page[T], error)) ([]T, error) {
	items := make([]T, 0, first.Total)
	page := first
	offset := first.Offset

	for page.Next != "" {
		items = append(items, page.Items...)
		offset += pageSize

		next, err := fetch(offset)
		if err != nil {
			return nil, err
		}
		page = next
	}

	return append(items, page.Items...), nil
}
