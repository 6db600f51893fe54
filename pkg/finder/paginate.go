package finder

import (
	"context"

	"github.com/strrl/moviefinder/pkg/catalog"
)

// Session summarizes one run of the page loop.
type Session struct {
	Pages int
	Total int
}

// Paginate fetches pages at offsets 0, PageSize, 2*PageSize and so on,
// handing every non-empty page to show. It stops at the first empty page,
// after a short page, or when the pager declines. A short page is the last
// one, so asking to continue past it could only show an empty page. fetch
// reports failures as an empty page.
func Paginate[T any](ctx context.Context, fetch func(ctx context.Context, offset int) []T, show func(page []T) error, pager Pager) (Session, error) {
	var s Session
	for offset := 0; ctx.Err() == nil; offset += catalog.PageSize {
		page := fetch(ctx, offset)
		if len(page) == 0 {
			break
		}
		if err := show(page); err != nil {
			return s, err
		}
		s.Pages++
		s.Total += len(page)
		if len(page) < catalog.PageSize || !pager.More() {
			break
		}
	}
	return s, nil
}
