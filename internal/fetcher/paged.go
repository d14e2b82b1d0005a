package fetcher

import (
	"context"
	"sync"

	"github.com/alvarorichard/gokino/internal/models"
	"github.com/alvarorichard/gokino/internal/query"
)

// PageQuery is the input of a paginated channel
type PageQuery[K any] struct {
	Key  K
	Page query.PageSpec
}

// PageFetchFunc loads one page for key
type PageFetchFunc[K, T any] func(ctx context.Context, key K, page query.PageSpec) (*models.Page[T], error)

// Paged is a channel over a paginated endpoint. It owns its PageSpec; the page count is
// whatever the server reported last.
type Paged[K, T any] struct {
	*Channel[PageQuery[K], *models.Page[T]]

	mu     sync.Mutex
	key    K
	hasKey bool
	page   query.PageSpec
}

// NewPaged returns an idle paginated channel starting at query.DefaultPage
func NewPaged[K, T any](fetch PageFetchFunc[K, T], opts Options[PageQuery[K]]) *Paged[K, T] {
	ch := NewChannel(func(ctx context.Context, in PageQuery[K]) (*models.Page[T], error) {
		return fetch(ctx, in.Key, in.Page)
	}, opts)
	return &Paged[K, T]{Channel: ch, page: query.DefaultPage()}
}

// Load fetches page for key. The page is normalized before use.
func (p *Paged[K, T]) Load(ctx context.Context, key K, page query.PageSpec) bool {
	page = page.Normalize()

	p.mu.Lock()
	p.key, p.hasKey, p.page = key, true, page
	p.mu.Unlock()

	return p.Trigger(ctx, PageQuery[K]{Key: key, Page: page})
}

// Open switches to key starting over at the first page, keeping the page size
func (p *Paged[K, T]) Open(ctx context.Context, key K) bool {
	p.mu.Lock()
	page := query.PageSpec{No: 1, Size: p.page.Size}
	p.mu.Unlock()

	return p.Load(ctx, key, page)
}

// SetPage moves the current key to page. It is a no-op before the first Load.
func (p *Paged[K, T]) SetPage(ctx context.Context, page query.PageSpec) bool {
	p.mu.Lock()
	key, ok := p.key, p.hasKey
	p.mu.Unlock()
	if !ok {
		return false
	}
	return p.Load(ctx, key, page)
}

// SetPageNo changes only the page number
func (p *Paged[K, T]) SetPageNo(ctx context.Context, no int) bool {
	page := p.Page()
	page.No = no
	return p.SetPage(ctx, page)
}

// SetPageSize changes the page size and goes back to the first page
func (p *Paged[K, T]) SetPageSize(ctx context.Context, size int) bool {
	return p.SetPage(ctx, query.PageSpec{No: 1, Size: size})
}

// Page returns the current PageSpec
func (p *Paged[K, T]) Page() query.PageSpec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// PagesCount is the server reported page count, query.DefaultPagesCount until a page arrived
func (p *Paged[K, T]) PagesCount() int {
	snap := p.Snapshot()
	if snap.HasData && snap.Data != nil {
		return snap.Data.Pages
	}
	return query.DefaultPagesCount
}

// Items returns the docs of the current page
func (p *Paged[K, T]) Items() []T {
	snap := p.Snapshot()
	if !snap.HasData || snap.Data == nil {
		return nil
	}
	return snap.Data.Docs
}

// Reset returns to Idle and the default page
func (p *Paged[K, T]) Reset() {
	p.mu.Lock()
	var zero K
	p.key, p.hasKey, p.page = zero, false, query.DefaultPage()
	p.mu.Unlock()

	p.Channel.Reset()
}
