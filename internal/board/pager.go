package board

import (
	"context"
	"fmt"
	"sync"
)

// DefaultPageSize matches the infinite-scroll page size of the web
// client.
const DefaultPageSize = 20

// ArticlePager accumulates pages of a board's articles the way an
// infinite-scroll view does: LoadMore appends the next page, Reload
// refetches the first page optimistically while keeping the already
// loaded tail until the fresh head arrives.
type ArticlePager struct {
	svc     *Service
	boardID int64
	size    int

	mu       sync.Mutex
	articles []Article
	cursor   string
	loaded   bool
	done     bool
}

// NewArticlePager creates a pager for one board. size <= 0 uses
// DefaultPageSize.
func NewArticlePager(svc *Service, boardID int64, size int) *ArticlePager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &ArticlePager{svc: svc, boardID: boardID, size: size}
}

// LoadMore fetches the next page and returns the newly appended
// articles. It returns an empty slice once the listing is exhausted.
func (p *ArticlePager) LoadMore(ctx context.Context) ([]Article, error) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return nil, nil
	}
	cursor := p.cursor
	loaded := p.loaded
	p.mu.Unlock()

	page, err := p.svc.Articles(ctx, p.boardID, cursor, p.size)
	if err != nil {
		return nil, fmt.Errorf("loading next article page: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A Reload may have raced us; only append if our view is current.
	if p.loaded != loaded || p.cursor != cursor {
		return nil, nil
	}
	p.articles = append(p.articles, page.Items...)
	p.cursor = page.NextCursor
	p.loaded = true
	p.done = page.NextCursor == ""
	return page.Items, nil
}

// Reload refetches the first page and resets pagination. The previously
// loaded articles stay visible until the fresh page arrives.
func (p *ArticlePager) Reload(ctx context.Context) error {
	page, err := p.svc.Articles(ctx, p.boardID, "", p.size)
	if err != nil {
		return fmt.Errorf("reloading articles: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.articles = append([]Article(nil), page.Items...)
	p.cursor = page.NextCursor
	p.loaded = true
	p.done = page.NextCursor == ""
	return nil
}

// Articles returns a copy of everything loaded so far.
func (p *ArticlePager) Articles() []Article {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Article(nil), p.articles...)
}

// Exhausted reports whether the last page has been reached.
func (p *ArticlePager) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// CommentPager accumulates an article's comment pages.
type CommentPager struct {
	svc       *Service
	articleID int64
	size      int

	mu       sync.Mutex
	comments []Comment
	cursor   string
	done     bool
}

// NewCommentPager creates a pager for one article's comments.
func NewCommentPager(svc *Service, articleID int64, size int) *CommentPager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &CommentPager{svc: svc, articleID: articleID, size: size}
}

// LoadMore fetches the next comment page.
func (p *CommentPager) LoadMore(ctx context.Context) ([]Comment, error) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return nil, nil
	}
	cursor := p.cursor
	p.mu.Unlock()

	page, err := p.svc.Comments(ctx, p.articleID, cursor, p.size)
	if err != nil {
		return nil, fmt.Errorf("loading next comment page: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor != cursor {
		return nil, nil
	}
	p.comments = append(p.comments, page.Items...)
	p.cursor = page.NextCursor
	p.done = page.NextCursor == ""
	return page.Items, nil
}

// Reload refetches from the first page, used after posting a comment so
// the new comment shows up with its server-assigned fields.
func (p *CommentPager) Reload(ctx context.Context) error {
	page, err := p.svc.Comments(ctx, p.articleID, "", p.size)
	if err != nil {
		return fmt.Errorf("reloading comments: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.comments = append([]Comment(nil), page.Items...)
	p.cursor = page.NextCursor
	p.done = page.NextCursor == ""
	return nil
}

// Comments returns a copy of everything loaded so far.
func (p *CommentPager) Comments() []Comment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Comment(nil), p.comments...)
}
