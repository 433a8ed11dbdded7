package board

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/schoolwave/schoolwave-go/internal/api"
)

// Service exposes the forum endpoints.
type Service struct {
	client *api.Client
	logger *zap.Logger
}

// NewService creates a forum service over the API client. Logger may be
// nil.
func NewService(client *api.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// Boards lists all boards.
func (s *Service) Boards(ctx context.Context) ([]Board, error) {
	var boards []Board
	if err := s.client.Get(ctx, "/boards", nil, &boards); err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	return boards, nil
}

// Articles fetches one page of a board's articles. An empty cursor
// fetches the first page.
func (s *Service) Articles(ctx context.Context, boardID int64, cursor string, size int) (*ArticlePage, error) {
	q := url.Values{}
	q.Set("size", strconv.Itoa(size))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var page ArticlePage
	path := fmt.Sprintf("/boards/%d/articles", boardID)
	if err := s.client.Get(ctx, path, q, &page); err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return &page, nil
}

// Article fetches a single article.
func (s *Service) Article(ctx context.Context, articleID int64) (*Article, error) {
	var a Article
	if err := s.client.Get(ctx, fmt.Sprintf("/articles/%d", articleID), nil, &a); err != nil {
		return nil, fmt.Errorf("getting article: %w", err)
	}
	return &a, nil
}

type createArticleRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Images    []string `json:"images,omitempty"`
	Anonymous bool     `json:"anonymous"`
}

// CreateArticle posts a new article to a board.
func (s *Service) CreateArticle(ctx context.Context, boardID int64, title, content string, images []string, anonymous bool) (*Article, error) {
	req := createArticleRequest{Title: title, Content: content, Images: images, Anonymous: anonymous}
	var a Article
	path := fmt.Sprintf("/boards/%d/articles", boardID)
	if err := s.client.Post(ctx, path, req, &a); err != nil {
		return nil, fmt.Errorf("creating article: %w", err)
	}
	s.logger.Debug("article created", zap.Int64("boardId", boardID), zap.Int64("articleId", a.ID))
	return &a, nil
}

// DeleteArticle removes the caller's article.
func (s *Service) DeleteArticle(ctx context.Context, articleID int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/articles/%d", articleID)); err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	return nil
}

// Comments fetches one page of an article's comments, replies nested.
func (s *Service) Comments(ctx context.Context, articleID int64, cursor string, size int) (*CommentPage, error) {
	q := url.Values{}
	q.Set("size", strconv.Itoa(size))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var page CommentPage
	path := fmt.Sprintf("/articles/%d/comments", articleID)
	if err := s.client.Get(ctx, path, q, &page); err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return &page, nil
}

type createCommentRequest struct {
	Content   string `json:"content"`
	ParentID  *int64 `json:"parentId,omitempty"`
	Anonymous bool   `json:"anonymous"`
}

// CreateComment adds a comment; a non-nil parentID makes it a reply.
func (s *Service) CreateComment(ctx context.Context, articleID int64, parentID *int64, content string, anonymous bool) (*Comment, error) {
	req := createCommentRequest{Content: content, ParentID: parentID, Anonymous: anonymous}
	var c Comment
	path := fmt.Sprintf("/articles/%d/comments", articleID)
	if err := s.client.Post(ctx, path, req, &c); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return &c, nil
}

// DeleteComment removes the caller's comment. The server keeps deleted
// comments with replies as tombstones.
func (s *Service) DeleteComment(ctx context.Context, commentID int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/comments/%d", commentID)); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

// ToggleArticleLike flips the caller's like on an article and returns
// the resulting count.
func (s *Service) ToggleArticleLike(ctx context.Context, articleID int64) (*LikeResult, error) {
	var res LikeResult
	path := fmt.Sprintf("/articles/%d/like", articleID)
	if err := s.client.Post(ctx, path, nil, &res); err != nil {
		return nil, fmt.Errorf("toggling article like: %w", err)
	}
	return &res, nil
}

// ToggleCommentLike flips the caller's like on a comment.
func (s *Service) ToggleCommentLike(ctx context.Context, commentID int64) (*LikeResult, error) {
	var res LikeResult
	path := fmt.Sprintf("/comments/%d/like", commentID)
	if err := s.client.Post(ctx, path, nil, &res); err != nil {
		return nil, fmt.Errorf("toggling comment like: %w", err)
	}
	return &res, nil
}
