// Package board implements the discussion forum client: boards,
// paginated articles, comments with nested replies, and like toggles.
package board

import "time"

// Board is one discussion board in the forum.
type Board struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Article is a forum post.
type Article struct {
	ID        int64     `json:"id"`
	BoardID   int64     `json:"boardId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Images    []string  `json:"images"`
	Author    string    `json:"author"`
	Anonymous bool      `json:"anonymous"`
	Likes     int       `json:"likes"`
	Liked     bool      `json:"liked"`
	Comments  int       `json:"commentCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a comment on an article. Replies nest one level deep.
type Comment struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"articleId"`
	ParentID  *int64    `json:"parentId"` // nil for top-level comments
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Anonymous bool      `json:"anonymous"`
	Likes     int       `json:"likes"`
	Liked     bool      `json:"liked"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"createdAt"`
	Replies   []Comment `json:"replies"`
}

// ArticlePage is one slice of a paginated article listing. NextCursor
// is empty on the last page.
type ArticlePage struct {
	Items      []Article `json:"items"`
	NextCursor string    `json:"nextCursor"`
}

// CommentPage is one slice of a paginated comment listing.
type CommentPage struct {
	Items      []Comment `json:"items"`
	NextCursor string    `json:"nextCursor"`
}

// LikeResult is the server's state after a like toggle.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}
