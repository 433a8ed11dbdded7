// Package asked implements the anonymous question/answer feature
// client.
package asked

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/schoolwave/schoolwave-go/internal/api"
)

// Status is a question's lifecycle position.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAnswered Status = "answered"
	StatusDeclined Status = "declined"
)

// Question is one asked question. The asker is anonymous unless they
// chose otherwise.
type Question struct {
	ID         int64     `json:"id"`
	ToUserID   string    `json:"toUserId"`
	Content    string    `json:"content"`
	Answer     *string   `json:"answer"`
	Status     Status    `json:"status"`
	Anonymous  bool      `json:"anonymous"`
	AskerName  string    `json:"askerName,omitempty"` // empty when anonymous
	CreatedAt  time.Time `json:"createdAt"`
	AnsweredAt *int64    `json:"answeredAt,omitempty"` // unix seconds
}

// QuestionPage is one slice of a paginated question listing.
type QuestionPage struct {
	Items      []Question `json:"items"`
	NextCursor string     `json:"nextCursor"`
}

// Service exposes the asked endpoints.
type Service struct {
	client *api.Client
	logger *zap.Logger
}

// NewService creates an asked service over the API client. Logger may
// be nil.
func NewService(client *api.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// Questions fetches one page of the questions addressed to a user.
func (s *Service) Questions(ctx context.Context, userID string, cursor string, size int) (*QuestionPage, error) {
	q := url.Values{}
	q.Set("size", strconv.Itoa(size))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var page QuestionPage
	path := "/asked/" + url.PathEscape(userID)
	if err := s.client.Get(ctx, path, q, &page); err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	return &page, nil
}

type askRequest struct {
	Content   string `json:"content"`
	Anonymous bool   `json:"anonymous"`
}

// Ask submits a question to another user.
func (s *Service) Ask(ctx context.Context, toUserID, content string, anonymous bool) (*Question, error) {
	if content == "" {
		return nil, fmt.Errorf("question content is empty")
	}

	var created Question
	path := "/asked/" + url.PathEscape(toUserID)
	if err := s.client.Post(ctx, path, askRequest{Content: content, Anonymous: anonymous}, &created); err != nil {
		return nil, fmt.Errorf("asking question: %w", err)
	}
	s.logger.Debug("question asked", zap.Int64("questionId", created.ID))
	return &created, nil
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// Answer publishes the recipient's answer to a question.
func (s *Service) Answer(ctx context.Context, questionID int64, answer string) (*Question, error) {
	if answer == "" {
		return nil, fmt.Errorf("answer content is empty")
	}

	var updated Question
	path := fmt.Sprintf("/asked/questions/%d/answer", questionID)
	if err := s.client.Post(ctx, path, answerRequest{Answer: answer}, &updated); err != nil {
		return nil, fmt.Errorf("answering question: %w", err)
	}
	return &updated, nil
}

// Decline marks a question as declined without publishing an answer.
func (s *Service) Decline(ctx context.Context, questionID int64) error {
	path := fmt.Sprintf("/asked/questions/%d/decline", questionID)
	if err := s.client.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("declining question: %w", err)
	}
	return nil
}

// Delete removes a question the caller received.
func (s *Service) Delete(ctx context.Context, questionID int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/asked/questions/%d", questionID)); err != nil {
		return fmt.Errorf("deleting question: %w", err)
	}
	return nil
}
