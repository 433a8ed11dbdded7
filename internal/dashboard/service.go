package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/schoolwave/schoolwave-go/internal/api"
)

// School is a school lookup result.
type School struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Meal is one meal of a school day.
type Meal struct {
	Date   string   `json:"date"` // YYYY-MM-DD
	Kind   string   `json:"kind"` // breakfast, lunch, dinner
	Dishes []string `json:"dishes"`
}

// Lesson is one slot of a timetable.
type Lesson struct {
	Weekday time.Weekday `json:"weekday"`
	Period  int          `json:"period"`
	Subject string       `json:"subject"`
	Teacher string       `json:"teacher"`
}

// Service exposes the dashboard lookups.
type Service struct {
	client *api.Client
	logger *zap.Logger
}

// NewService creates a dashboard service over the API client. Logger
// may be nil.
func NewService(client *api.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// SearchSchools searches schools by name.
func (s *Service) SearchSchools(ctx context.Context, name string) ([]School, error) {
	q := url.Values{}
	q.Set("name", name)

	var schools []School
	if err := s.client.Get(ctx, "/schools", q, &schools); err != nil {
		return nil, fmt.Errorf("searching schools: %w", err)
	}
	return schools, nil
}

// Meals fetches a school's meal menu for one day.
func (s *Service) Meals(ctx context.Context, schoolID string, date time.Time) ([]Meal, error) {
	q := url.Values{}
	q.Set("date", date.Format("2006-01-02"))

	var meals []Meal
	path := "/schools/" + url.PathEscape(schoolID) + "/meals"
	if err := s.client.Get(ctx, path, q, &meals); err != nil {
		return nil, fmt.Errorf("getting meals: %w", err)
	}
	return meals, nil
}

// Timetable fetches the weekly timetable for a class.
func (s *Service) Timetable(ctx context.Context, schoolID string, grade, class int) ([]Lesson, error) {
	q := url.Values{}
	q.Set("grade", strconv.Itoa(grade))
	q.Set("class", strconv.Itoa(class))

	var lessons []Lesson
	path := "/schools/" + url.PathEscape(schoolID) + "/timetable"
	if err := s.client.Get(ctx, path, q, &lessons); err != nil {
		return nil, fmt.Errorf("getting timetable: %w", err)
	}
	return lessons, nil
}

// Events fetches a school's calendar events for one month.
func (s *Service) Events(ctx context.Context, schoolID string, year int, month time.Month) ([]Event, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(int(month)))

	var events []Event
	path := "/schools/" + url.PathEscape(schoolID) + "/events"
	if err := s.client.Get(ctx, path, q, &events); err != nil {
		return nil, fmt.Errorf("getting events: %w", err)
	}
	return events, nil
}

// Month assembles the calendar widget: the month's events placed on a
// full grid.
func (s *Service) Month(ctx context.Context, schoolID string, year int, month time.Month, loc *time.Location) ([]Week, error) {
	events, err := s.Events(ctx, schoolID, year, month)
	if err != nil {
		return nil, err
	}
	return MonthGrid(year, month, events, loc), nil
}
