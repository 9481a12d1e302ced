package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/config"
	"eventhub/internal/logger"
	"eventhub/internal/models"
	"eventhub/internal/pagination"

	"github.com/google/uuid"
)

// ErrNotOwner is returned when an update or delete hits zero rows: either
// the event does not exist or the caller is not its organizer.
var ErrNotOwner = errors.New("unauthorized or event not found")

type DBLayer interface {
	CreateEvent(event models.Event) error
	GetEventByID(id string) (*models.Event, error)
	UpdateEvent(event models.Event) (int64, error)
	DeleteEvent(id, organizerID string) (int64, error)
	ListEvents(search, categoryID string, limit, offset int) ([]models.Event, int, error)
	ListEventsByOrganizer(organizerID string, limit, offset int) ([]models.Event, int, error)
	ListRelatedEvents(categoryID, excludeEventID string, limit, offset int) ([]models.Event, int, error)
}

type CategoryLookup interface {
	GetCategoryByName(name string) (*models.Category, error)
}

type EventCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, keys ...string) error
}

type Publisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB         DBLayer
	Categories CategoryLookup
	Cache      EventCache
	Producer   Publisher
	Topics     config.TopicConfig
	Logger     *logger.Logger
}

func NewService(db DBLayer, categories CategoryLookup, cache EventCache, producer Publisher, topics config.TopicConfig, log *logger.Logger) *Service {
	return &Service{
		DB:         db,
		Categories: categories,
		Cache:      cache,
		Producer:   producer,
		Topics:     topics,
		Logger:     log,
	}
}

func cacheKey(eventID string) string {
	return "event:" + eventID
}

func (s *Service) CreateEvent(organizerID string, req models.CreateEventRequest) (*models.Event, error) {
	if organizerID == "" {
		return nil, errors.New("organizer is required")
	}
	if req.Title == "" || req.CategoryID == "" {
		return nil, errors.New("title and category_id are required")
	}
	if req.EndAt.Before(req.StartAt) {
		return nil, errors.New("end date must not be before start date")
	}

	event := models.Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		PriceCents:  req.PriceCents,
		IsFree:      req.IsFree,
		URL:         req.URL,
		CategoryID:  req.CategoryID,
		OrganizerID: organizerID,
		CreatedAt:   time.Now(),
	}

	if err := s.DB.CreateEvent(event); err != nil {
		s.Logger.Error("EVENT", fmt.Sprintf("Failed to create event %q: %v", req.Title, err))
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.publish(s.Topics.EventCreated, event)
	s.Logger.Info("EVENT", fmt.Sprintf("Created event %s (%q)", event.ID, event.Title))
	return &event, nil
}

// GetEvent serves from the cache when it can; a miss falls through to the
// database and repopulates the key.
func (s *Service) GetEvent(id string) (*models.Event, error) {
	ctx := context.Background()

	var cached models.Event
	hit, err := s.Cache.GetJSON(ctx, cacheKey(id), &cached)
	if err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("Cache read failed for event %s: %v", id, err))
	}
	if hit {
		return &cached, nil
	}

	event, err := s.DB.GetEventByID(id)
	if err != nil {
		return nil, fmt.Errorf("event %s not found: %w", id, err)
	}

	if err := s.Cache.SetJSON(ctx, cacheKey(id), event); err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("Cache write failed for event %s: %v", id, err))
	}

	return event, nil
}

// GetAllEvents resolves the optional category name, then pages through
// the filtered listing. An unknown category matches nothing.
func (s *Service) GetAllEvents(query models.EventQuery) (*models.EventPage, error) {
	p := pagination.Params{Page: query.Page, Limit: query.Limit}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = pagination.DefaultLimit
	}

	categoryID := ""
	if query.Category != "" {
		category, err := s.Categories.GetCategoryByName(query.Category)
		if errors.Is(err, sql.ErrNoRows) {
			// Unknown category matches nothing.
			return &models.EventPage{Data: []models.Event{}, TotalPages: 0}, nil
		}
		if err != nil {
			s.Logger.Error("EVENT", fmt.Sprintf("Failed to look up category %q: %v", query.Category, err))
			return nil, fmt.Errorf("failed to look up category %q: %w", query.Category, err)
		}
		categoryID = category.ID
	}

	events, count, err := s.DB.ListEvents(query.Search, categoryID, p.Limit, p.Offset())
	if err != nil {
		s.Logger.Error("EVENT", fmt.Sprintf("Failed to list events: %v", err))
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return &models.EventPage{
		Data:       events,
		TotalPages: pagination.TotalPages(count, p.Limit),
	}, nil
}

func (s *Service) UpdateEvent(organizerID, eventID string, req models.UpdateEventRequest) (*models.Event, error) {
	if req.EndAt.Before(req.StartAt) {
		return nil, errors.New("end date must not be before start date")
	}

	event := models.Event{
		ID:          eventID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		PriceCents:  req.PriceCents,
		IsFree:      req.IsFree,
		URL:         req.URL,
		CategoryID:  req.CategoryID,
		OrganizerID: organizerID,
	}

	rows, err := s.DB.UpdateEvent(event)
	if err != nil {
		s.Logger.Error("EVENT", fmt.Sprintf("Failed to update event %s: %v", eventID, err))
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotOwner
	}

	if err := s.Cache.Invalidate(context.Background(), cacheKey(eventID)); err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("Cache invalidation failed for event %s: %v", eventID, err))
	}

	updated, err := s.DB.GetEventByID(eventID)
	if err != nil {
		return nil, fmt.Errorf("event %s not found after update: %w", eventID, err)
	}

	s.publish(s.Topics.EventUpdated, *updated)
	s.Logger.Info("EVENT", fmt.Sprintf("Updated event %s", eventID))
	return updated, nil
}

func (s *Service) DeleteEvent(organizerID, eventID string) error {
	rows, err := s.DB.DeleteEvent(eventID, organizerID)
	if err != nil {
		s.Logger.Error("EVENT", fmt.Sprintf("Failed to delete event %s: %v", eventID, err))
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if rows == 0 {
		return ErrNotOwner
	}

	if err := s.Cache.Invalidate(context.Background(), cacheKey(eventID)); err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("Cache invalidation failed for event %s: %v", eventID, err))
	}

	s.publish(s.Topics.EventDeleted, models.Event{ID: eventID, OrganizerID: organizerID})
	s.Logger.Info("EVENT", fmt.Sprintf("Deleted event %s", eventID))
	return nil
}

func (s *Service) GetEventsByOrganizer(organizerID string, p pagination.Params) (*models.EventPage, error) {
	events, count, err := s.DB.ListEventsByOrganizer(organizerID, p.Limit, p.Offset())
	if err != nil {
		s.Logger.Error("EVENT", fmt.Sprintf("Failed to list events for organizer %s: %v", organizerID, err))
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}
	return &models.EventPage{
		Data:       events,
		TotalPages: pagination.TotalPages(count, p.Limit),
	}, nil
}

// GetRelatedEvents lists other events sharing the category of the given
// event.
func (s *Service) GetRelatedEvents(eventID string, p pagination.Params) (*models.EventPage, error) {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}

	events, count, err := s.DB.ListRelatedEvents(event.CategoryID, eventID, p.Limit, p.Offset())
	if err != nil {
		s.Logger.Error("EVENT", fmt.Sprintf("Failed to list related events for %s: %v", eventID, err))
		return nil, fmt.Errorf("failed to list related events: %w", err)
	}
	return &models.EventPage{
		Data:       events,
		TotalPages: pagination.TotalPages(count, p.Limit),
	}, nil
}

// publish is fire-and-forget: a broker hiccup must not fail the request.
func (s *Service) publish(topic string, event models.Event) {
	if s.Producer == nil {
		return
	}
	value, err := json.Marshal(event)
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to marshal event %s: %v", event.ID, err))
		return
	}
	if err := s.Producer.Publish(topic, event.ID, value); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish to %s: %v", topic, err))
	}
}
