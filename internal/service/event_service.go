package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/repository"
)

// ErrNotOrganizer indicates the caller does not own the event.
var ErrNotOrganizer = errors.New("only the organizer can modify an event")

const upcomingEventsKey = "events:upcoming"

// EventService manages the campus events calendar.
type EventService interface {
	Create(ctx context.Context, organizer models.User, payload dto.EventCreateRequest) (dto.EventResponse, error)
	Get(ctx context.Context, id string) (dto.EventResponse, error)
	ListUpcoming(ctx context.Context, limit int) ([]dto.EventResponse, error)
	ListBetween(ctx context.Context, from, until time.Time) ([]dto.EventResponse, error)
	Update(ctx context.Context, userID, userRole, id string, payload dto.EventUpdateRequest) (dto.EventResponse, error)
	Delete(ctx context.Context, userID, userRole, id string) error
}

type eventService struct {
	events    repository.EventRepository
	redis     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventService constructs an event service.
func NewEventService(events repository.EventRepository, redisClient *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		events:    events,
		redis:     redisClient,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "event_service").Logger(),
		now:       time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, organizer models.User, payload dto.EventCreateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event := models.Event{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(payload.Title),
		Description:   strings.TrimSpace(payload.Description),
		Venue:         strings.TrimSpace(payload.Venue),
		Category:      strings.TrimSpace(payload.Category),
		StartsAt:      payload.StartsAt,
		EndsAt:        payload.EndsAt,
		OrganizerID:   organizer.ID,
		OrganizerName: organizer.Name,
	}

	if err := s.events.Create(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info().Str("event_id", event.ID).Time("starts_at", event.StartsAt).Msg("event created")

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Get(ctx context.Context, id string) (dto.EventResponse, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		return dto.EventResponse{}, err
	}
	return dto.NewEventResponse(event), nil
}

// ListUpcoming serves from a short-lived Redis cache; the upcoming feed is
// the hottest read in the calendar and tolerates slight staleness.
func (s *eventService) ListUpcoming(ctx context.Context, limit int) ([]dto.EventResponse, error) {
	if cached := s.fetchCache(ctx, limit); cached != nil {
		return cached, nil
	}

	events, err := s.events.ListUpcoming(ctx, s.now(), limit)
	if err != nil {
		return nil, err
	}

	responses := dto.NewEventResponseSlice(events)
	s.storeCache(ctx, responses)

	return responses, nil
}

func (s *eventService) ListBetween(ctx context.Context, from, until time.Time) ([]dto.EventResponse, error) {
	events, err := s.events.ListBetween(ctx, from, until)
	if err != nil {
		return nil, err
	}
	return dto.NewEventResponseSlice(events), nil
}

func (s *eventService) Update(ctx context.Context, userID, userRole, id string, payload dto.EventUpdateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event, err := s.events.Get(ctx, id)
	if err != nil {
		return dto.EventResponse{}, err
	}
	if event.OrganizerID != userID && userRole != models.RoleAdmin {
		return dto.EventResponse{}, ErrNotOrganizer
	}

	if payload.Title != nil {
		event.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		event.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.Venue != nil {
		event.Venue = strings.TrimSpace(*payload.Venue)
	}
	if payload.Category != nil {
		event.Category = strings.TrimSpace(*payload.Category)
	}
	if payload.StartsAt != nil {
		event.StartsAt = *payload.StartsAt
	}
	if payload.EndsAt != nil {
		event.EndsAt = *payload.EndsAt
	}
	if !event.EndsAt.IsZero() && event.EndsAt.Before(event.StartsAt) {
		return dto.EventResponse{}, errors.New("event cannot end before it starts")
	}

	if err := s.events.Update(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.invalidateCache(ctx)

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Delete(ctx context.Context, userID, userRole, id string) error {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		return err
	}
	if event.OrganizerID != userID && userRole != models.RoleAdmin {
		return ErrNotOrganizer
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *eventService) fetchCache(ctx context.Context, limit int) []dto.EventResponse {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, upcomingEventsKey).Result()
	if err != nil {
		return nil
	}

	var responses []dto.EventResponse
	if err := json.Unmarshal([]byte(raw), &responses); err != nil {
		s.logger.Warn().Err(err).Msg("failed to decode cached events")
		return nil
	}

	if limit > 0 && limit < len(responses) {
		responses = responses[:limit]
	}
	return responses
}

func (s *eventService) storeCache(ctx context.Context, responses []dto.EventResponse) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(responses)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, upcomingEventsKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache upcoming events")
	}
}

func (s *eventService) invalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, upcomingEventsKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate events cache")
	}
}
