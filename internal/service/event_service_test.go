package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
)

type eventRepoStub struct {
	events        []models.Event
	upcomingCalls int
}

func (r *eventRepoStub) Create(ctx context.Context, event *models.Event) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *eventRepoStub) Get(ctx context.Context, id string) (models.Event, error) {
	for _, event := range r.events {
		if event.ID == id {
			return event, nil
		}
	}
	return models.Event{}, context.Canceled
}

func (r *eventRepoStub) Update(ctx context.Context, event *models.Event) error {
	for i := range r.events {
		if r.events[i].ID == event.ID {
			r.events[i] = *event
		}
	}
	return nil
}

func (r *eventRepoStub) Delete(ctx context.Context, id string) error { return nil }

func (r *eventRepoStub) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Event, error) {
	r.upcomingCalls++
	return r.events, nil
}

func (r *eventRepoStub) ListBetween(ctx context.Context, from, until time.Time) ([]models.Event, error) {
	return r.events, nil
}

func newEventFixture(t *testing.T, repo *eventRepoStub) EventService {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewEventService(repo, client, time.Minute, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestListUpcomingServesFromCache(t *testing.T) {
	repo := &eventRepoStub{events: []models.Event{
		{ID: "ev-1", Title: "Orientation Week", StartsAt: time.Now().Add(24 * time.Hour)},
	}}
	svc := newEventFixture(t, repo)

	first, err := svc.ListUpcoming(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.ListUpcoming(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, 1, repo.upcomingCalls)
}

func TestCreateInvalidatesUpcomingCache(t *testing.T) {
	repo := &eventRepoStub{}
	svc := newEventFixture(t, repo)

	_, err := svc.ListUpcoming(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, repo.upcomingCalls)

	organizer := models.User{ID: "user-1", Name: "Ayesha Khan"}
	_, err = svc.Create(context.Background(), organizer, dto.EventCreateRequest{
		Title:    "ACM Coding Night",
		StartsAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.ListUpcoming(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 2, repo.upcomingCalls)
}

func TestUpdateRequiresOrganizerOrAdmin(t *testing.T) {
	repo := &eventRepoStub{events: []models.Event{
		{ID: "ev-1", Title: "Job Fair", OrganizerID: "user-1", StartsAt: time.Now()},
	}}
	svc := newEventFixture(t, repo)

	title := "Career Fair"
	_, err := svc.Update(context.Background(), "user-2", models.RoleStudent, "ev-1", dto.EventUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrNotOrganizer)

	resp, err := svc.Update(context.Background(), "user-2", models.RoleAdmin, "ev-1", dto.EventUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Career Fair", resp.Title)
}

func TestUpdateRejectsEndBeforeStart(t *testing.T) {
	starts := time.Now().Add(24 * time.Hour)
	repo := &eventRepoStub{events: []models.Event{
		{ID: "ev-1", Title: "Seminar", OrganizerID: "user-1", StartsAt: starts},
	}}
	svc := newEventFixture(t, repo)

	ends := starts.Add(-time.Hour)
	_, err := svc.Update(context.Background(), "user-1", models.RoleStudent, "ev-1", dto.EventUpdateRequest{EndsAt: &ends})
	require.Error(t, err)
}
