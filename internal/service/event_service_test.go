package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/internal/repository"
	"github.com/kinboard/kinboard/internal/service"
	"github.com/kinboard/kinboard/pkg/entity"
	"github.com/stretchr/testify/assert"
)

var testEvent = entity.Event{
	ID:        1,
	Title:     "dentist appointment",
	StartTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	EndTime:   time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
	Category:  entity.CategoryHealthcare,
	CreatedBy: userID,
	FamilyID:  familyID,
}

type eventsRepoMock struct {
	state mockState
	// which query List dispatched to
	calledWith string
}

func (ermock *eventsRepoMock) ownedEvent() *entity.Event {
	event := testEvent
	if ermock.state == stateWrongFamily {
		event.FamilyID = uuid.New()
	}
	return &event
}

func (ermock *eventsRepoMock) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	if ermock.state == stateDBError {
		return nil, errors.New("db error")
	}
	saved := *event
	saved.ID = testEvent.ID
	return &saved, nil
}

func (ermock *eventsRepoMock) GetByID(ctx context.Context, id int) (*entity.Event, error) {
	switch ermock.state {
	case stateNotFound:
		return nil, errorvalues.ErrEventNotFound
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return ermock.ownedEvent(), nil
	}
}

func (ermock *eventsRepoMock) GetByFamily(ctx context.Context, familyID uuid.UUID) ([]*entity.Event, error) {
	ermock.calledWith = "family"
	if ermock.state == stateDBError {
		return nil, errors.New("db error")
	}
	return []*entity.Event{&testEvent}, nil
}

func (ermock *eventsRepoMock) GetByAttendee(ctx context.Context, uid uuid.UUID) ([]*entity.Event, error) {
	ermock.calledWith = "attendee"
	if ermock.state == stateDBError {
		return nil, errors.New("db error")
	}
	return []*entity.Event{&testEvent}, nil
}

func (ermock *eventsRepoMock) GetByDateRange(ctx context.Context, familyID uuid.UUID, from, to time.Time) ([]*entity.Event, error) {
	ermock.calledWith = "range"
	if ermock.state == stateDBError {
		return nil, errors.New("db error")
	}
	return []*entity.Event{&testEvent}, nil
}

func (ermock *eventsRepoMock) Update(ctx context.Context, id int, patch *repository.EventPatch) (*entity.Event, error) {
	switch ermock.state {
	case stateNotFound:
		return nil, errorvalues.ErrEventNotFound
	case stateDBError:
		return nil, errors.New("db error")
	default:
		event := ermock.ownedEvent()
		if patch.Title != nil {
			event.Title = *patch.Title
		}
		if patch.StartTime != nil {
			event.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			event.EndTime = *patch.EndTime
		}
		return event, nil
	}
}

func (ermock *eventsRepoMock) Delete(ctx context.Context, id int) error {
	switch ermock.state {
	case stateNotFound:
		return errorvalues.ErrEventNotFound
	case stateDBError:
		return errors.New("db error")
	default:
		return nil
	}
}

func TestCreateEventService(t *testing.T) {
	mock := &eventsRepoMock{state: stateSuccess}
	es := service.NewEventService(mock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		event, err := es.Create(ctx, testIdent, &service.CreateEventRequest{
			Title:     testEvent.Title,
			StartTime: testEvent.StartTime,
			EndTime:   testEvent.EndTime,
			Category:  testEvent.Category,
		})
		assert.NoError(t, err)
		assert.Equal(t, familyID, event.FamilyID)
		assert.Equal(t, userID, event.CreatedBy)
	})
	t.Run("window ends before it starts", func(t *testing.T) {
		_, err := es.Create(ctx, testIdent, &service.CreateEventRequest{
			Title:     testEvent.Title,
			StartTime: testEvent.EndTime,
			EndTime:   testEvent.StartTime,
			Category:  testEvent.Category,
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("unknown category", func(t *testing.T) {
		_, err := es.Create(ctx, testIdent, &service.CreateEventRequest{
			Title:     testEvent.Title,
			StartTime: testEvent.StartTime,
			EndTime:   testEvent.EndTime,
			Category:  "birthday",
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("no family", func(t *testing.T) {
		_, err := es.Create(ctx, service.Identity{UserID: userID}, &service.CreateEventRequest{
			Title:     testEvent.Title,
			StartTime: testEvent.StartTime,
			EndTime:   testEvent.EndTime,
			Category:  testEvent.Category,
		})
		assert.ErrorIs(t, err, errorvalues.ErrNoFamily)
	})
}

func TestListEvents(t *testing.T) {
	mock := &eventsRepoMock{state: stateSuccess}
	es := service.NewEventService(mock)
	ctx := context.Background()
	t.Run("whole family by default", func(t *testing.T) {
		events, err := es.List(ctx, testIdent, service.EventFilter{})
		assert.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, "family", mock.calledWith)
	})
	t.Run("window picks the range query", func(t *testing.T) {
		from := testEvent.StartTime.AddDate(0, 0, -1)
		to := testEvent.EndTime.AddDate(0, 0, 1)
		_, err := es.List(ctx, testIdent, service.EventFilter{From: &from, To: &to})
		assert.NoError(t, err)
		assert.Equal(t, "range", mock.calledWith)
	})
	t.Run("attendee picks the containment query", func(t *testing.T) {
		uid := uuid.New()
		_, err := es.List(ctx, testIdent, service.EventFilter{AttendeeID: &uid})
		assert.NoError(t, err)
		assert.Equal(t, "attendee", mock.calledWith)
	})
}

func TestUpdateEventService(t *testing.T) {
	mock := &eventsRepoMock{state: stateSuccess}
	es := service.NewEventService(mock)
	ctx := context.Background()
	t.Run("updated", func(t *testing.T) {
		newTitle := "orthodontist appointment"
		event, err := es.Update(ctx, testIdent, testEvent.ID, &service.UpdateEventRequest{Title: &newTitle})
		assert.NoError(t, err)
		assert.Equal(t, newTitle, event.Title)
	})
	t.Run("patched window must stay valid", func(t *testing.T) {
		badEnd := testEvent.StartTime.Add(-time.Hour)
		_, err := es.Update(ctx, testIdent, testEvent.ID, &service.UpdateEventRequest{EndTime: &badEnd})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("wrong family", func(t *testing.T) {
		mock.state = stateWrongFamily
		newTitle := "sneaky edit"
		_, err := es.Update(ctx, testIdent, testEvent.ID, &service.UpdateEventRequest{Title: &newTitle})
		assert.ErrorIs(t, err, errorvalues.ErrWrongFamily)
	})
	t.Run("not found", func(t *testing.T) {
		mock.state = stateNotFound
		newTitle := "gone"
		_, err := es.Update(ctx, testIdent, testEvent.ID, &service.UpdateEventRequest{Title: &newTitle})
		assert.ErrorIs(t, err, errorvalues.ErrEventNotFound)
	})
}

func TestEventServiceIntegrational(t *testing.T) {
	dbCfg := setupTestDB(t)
	usersRepo := repository.NewUsersRepo(dbCfg)
	us := service.NewUserService(usersRepo)
	fs := service.NewFamilyService(repository.NewFamiliesRepo(dbCfg), usersRepo, repository.NewTasksRepo(dbCfg))
	es := service.NewEventService(repository.NewEventsRepo(dbCfg))
	ctx := context.Background()

	parent, err := us.Register(ctx, &service.RegisterRequest{
		Email:     "organizer@example.com",
		Password:  "test_password",
		FirstName: "Carol",
	})
	if err != nil {
		t.Fatal(err)
	}
	family, err := fs.Create(ctx, service.Identity{UserID: parent.ID}, &service.CreateFamilyRequest{Name: "The Joneses"})
	if err != nil {
		t.Fatal(err)
	}
	ident := service.Identity{UserID: parent.ID, FamilyID: &family.ID, Role: entity.RoleParent}

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	// The first two sit exactly on the window edges, the last two
	// spill over by half an hour on either side
	seed := []struct {
		title      string
		start, end time.Time
	}{
		{"piano recital", from, from.Add(time.Hour)},
		{"school play", to.Add(-time.Hour), to},
		{"late movie", to.Add(-30 * time.Minute), to.Add(30 * time.Minute)},
		{"red eye flight", from.Add(-time.Hour), from.Add(30 * time.Minute)},
	}
	for _, ev := range seed {
		_, err := es.Create(ctx, ident, &service.CreateEventRequest{
			Title:     ev.title,
			StartTime: ev.start,
			EndTime:   ev.end,
			Category:  entity.CategoryFamily,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	t.Run("window keeps only fully contained events", func(t *testing.T) {
		events, err := es.List(ctx, ident, service.EventFilter{From: &from, To: &to})
		assert.NoError(t, err)
		if assert.Len(t, events, 2) {
			assert.Equal(t, "piano recital", events[0].Title)
			assert.Equal(t, "school play", events[1].Title)
		}
	})
	t.Run("no window lists the whole family", func(t *testing.T) {
		events, err := es.List(ctx, ident, service.EventFilter{})
		assert.NoError(t, err)
		assert.Len(t, events, 4)
	})
}

func TestDeleteEventService(t *testing.T) {
	mock := &eventsRepoMock{state: stateSuccess}
	es := service.NewEventService(mock)
	ctx := context.Background()
	t.Run("deleted", func(t *testing.T) {
		err := es.Delete(ctx, testIdent, testEvent.ID)
		assert.NoError(t, err)
	})
	t.Run("wrong family", func(t *testing.T) {
		mock.state = stateWrongFamily
		err := es.Delete(ctx, testIdent, testEvent.ID)
		assert.ErrorIs(t, err, errorvalues.ErrWrongFamily)
	})
	t.Run("not found", func(t *testing.T) {
		mock.state = stateNotFound
		err := es.Delete(ctx, testIdent, testEvent.ID)
		assert.ErrorIs(t, err, errorvalues.ErrEventNotFound)
	})
}
