package service

import (
	"context"
	"errors"
	"log"

	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/internal/repository"
	"github.com/kinboard/kinboard/pkg/entity"
)

type EventService struct {
	repo repository.EventsRepositoryI
}

func NewEventService(eventsRepo repository.EventsRepositoryI) *EventService {
	if eventsRepo == nil {
		log.Fatal("provided nil eventsRepo")
	}
	return &EventService{
		repo: eventsRepo,
	}
}

func (es *EventService) Create(ctx context.Context, ident Identity, req *CreateEventRequest) (*entity.Event, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if ident.FamilyID == nil {
		return nil, errorvalues.ErrNoFamily
	}
	event, err := es.repo.Create(ctx, &entity.Event{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
		Attendees:   req.Attendees,
		CreatedBy:   ident.UserID,
		FamilyID:    *ident.FamilyID,
		Color:       req.Color,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrFamilyNotFound) {
			return nil, err
		}
		return nil, errors.New("events repository error: " + err.Error())
	}
	return event, nil
}

func (es *EventService) getOwned(ctx context.Context, ident Identity, id int) (*entity.Event, error) {
	if ident.FamilyID == nil {
		return nil, errorvalues.ErrNoFamily
	}
	event, err := es.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventNotFound) {
			return nil, err
		}
		return nil, errors.New("events repository error: " + err.Error())
	}
	if event.FamilyID != *ident.FamilyID {
		return nil, errorvalues.ErrWrongFamily
	}
	return event, nil
}

func (es *EventService) Get(ctx context.Context, ident Identity, id int) (*entity.Event, error) {
	return es.getOwned(ctx, ident, id)
}

func (es *EventService) List(ctx context.Context, ident Identity, filter EventFilter) ([]*entity.Event, error) {
	if ident.FamilyID == nil {
		return nil, errorvalues.ErrNoFamily
	}
	var (
		events []*entity.Event
		err    error
	)
	switch {
	case filter.From != nil && filter.To != nil:
		events, err = es.repo.GetByDateRange(ctx, *ident.FamilyID, *filter.From, *filter.To)
	case filter.AttendeeID != nil:
		events, err = es.repo.GetByAttendee(ctx, *filter.AttendeeID)
	default:
		events, err = es.repo.GetByFamily(ctx, *ident.FamilyID)
	}
	if err != nil {
		return nil, errors.New("events repository error: " + err.Error())
	}
	return events, nil
}

func (es *EventService) Update(ctx context.Context, ident Identity, id int, req *UpdateEventRequest) (*entity.Event, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	current, err := es.getOwned(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	// A patched window must still end after it starts
	start, end := current.StartTime, current.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if !end.After(start) {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("event must end after it starts"))
	}
	event, err := es.repo.Update(ctx, id, &repository.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
		Attendees:   req.Attendees,
		Color:       req.Color,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventNotFound) {
			return nil, err
		}
		return nil, errors.New("events repository error: " + err.Error())
	}
	return event, nil
}

func (es *EventService) Delete(ctx context.Context, ident Identity, id int) error {
	if _, err := es.getOwned(ctx, ident, id); err != nil {
		return err
	}
	err := es.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventNotFound) {
			return err
		}
		return errors.New("events repository error: " + err.Error())
	}
	return nil
}
