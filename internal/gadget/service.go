package gadget

import (
	"context"
	"strconv"
	"time"
)

// Service implements the gadget lifecycle operations on top of a
// Repository, emitting events to an EventSink after each mutation.
type Service struct {
	repo   Repository
	events EventSink
}

// NewService creates a new gadget lifecycle service.
// A nil sink disables event delivery.
func NewService(repo Repository, events EventSink) *Service {
	if events == nil {
		events = NopSink{}
	}
	return &Service{repo: repo, events: events}
}

// List returns gadget views, optionally filtered by status.
//
// An empty filter returns every gadget. A non-empty filter must be one
// of the four enum values; anything else fails with ErrInvalidFilter.
func (s *Service) List(ctx context.Context, statusFilter string) ([]View, error) {
	var gadgets []Gadget
	var err error

	if statusFilter == "" {
		gadgets, err = s.repo.List(ctx)
	} else {
		status, parseErr := ParseStatus(statusFilter)
		if parseErr != nil {
			return nil, ErrInvalidFilter
		}
		gadgets, err = s.repo.ListByStatus(ctx, status)
	}
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(gadgets))
	for i := range gadgets {
		views = append(views, ViewOf(&gadgets[i]))
	}
	return views, nil
}

// Create mints a new gadget with a generated codename, a random
// success probability in [0, 100), and status Available.
//
// Codename collisions are not pre-checked; the database's UNIQUE
// constraint surfaces them as ErrNameExists.
func (s *Service) Create(ctx context.Context) (*Gadget, error) {
	g := &Gadget{
		Name:    GenerateCodename(),
		Success: RandomSuccess(),
		Status:  StatusAvailable,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, Event{
		Type:      EventCreated,
		Gadget:    *g,
		Timestamp: time.Now().UTC(),
	})

	return g, nil
}

// Update applies a partial update to the gadget with the given codename.
//
// Validation order:
//  1. name must be present (ErrMissingName)
//  2. at least one of status/success must be given (ErrNoFieldsProvided)
//  3. status, if given, must be an enum member (ErrInvalidStatus)
//  4. success, if given, must be digits-only (ErrInvalidSuccessValue)
//
// The digits-only check puts no upper bound on success, so update-time
// values above 100 are accepted. Lookup is by codename; a missing
// record fails with ErrNotFound.
func (s *Service) Update(ctx context.Context, name string, status, success *string) (*Gadget, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if status == nil && success == nil {
		return nil, ErrNoFieldsProvided
	}

	var newStatus Status
	if status != nil {
		parsed, err := ParseStatus(*status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		newStatus = parsed
	}

	var newSuccess int
	if success != nil {
		if !IsNumericString(*success) {
			return nil, ErrInvalidSuccessValue
		}
		n, err := strconv.Atoi(*success)
		if err != nil {
			return nil, ErrInvalidSuccessValue
		}
		newSuccess = n
	}

	g, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	from := g.Status
	if status != nil {
		g.Status = newStatus
	}
	if success != nil {
		g.Success = newSuccess
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, Event{
		Type:      EventUpdated,
		Gadget:    *g,
		From:      from,
		Timestamp: time.Now().UTC(),
	})

	return g, nil
}

// Decommission forces a gadget into the Decommissioned status and
// stamps the transition timestamp, regardless of current status.
// Decommissioning twice is idempotent in effect; the timestamp
// advances on each call.
func (s *Service) Decommission(ctx context.Context, name string) (*Gadget, error) {
	if name == "" {
		return nil, ErrMissingName
	}

	g, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	from := g.Status
	now := time.Now().UTC()
	g.Status = StatusDecommissioned
	g.Timestamp = &now

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, Event{
		Type:      EventDecommissioned,
		Gadget:    *g,
		From:      from,
		Timestamp: now,
	})

	return g, nil
}

// SelfDestruct forces a gadget into the Destroyed status and stamps
// the transition timestamp. Lookup is by ID.
//
// The confirmation code is checked for presence only; its value is
// never validated against anything.
func (s *Service) SelfDestruct(ctx context.Context, id, confirmationCode string) (*Gadget, error) {
	if confirmationCode == "" {
		return nil, ErrMissingConfirmationCode
	}

	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := g.Status
	now := time.Now().UTC()
	g.Status = StatusDestroyed
	g.Timestamp = &now

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, Event{
		Type:      EventSelfDestructed,
		Gadget:    *g,
		From:      from,
		Timestamp: now,
	})

	return g, nil
}
