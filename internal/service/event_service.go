package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assochub/internal/model"
	"assochub/internal/pkg"
)

type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error)
	List(ctx context.Context, offset, limit int) ([]*model.Event, int64, error)
	// AddAttendee returns nil when the guarded update matched nothing.
	AddAttendee(ctx context.Context, id primitive.ObjectID, uid string) (*model.Event, error)
	RemoveAttendee(ctx context.Context, id primitive.ObjectID, uid string) (*model.Event, error)
}

// Mailer sends transactional mail. Nil disables it.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type EventService struct {
	repo        EventRepository
	members     MemberRepository
	broadcaster Broadcaster
	mailer      Mailer
}

func NewEventService(repo EventRepository, members MemberRepository, b Broadcaster, mailer Mailer) *EventService {
	return &EventService{repo: repo, members: members, broadcaster: b, mailer: mailer}
}

func (s *EventService) List(ctx context.Context, page, limit int) ([]*model.Event, int64, error) {
	return s.repo.List(ctx, (page-1)*limit, limit)
}

func (s *EventService) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	if e.Title == "" {
		return nil, pkg.Wrap(pkg.ErrValidation, "title is required")
	}
	if e.Date.IsZero() {
		return nil, pkg.Wrap(pkg.ErrValidation, "date is required")
	}
	if e.MaxAttendees <= 0 {
		return nil, pkg.Wrap(pkg.ErrValidation, "maxAttendees must be positive")
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// RSVP moves the (event, member) pair to ATTENDING. The capacity and
// duplicate checks are re-run against a guarded store update, so a lost
// race re-reads instead of overfilling the event.
func (s *EventService) RSVP(ctx context.Context, eventID, uid string) (*model.Event, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, pkg.Wrap(pkg.ErrNotFound, "event not found")
	}

	for attempt := 0; attempt < 3; attempt++ {
		ev, err := s.repo.FindByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if containsUID(ev.Attendees, uid) {
			return nil, pkg.Wrap(pkg.ErrDuplicate, "already attending this event")
		}
		if len(ev.Attendees) >= ev.MaxAttendees {
			return nil, pkg.Wrap(pkg.ErrCapacity, "event is full")
		}

		updated, err := s.repo.AddAttendee(ctx, oid, uid)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			continue
		}

		s.broadcaster.Publish(model.TopicEvents, model.KindEventUpdate, updated.ID.Hex(), model.EventUpdate{
			EventID:   updated.ID.Hex(),
			Attendees: len(updated.Attendees),
		})
		s.sendConfirmation(uid, updated)
		return updated, nil
	}

	// retries exhausted; one last read tells why the guard kept missing
	ev, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if containsUID(ev.Attendees, uid) {
		return nil, pkg.Wrap(pkg.ErrDuplicate, "already attending this event")
	}
	return nil, pkg.Wrap(pkg.ErrCapacity, "event is full")
}

// CancelRSVP is idempotent: cancelling an absent reference still succeeds.
func (s *EventService) CancelRSVP(ctx context.Context, eventID, uid string) (*model.Event, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, pkg.Wrap(pkg.ErrNotFound, "event not found")
	}

	updated, err := s.repo.RemoveAttendee(ctx, oid, uid)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Publish(model.TopicEvents, model.KindEventUpdate, updated.ID.Hex(), model.EventUpdate{
		EventID:   updated.ID.Hex(),
		Attendees: len(updated.Attendees),
	})
	return updated, nil
}

func (s *EventService) sendConfirmation(uid string, ev *model.Event) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		member, err := s.members.FindByUID(ctx, uid)
		if err != nil || member.Email == "" {
			return
		}
		html := pkg.RSVPConfirmationHTML(member.Name, ev.Title, ev.Date, ev.Location)
		if err := s.mailer.Send(member.Email, "RSVP confirmed: "+ev.Title, html); err != nil {
			log.Error().Err(err).Str("event", ev.ID.Hex()).Str("uid", uid).Msg("rsvp confirmation mail failed")
		}
	}()
}

func containsUID(uids []string, uid string) bool {
	for _, u := range uids {
		if u == uid {
			return true
		}
	}
	return false
}
