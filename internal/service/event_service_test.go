package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assochub/internal/model"
	"assochub/internal/pkg"
)

// fakeEventRepo mimics the store's per-document guarantees: AddAttendee is
// a single guarded mutation under the lock.
type fakeEventRepo struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[primitive.ObjectID]*model.Event)}
}

func (r *fakeEventRepo) put(e *model.Event) *model.Event {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	r.events[e.ID] = e
	return e
}

func (r *fakeEventRepo) Create(_ context.Context, e *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(e)
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, pkg.Wrap(pkg.ErrNotFound, "event not found")
	}
	cp := *e
	cp.Attendees = append([]string(nil), e.Attendees...)
	return &cp, nil
}

func (r *fakeEventRepo) List(_ context.Context, offset, limit int) ([]*model.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Event
	for _, e := range r.events {
		out = append(out, e)
	}
	return out, int64(len(r.events)), nil
}

func (r *fakeEventRepo) AddAttendee(_ context.Context, id primitive.ObjectID, uid string) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	for _, a := range e.Attendees {
		if a == uid {
			return nil, nil
		}
	}
	if len(e.Attendees) >= e.MaxAttendees {
		return nil, nil
	}
	e.Attendees = append(e.Attendees, uid)
	cp := *e
	cp.Attendees = append([]string(nil), e.Attendees...)
	return &cp, nil
}

func (r *fakeEventRepo) RemoveAttendee(_ context.Context, id primitive.ObjectID, uid string) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, pkg.Wrap(pkg.ErrNotFound, "event not found")
	}
	kept := e.Attendees[:0]
	for _, a := range e.Attendees {
		if a != uid {
			kept = append(kept, a)
		}
	}
	e.Attendees = kept
	cp := *e
	cp.Attendees = append([]string(nil), e.Attendees...)
	return &cp, nil
}

type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[string]*model.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[string]*model.Member)}
}

func (r *fakeMemberRepo) put(m *model.Member) *model.Member {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	r.members[m.UID] = m
	return m
}

func (r *fakeMemberRepo) Create(_ context.Context, m *model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.UID]; ok {
		return pkg.Wrap(pkg.ErrDuplicate, "member already exists")
	}
	r.put(m)
	return nil
}

func (r *fakeMemberRepo) FindByUID(_ context.Context, uid string) (*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[uid]
	if !ok {
		return nil, pkg.Wrap(pkg.ErrNotFound, "member not found")
	}
	return m, nil
}

func (r *fakeMemberRepo) FindByUIDs(_ context.Context, uids []string) ([]*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Member
	for _, uid := range uids {
		if m, ok := r.members[uid]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) List(_ context.Context, search string, offset, limit int) ([]*model.Member, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Member
	for _, m := range r.members {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMemberRepo) UpdateByUID(_ context.Context, uid string, upd model.MemberUpdate) (*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[uid]
	if !ok {
		return nil, pkg.Wrap(pkg.ErrNotFound, "member not found")
	}
	m.Name = upd.Name
	m.Email = upd.Email
	m.Role = upd.Role
	m.Avatar = upd.Avatar
	m.Bio = upd.Bio
	m.Skills = upd.Skills
	m.Projects = upd.Projects
	m.SocialLinks = upd.SocialLinks
	return m, nil
}

// recordingBroadcaster captures everything published.
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []publishedMessage
}

type publishedMessage struct {
	Topic   string
	Kind    string
	Key     string
	Payload any
}

func (b *recordingBroadcaster) Publish(topic, kind, key string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, publishedMessage{topic, kind, key, payload})
}

func (b *recordingBroadcaster) all() []publishedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]publishedMessage(nil), b.messages...)
}

func newEventService(repo *fakeEventRepo) (*EventService, *recordingBroadcaster) {
	b := &recordingBroadcaster{}
	return NewEventService(repo, newFakeMemberRepo(), b, nil), b
}

func TestRSVPFillsEventThenRejectsWithCapacity(t *testing.T) {
	repo := newFakeEventRepo()
	svc, b := newEventService(repo)
	ev := repo.put(&model.Event{Title: "GoLab meetup", MaxAttendees: 2, Attendees: []string{}})
	id := ev.ID.Hex()

	updated, err := svc.RSVP(context.TODO(), id, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, updated.Attendees)

	updated, err = svc.RSVP(context.TODO(), id, "m2")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, updated.Attendees)

	_, err = svc.RSVP(context.TODO(), id, "m3")
	assert.ErrorIs(t, err, pkg.ErrCapacity)

	stored, err := repo.FindByID(context.TODO(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, stored.Attendees)

	msgs := b.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.EventUpdate{EventID: id, Attendees: 1}, msgs[0].Payload)
	assert.Equal(t, model.EventUpdate{EventID: id, Attendees: 2}, msgs[1].Payload)
	assert.Equal(t, model.TopicEvents, msgs[0].Topic)
	assert.Equal(t, model.KindEventUpdate, msgs[0].Kind)
}

func TestRSVPDuplicateRejectedWithoutMutation(t *testing.T) {
	repo := newFakeEventRepo()
	svc, b := newEventService(repo)
	ev := repo.put(&model.Event{Title: "workshop", MaxAttendees: 5, Attendees: []string{"m1"}})

	_, err := svc.RSVP(context.TODO(), ev.ID.Hex(), "m1")
	assert.ErrorIs(t, err, pkg.ErrDuplicate)

	stored, _ := repo.FindByID(context.TODO(), ev.ID)
	assert.Equal(t, []string{"m1"}, stored.Attendees)
	assert.Empty(t, b.all())
}

func TestRSVPUnknownEventIsNotFound(t *testing.T) {
	svc, _ := newEventService(newFakeEventRepo())

	_, err := svc.RSVP(context.TODO(), primitive.NewObjectID().Hex(), "m1")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	_, err = svc.RSVP(context.TODO(), "not-a-hex-id", "m1")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestCancelRSVPIsIdempotent(t *testing.T) {
	repo := newFakeEventRepo()
	svc, b := newEventService(repo)
	ev := repo.put(&model.Event{Title: "meetup", MaxAttendees: 3, Attendees: []string{"m1", "m2"}})

	updated, err := svc.CancelRSVP(context.TODO(), ev.ID.Hex(), "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, updated.Attendees)

	// cancelling an absent reference still succeeds
	updated, err = svc.CancelRSVP(context.TODO(), ev.ID.Hex(), "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, updated.Attendees)

	msgs := b.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.EventUpdate{EventID: ev.ID.Hex(), Attendees: 1}, msgs[1].Payload)
}

func TestConcurrentRSVPNeverExceedsCapacity(t *testing.T) {
	repo := newFakeEventRepo()
	svc, _ := newEventService(repo)
	ev := repo.put(&model.Event{Title: "hack night", MaxAttendees: 5, Attendees: []string{}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			uid := string(rune('a' + n))
			_, _ = svc.RSVP(context.TODO(), ev.ID.Hex(), uid)
		}(i)
	}
	wg.Wait()

	stored, err := repo.FindByID(context.TODO(), ev.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Attendees, 5)

	seen := make(map[string]struct{})
	for _, uid := range stored.Attendees {
		_, dup := seen[uid]
		assert.False(t, dup, "duplicate attendee %q", uid)
		seen[uid] = struct{}{}
	}
}

// contendedEventRepo loses every guarded update to a phantom racer that
// turns out to have been the same member. The final read reveals it.
type contendedEventRepo struct {
	*fakeEventRepo
	misses int
	racer  string
}

func (r *contendedEventRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	e, err := r.fakeEventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.misses >= 3 {
		e.Attendees = append(e.Attendees, r.racer)
	}
	return e, nil
}

func (r *contendedEventRepo) AddAttendee(_ context.Context, _ primitive.ObjectID, _ string) (*model.Event, error) {
	r.misses++
	return nil, nil
}

func TestRSVPLostRaceAgainstSelfIsDuplicateNotCapacity(t *testing.T) {
	inner := newFakeEventRepo()
	ev := inner.put(&model.Event{Title: "meetup", MaxAttendees: 10, Attendees: []string{}})
	repo := &contendedEventRepo{fakeEventRepo: inner, racer: "m1"}

	b := &recordingBroadcaster{}
	svc := NewEventService(repo, newFakeMemberRepo(), b, nil)

	_, err := svc.RSVP(context.TODO(), ev.ID.Hex(), "m1")
	assert.ErrorIs(t, err, pkg.ErrDuplicate)
	assert.Empty(t, b.all())
}

func TestCreateEventValidation(t *testing.T) {
	svc, _ := newEventService(newFakeEventRepo())

	_, err := svc.Create(context.TODO(), &model.Event{MaxAttendees: 10})
	assert.ErrorIs(t, err, pkg.ErrValidation)
}
