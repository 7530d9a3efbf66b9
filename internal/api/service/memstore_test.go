package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/model"
)

// memStore is an in-memory Store double. Transact serializes whole
// transactions under one mutex, which stands in for the row locks the sqlx
// implementation takes with SELECT ... FOR UPDATE.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users           map[string]model.User
	profiles        map[string]model.Profile // keyed by user id
	jobs            map[string]model.Job
	bids            map[string]model.Bid
	serviceRequests map[string]model.ServiceRequest
	notifications   map[string]model.Notification

	// bidLocks records every bid read taken through GetBidForUpdate, so
	// tests can assert a mutation read its bid under the row lock.
	bidLocks []string

	// createUserHook runs just before the insert, standing in for a rival
	// transaction committing between the uniqueness check and the write.
	createUserHook func()
}

func newMemStore() *memStore {
	return &memStore{
		users:           make(map[string]model.User),
		profiles:        make(map[string]model.Profile),
		jobs:            make(map[string]model.Job),
		bids:            make(map[string]model.Bid),
		serviceRequests: make(map[string]model.ServiceRequest),
		notifications:   make(map[string]model.Notification),
	}
}

func (s *memStore) Transact(_ context.Context, fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

func paginate[T any](items []T, page, pageSize int) []T {
	offset := (page - 1) * pageSize
	if offset >= len(items) {
		return nil
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (s *memStore) GetUser(_ context.Context, userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) CreateUser(_ context.Context, u *model.User) error {
	if s.createUserHook != nil {
		s.createUserHook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Mirrors the unique index on username and its error mapping.
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
	}
	s.users[u.UserID] = *u
	return nil
}

func (s *memStore) GetProfileByUser(_ context.Context, userID string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) CreateProfile(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = *p
	return nil
}

func (s *memStore) UpdateProfile(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.UserID]; !ok {
		return domain.ErrNotFound
	}
	s.profiles[p.UserID] = *p
	return nil
}

func (s *memStore) CreateJob(_ context.Context, j *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.JobID] = *j
	return nil
}

func (s *memStore) GetJob(_ context.Context, jobID string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &j, nil
}

func (s *memStore) GetJobForUpdate(ctx context.Context, jobID string) (*model.Job, error) {
	return s.GetJob(ctx, jobID)
}

func (s *memStore) UpdateJob(_ context.Context, j *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[j.JobID]; !ok {
		return domain.ErrNotFound
	}
	s.jobs[j.JobID] = *j
	return nil
}

func (s *memStore) ListOpenJobs(_ context.Context, page, pageSize int) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var jobs []model.Job
	for _, j := range s.jobs {
		if j.Status == string(domain.JobStatusPosted) {
			jobs = append(jobs, j)
		}
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].DatePosted.After(jobs[k].DatePosted) })
	return paginate(jobs, page, pageSize), nil
}

func (s *memStore) ListJobsByPoster(_ context.Context, userID string) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var jobs []model.Job
	for _, j := range s.jobs {
		if j.PostedBy == userID {
			jobs = append(jobs, j)
		}
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].DatePosted.After(jobs[k].DatePosted) })
	return jobs, nil
}

func (s *memStore) CreateBid(_ context.Context, b *model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids[b.BidID] = *b
	return nil
}

func (s *memStore) GetBid(_ context.Context, bidID string) (*model.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bids[bidID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *memStore) GetBidForUpdate(ctx context.Context, bidID string) (*model.Bid, error) {
	s.mu.Lock()
	s.bidLocks = append(s.bidLocks, bidID)
	s.mu.Unlock()
	return s.GetBid(ctx, bidID)
}

func (s *memStore) UpdateBid(_ context.Context, b *model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bids[b.BidID]; !ok {
		return domain.ErrNotFound
	}
	s.bids[b.BidID] = *b
	return nil
}

func (s *memStore) DeleteBid(_ context.Context, bidID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bids[bidID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.bids, bidID)
	return nil
}

func (s *memStore) HasBid(_ context.Context, jobID, bidder string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bids {
		if b.JobID == jobID && b.Bidder == bidder {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ListBidsForJob(_ context.Context, jobID string) ([]model.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bids []model.Bid
	for _, b := range s.bids {
		if b.JobID == jobID {
			bids = append(bids, b)
		}
	}
	sort.Slice(bids, func(i, k int) bool { return bids[i].DateBid.Before(bids[k].DateBid) })
	return bids, nil
}

func (s *memStore) ListBidsByBidder(_ context.Context, userID string) ([]model.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bids []model.Bid
	for _, b := range s.bids {
		if b.Bidder == userID {
			bids = append(bids, b)
		}
	}
	sort.Slice(bids, func(i, k int) bool { return bids[i].DateBid.Before(bids[k].DateBid) })
	return bids, nil
}

func (s *memStore) CreateServiceRequest(_ context.Context, sr *model.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serviceRequests[sr.RequestID] = *sr
	return nil
}

func (s *memStore) GetServiceRequest(_ context.Context, requestID string) (*model.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sr, ok := s.serviceRequests[requestID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sr, nil
}

func (s *memStore) GetServiceRequestForUpdate(ctx context.Context, requestID string) (*model.ServiceRequest, error) {
	return s.GetServiceRequest(ctx, requestID)
}

func (s *memStore) UpdateServiceRequest(_ context.Context, sr *model.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.serviceRequests[sr.RequestID]; !ok {
		return domain.ErrNotFound
	}
	s.serviceRequests[sr.RequestID] = *sr
	return nil
}

func (s *memStore) ListServiceRequestsForUser(_ context.Context, userID string) ([]model.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ServiceRequest
	for _, sr := range s.serviceRequests {
		if sr.Customer == userID || sr.StoreOwner == userID {
			out = append(out, sr)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (s *memStore) CreateNotification(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.NotificationID] = *n
	return nil
}

func (s *memStore) ListNotifications(_ context.Context, recipient string, unreadOnly bool, page, pageSize int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Notification
	for _, n := range s.notifications {
		if n.Recipient != recipient {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Timestamp.After(out[k].Timestamp) })
	return paginate(out, page, pageSize), nil
}

func (s *memStore) CountUnread(_ context.Context, recipient string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.Recipient == recipient && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *memStore) MarkNotificationRead(_ context.Context, notificationID, recipient string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[notificationID]
	if !ok || n.Recipient != recipient {
		return domain.ErrNotFound
	}
	n.IsRead = true
	s.notifications[notificationID] = n
	return nil
}

// capturePublisher records every event handed to it.
type capturePublisher struct {
	mu     sync.Mutex
	events []NotificationEvent
}

func (p *capturePublisher) PublishNotificationCreated(_ context.Context, ev NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) all() []NotificationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]NotificationEvent(nil), p.events...)
}

// fakeCache is a map-backed UnreadCache that counts lookups.
type fakeCache struct {
	mu           sync.Mutex
	counts       map[string]int
	hits, misses int
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: make(map[string]int)}
}

func (c *fakeCache) GetUnread(_ context.Context, userID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count, ok := c.counts[userID]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return count, ok
}

func (c *fakeCache) SetUnread(_ context.Context, userID string, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID] = count
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, userID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedUser writes a user and profile directly to the store, skipping the
// bcrypt work Register does.
func seedUser(store *memStore, username string) string {
	id := uuid.New().String()
	store.users[id] = model.User{
		UserID:       id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	}
	store.profiles[id] = model.Profile{
		ProfileID:       uuid.New().String(),
		UserID:          id,
		InGameName:      username,
		RecentCompleted: "[]",
	}
	return id
}
