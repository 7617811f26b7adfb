package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount       int32
	UpdateRatingCallCount int32

	// Error injection
	CreateError       error
	GetError          error
	UpdateRatingError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// The real repository rejects duplicate usernames atomically.
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) UpdateRating(ctx context.Context, id string, rating float64, ratingCount int) error {
	atomic.AddInt32(&m.UpdateRatingCallCount, 1)
	if m.UpdateRatingError != nil {
		return m.UpdateRatingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Rating = rating
	user.RatingCount = ratingCount
	return nil
}

// GetUser returns a user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK OFFER REPOSITORY
// ──────────────────────────────────────────────

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mu     sync.RWMutex
	offers map[int64]*domain.CarpoolOffer
	nextID int64

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	GetError    error
	ListError   error
	UpdateError error
}

// NewMockOfferRepository creates a new mock offer repository.
func NewMockOfferRepository() *MockOfferRepository {
	return &MockOfferRepository{
		offers: make(map[int64]*domain.CarpoolOffer),
	}
}

// AddOffer adds an offer to the mock repository, assigning an ID when
// the offer has none.
func (m *MockOfferRepository) AddOffer(offer *domain.CarpoolOffer) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if offer.ID == 0 {
		m.nextID++
		offer.ID = m.nextID
	} else if offer.ID > m.nextID {
		m.nextID = offer.ID
	}
	m.offers[offer.ID] = offer
	return offer.ID
}

func (m *MockOfferRepository) Create(ctx context.Context, offer *domain.CarpoolOffer) (int64, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	offer.ID = m.nextID
	copy := *offer
	m.offers[offer.ID] = &copy
	return offer.ID, nil
}

func (m *MockOfferRepository) GetByID(ctx context.Context, id int64) (*domain.CarpoolOffer, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	offer, ok := m.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *offer
	copy.Passengers = append([]string(nil), offer.Passengers...)
	return &copy, nil
}

func (m *MockOfferRepository) ListActive(ctx context.Context) ([]*domain.CarpoolOffer, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.CarpoolOffer, 0, len(m.offers))
	// Ascending ID, matching the real repository's creation order.
	for id := int64(1); id <= m.nextID; id++ {
		offer, ok := m.offers[id]
		if !ok || offer.Status != domain.OfferStatusActive {
			continue
		}
		copy := *offer
		copy.Passengers = append([]string(nil), offer.Passengers...)
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockOfferRepository) Update(ctx context.Context, offer *domain.CarpoolOffer) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.offers[offer.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *offer
	copy.Passengers = append([]string(nil), offer.Passengers...)
	m.offers[offer.ID] = &copy
	return nil
}

// GetOffer returns an offer for test assertions.
func (m *MockOfferRepository) GetOffer(id int64) *domain.CarpoolOffer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offers[id]
}

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[int64]*domain.CarpoolRequest
	nextID   int64

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[int64]*domain.CarpoolRequest),
	}
}

// AddRequest adds a request to the mock repository.
func (m *MockRequestRepository) AddRequest(request *domain.CarpoolRequest) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if request.ID == 0 {
		m.nextID++
		request.ID = m.nextID
	}
	m.requests[request.ID] = request
	return request.ID
}

func (m *MockRequestRepository) Create(ctx context.Context, request *domain.CarpoolRequest) (int64, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	request.ID = m.nextID
	copy := *request
	m.requests[request.ID] = &copy
	return request.ID, nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.CarpoolRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	request, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *request
	return &copy, nil
}

func (m *MockRequestRepository) ListOpen(ctx context.Context) ([]*domain.CarpoolRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.CarpoolRequest, 0, len(m.requests))
	for id := int64(1); id <= m.nextID; id++ {
		request, ok := m.requests[id]
		if !ok || request.Status != domain.RequestStatusOpen {
			continue
		}
		copy := *request
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRequestRepository) Update(ctx context.Context, request *domain.CarpoolRequest) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[request.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *request
	m.requests[request.ID] = &copy
	return nil
}

// GetRequest returns a request for test assertions.
func (m *MockRequestRepository) GetRequest(id int64) *domain.CarpoolRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[id]
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[int64]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[int64]time.Time),
	}
}

func (m *MockLockStore) AcquireOfferLock(ctx context.Context, offerID int64, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[offerID]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[offerID] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseOfferLock(ctx context.Context, offerID int64) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, offerID)
	return nil
}

// IsLocked checks if an offer is locked (for test assertions).
func (m *MockLockStore) IsLocked(offerID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks[offerID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu     sync.Mutex
	offers map[int64]*redis.CachedOffer
	users  map[string]*redis.CachedUser

	// Counters for verification
	GetOfferCallCount        int32
	SetOfferCallCount        int32
	InvalidateOfferCallCount int32
	SetUserCallCount         int32
	InvalidateUserCallCount  int32

	// Error injection
	GetError error
	SetError error
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		offers: make(map[int64]*redis.CachedOffer),
		users:  make(map[string]*redis.CachedUser),
	}
}

func (m *MockCacheStore) GetOffer(ctx context.Context, offerID int64) (*redis.CachedOffer, error) {
	atomic.AddInt32(&m.GetOfferCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	offer, ok := m.offers[offerID]
	if !ok {
		return nil, nil // Cache miss.
	}
	copy := *offer
	return &copy, nil
}

func (m *MockCacheStore) SetOffer(ctx context.Context, offer *redis.CachedOffer) error {
	atomic.AddInt32(&m.SetOfferCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *offer
	m.offers[offer.ID] = &copy
	return nil
}

func (m *MockCacheStore) InvalidateOffer(ctx context.Context, offerID int64) error {
	atomic.AddInt32(&m.InvalidateOfferCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.offers, offerID)
	return nil
}

func (m *MockCacheStore) SetUser(ctx context.Context, user *redis.CachedUser) error {
	atomic.AddInt32(&m.SetUserCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockCacheStore) InvalidateUser(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.InvalidateUserCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}

func (m *MockCacheStore) GetUsersBatch(ctx context.Context, userIDs []string) (map[string]*redis.CachedUser, []string, error) {
	if m.GetError != nil {
		return nil, userIDs, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]*redis.CachedUser)
	var missing []string
	for _, id := range userIDs {
		user, ok := m.users[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		copy := *user
		result[id] = &copy
	}
	return result, missing, nil
}

// CachedOfferEntry returns a cached offer for test assertions.
func (m *MockCacheStore) CachedOfferEntry(offerID int64) *redis.CachedOffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offers[offerID]
}

// CachedUserEntry returns a cached user for test assertions.
func (m *MockCacheStore) CachedUserEntry(userID string) *redis.CachedUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID]
}
