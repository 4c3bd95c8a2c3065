package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"farm-shop/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockHeld = errors.New("lock already held")

// SessionStore keeps the per-session cart blob and the selected delivery
// zone. Nothing is persisted implicitly; callers save what they change.
type SessionStore interface {
	LoadCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
	ShippingZone(ctx context.Context, sessionID string) (string, error)
	SetShippingZone(ctx context.Context, sessionID, zone string) error
	ClearShippingZone(ctx context.Context, sessionID string) error
}

// Locker guards a key for a bounded time. TryLock returns ErrLockHeld when
// another holder has it, otherwise a token identifying this holder. Unlock
// only releases the key while the token still owns it, so a holder whose
// lock expired cannot release its successor's.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) LoadCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	cart := models.NewCart()
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return cart, nil
}

func (s *RedisSessionStore) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	if cart.IsEmpty() {
		return s.DeleteCart(ctx, sessionID)
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) DeleteCart(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) ShippingZone(ctx context.Context, sessionID string) (string, error) {
	zone, err := s.client.Get(ctx, zoneKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get shipping zone: %w", err)
	}
	return zone, nil
}

func (s *RedisSessionStore) SetShippingZone(ctx context.Context, sessionID, zone string) error {
	if err := s.client.Set(ctx, zoneKey(sessionID), zone, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set shipping zone: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) ClearShippingZone(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, zoneKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete shipping zone: %w", err)
	}
	return nil
}

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(key), token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return "", ErrLockHeld
	}
	return token, nil
}

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	if err := unlockScript.Run(ctx, l.client, []string{lockKey(key)}, token).Err(); err != nil {
		return fmt.Errorf("redis unlock: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("session:%s:cart", sessionID)
}

func zoneKey(sessionID string) string {
	return fmt.Sprintf("session:%s:shipping_zone", sessionID)
}

func lockKey(key string) string {
	return fmt.Sprintf("lock:%s", key)
}

// MemorySessionStore is used when redis is unavailable and in tests. Carts
// are stored serialized so callers never share a mutable cart.
type MemorySessionStore struct {
	mu    sync.Mutex
	carts map[string][]byte
	zones map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		carts: make(map[string][]byte),
		zones: make(map[string]string),
	}
}

func (s *MemorySessionStore) LoadCart(_ context.Context, sessionID string) (*models.Cart, error) {
	s.mu.Lock()
	data, ok := s.carts[sessionID]
	s.mu.Unlock()

	cart := models.NewCart()
	if !ok {
		return cart, nil
	}
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return cart, nil
}

func (s *MemorySessionStore) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	if cart.IsEmpty() {
		return s.DeleteCart(ctx, sessionID)
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	s.mu.Lock()
	s.carts[sessionID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) DeleteCart(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) ShippingZone(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zones[sessionID], nil
}

func (s *MemorySessionStore) SetShippingZone(_ context.Context, sessionID, zone string) error {
	s.mu.Lock()
	s.zones[sessionID] = zone
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) ClearShippingZone(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.zones, sessionID)
	s.mu.Unlock()
	return nil
}

type memoryLock struct {
	token   string
	expires time.Time
}

type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryLock
	clock func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]memoryLock), clock: time.Now}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if lock, ok := l.held[key]; ok && now.Before(lock.expires) {
		return "", ErrLockHeld
	}
	token := uuid.NewString()
	l.held[key] = memoryLock{token: token, expires: now.Add(ttl)}
	return token, nil
}

func (l *MemoryLocker) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	if lock, ok := l.held[key]; ok && lock.token == token {
		delete(l.held, key)
	}
	l.mu.Unlock()
	return nil
}
