package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"chatlink-auth/config"
	"chatlink-auth/entity"
	"chatlink-auth/pkg/clock"
	"chatlink-auth/pkg/hash"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/repository"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testOTPConfig() config.OTP {
	return config.OTP{
		Length:         6,
		ExpirationTime: 5 * time.Minute,
		MaxAttempts:    5,
		FreeResends:    5,
		ResendCooldown: 60 * time.Second,
	}
}

type otpKey struct {
	namespace  entity.OTPNamespace
	identifier string
}

// fakeOTPRepo is an in-memory OTPRepository
type fakeOTPRepo struct {
	mu      sync.Mutex
	records map[otpKey]entity.OTPRecord
	findErr error
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{records: make(map[otpKey]entity.OTPRecord)}
}

func (r *fakeOTPRepo) Find(_ context.Context, ns entity.OTPNamespace, identifier string) (*entity.OTPRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	rec, ok := r.records[otpKey{ns, identifier}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *fakeOTPRepo) Replace(_ context.Context, record *entity.OTPRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[otpKey{record.Namespace, record.Identifier}] = *record
	return nil
}

func (r *fakeOTPRepo) Update(_ context.Context, record *entity.OTPRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := otpKey{record.Namespace, record.Identifier}
	if _, ok := r.records[key]; !ok {
		return repository.ErrNotFound
	}
	r.records[key] = *record
	return nil
}

func (r *fakeOTPRepo) IncrementAttempts(_ context.Context, ns entity.OTPNamespace, identifier, code string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := otpKey{ns, identifier}
	rec, ok := r.records[key]
	if !ok || rec.Code != code {
		return 0, repository.ErrNotFound
	}
	rec.Attempts++
	r.records[key] = rec
	return rec.Attempts, nil
}

func (r *fakeOTPRepo) Delete(_ context.Context, ns entity.OTPNamespace, identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, otpKey{ns, identifier})
	return nil
}

func (r *fakeOTPRepo) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, rec := range r.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(r.records, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeOTPRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *fakeOTPRepo) get(ns entity.OTPNamespace, identifier string) (entity.OTPRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[otpKey{ns, identifier}]
	return rec, ok
}

// fakeUserRepo is an in-memory UserRepository with the same uniqueness rules as the users table
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int]*entity.User
	nextID int
	// beforeCreate runs inside Create to simulate a concurrent writer.
	beforeCreate func()
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*entity.User), nextID: 1}
}

func (r *fakeUserRepo) add(u entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	u.IsActive = true
	r.users[u.ID] = &u
	cp := u
	return &cp
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) (*entity.User, error) {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || sameString(u.Email, user.Email) || sameString(u.Phone, user.Phone) {
			return nil, repository.ErrUniqueViolation
		}
	}
	cp := *user
	cp.ID = r.nextID
	cp.IsActive = true
	r.nextID++
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func sameString(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

// find skips deactivated accounts, like the users queries
func (r *fakeUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.IsActive && match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email != nil && *u.Email == email })
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Phone != nil && *u.Phone == phone })
}

func (r *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return u.Username == identifier ||
			(u.Email != nil && *u.Email == identifier) ||
			(u.Phone != nil && *u.Phone == identifier)
	})
}

func (r *fakeUserRepo) SetPassword(_ context.Context, id int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

func (r *fakeUserRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeTxRepo is an in-memory TransactionRepository. TTLs are recorded but not enforced.
type fakeTxRepo struct {
	mu            sync.Mutex
	registrations map[string]entity.RegistrationDraft
	resets        map[string]entity.PasswordResetState
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{
		registrations: make(map[string]entity.RegistrationDraft),
		resets:        make(map[string]entity.PasswordResetState),
	}
}

func (r *fakeTxRepo) SaveRegistration(_ context.Context, token string, draft *entity.RegistrationDraft, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrations[token] = *draft
	return nil
}

func (r *fakeTxRepo) GetRegistration(_ context.Context, token string) (*entity.RegistrationDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.registrations[token]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeTxRepo) DeleteRegistration(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.registrations, token)
	return nil
}

func (r *fakeTxRepo) SavePasswordReset(_ context.Context, token string, state *entity.PasswordResetState, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[token] = *state
	return nil
}

func (r *fakeTxRepo) GetPasswordReset(_ context.Context, token string) (*entity.PasswordResetState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.resets[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeTxRepo) DeletePasswordReset(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resets, token)
	return nil
}

type sentMessage struct {
	channel     entity.DeliveryChannel
	destination string
	message     string
}

// fakeNotifier records every message and can be made to fail
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, channel entity.DeliveryChannel, destination, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{channel, destination, message})
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *fakeNotifier) last() sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

// fakeJWTService issues opaque tokens and records revocations
type fakeJWTService struct {
	revokedUsers  []int
	revokedTokens []string
}

func (s *fakeJWTService) GenerateToken(_ context.Context, user *entity.User) (*entity.AuthResponse, error) {
	return &entity.AuthResponse{
		Token:   "jwt-for-" + user.Username,
		User:    *ToUserResponse(user),
		Message: "Authentication successful",
	}, nil
}

func (s *fakeJWTService) ValidateToken(_ context.Context, _ string) (*JWTClaims, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeJWTService) RevokeToken(_ context.Context, tokenString string) error {
	s.revokedTokens = append(s.revokedTokens, tokenString)
	return nil
}

func (s *fakeJWTService) RevokeAllUserTokens(_ context.Context, userID int) (int, error) {
	s.revokedUsers = append(s.revokedUsers, userID)
	return 2, nil
}

// testHasher uses the minimum bcrypt cost to keep tests fast
func testHasher() hash.PasswordHasher {
	return hash.NewBcrypt(4)
}

type otpHarness struct {
	clock    *clock.Fixed
	repo     *fakeOTPRepo
	notifier *fakeNotifier
	service  OTPService
}

func newOTPHarness() *otpHarness {
	clk := clock.NewFixed(testEpoch)
	repo := newFakeOTPRepo()
	n := &fakeNotifier{}
	return &otpHarness{
		clock:    clk,
		repo:     repo,
		notifier: n,
		service:  NewOTPService(repo, n, clk, testOTPConfig(), logger.NewNop()),
	}
}
