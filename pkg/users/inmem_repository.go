package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository is an in-memory UsersRepository for tests and demos.
type InMemoryRepository struct {
	mu         sync.RWMutex
	agreements map[uuid.UUID]AgreementInfo
	users      map[uuid.UUID]User

	CreateUserErr     error
	UpdatePasswordErr error
}

// NewInMemoryRepository creates an empty in-memory users repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		agreements: make(map[uuid.UUID]AgreementInfo),
		users:      make(map[uuid.UUID]User),
	}
}

// AddAgreement seeds an agreement row.
func (r *InMemoryRepository) AddAgreement(info AgreementInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agreements[info.ID] = info
}

// AddUser seeds a user row.
func (r *InMemoryRepository) AddUser(user User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *InMemoryRepository) GetAgreement(ctx context.Context, id uuid.UUID) (AgreementInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.agreements[id]
	if !ok {
		return AgreementInfo{}, ErrAgreementNotFound
	}
	return info, nil
}

func (r *InMemoryRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (r *InMemoryRepository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if r.CreateUserErr != nil {
		return User{}, r.CreateUserErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	user := User{
		ID:        uuid.New(),
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		RoleID:    params.RoleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *InMemoryRepository) LinkAgreement(ctx context.Context, agreementID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.agreements[agreementID]
	if !ok {
		return ErrAgreementNotFound
	}
	info.UserID = &userID
	r.agreements[agreementID] = info
	return nil
}

func (r *InMemoryRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash []byte) error {
	if r.UpdatePasswordErr != nil {
		return r.UpdatePasswordErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user
	return nil
}

func (r *InMemoryRepository) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	now := time.Now().UTC()
	user.BannedAt = &now
	user.UpdatedAt = now
	r.users[userID] = user
	return nil
}
