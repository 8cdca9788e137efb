package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/templegit9/contracker-single/internal/models"
	"github.com/templegit9/contracker-single/internal/repository"
	"github.com/templegit9/contracker-single/pkg/utils"
)

// IdentityService owns the user table, stored as a single JSON list
// under the "users" key. Mutations follow load-modify-persist; success
// is only reported after the persistence write resolves.
type IdentityService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewIdentityService(store repository.Store, logger *slog.Logger) *IdentityService {
	return &IdentityService{store: store, logger: logger}
}

// ProfileUpdate carries the profile fields a user may change. Empty
// fields keep their current value.
type ProfileUpdate struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
}

func (s *IdentityService) loadUsers(ctx context.Context) ([]models.User, error) {
	raw, found, err := s.store.Get(ctx, repository.UsersKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("corrupt user table: %w", err)
	}
	return users, nil
}

func (s *IdentityService) saveUsers(ctx context.Context, users []models.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, repository.UsersKey, raw)
}

// Register creates a new user. Email matching is exact and
// case-sensitive, mirroring login identity.
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (models.PublicUser, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.PublicUser{}, err
	}

	for _, u := range users {
		if u.Email == email {
			return models.PublicUser{}, models.ErrDuplicateEmail
		}
	}

	user := models.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: utils.HashPassword(password),
		APIKey:       utils.GenerateAPIKey(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.saveUsers(ctx, append(users, user)); err != nil {
		return models.PublicUser{}, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user.Public(), nil
}

// Login validates credentials. A missing email and a wrong password are
// distinct failures; neither mutates the stored record.
func (s *IdentityService) Login(ctx context.Context, email, password string) (models.PublicUser, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.PublicUser{}, err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if !utils.CheckPasswordHash(password, u.PasswordHash) {
			return models.PublicUser{}, models.ErrInvalidCredentials
		}
		return u.Public(), nil
	}
	return models.PublicUser{}, models.ErrUserNotFound
}

// GetUser resolves a user id to its public view.
func (s *IdentityService) GetUser(ctx context.Context, userID string) (models.PublicUser, error) {
	if userID == "" {
		return models.PublicUser{}, models.ErrNotAuthenticated
	}
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.PublicUser{}, err
	}
	for _, u := range users {
		if u.ID == userID {
			return u.Public(), nil
		}
	}
	return models.PublicUser{}, models.ErrUserNotFound
}

// FindByAPIKey resolves an API key to a user; used by header auth.
func (s *IdentityService) FindByAPIKey(ctx context.Context, apiKey string) (models.PublicUser, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.PublicUser{}, err
	}
	for _, u := range users {
		if u.APIKey != "" && u.APIKey == apiKey {
			return u.Public(), nil
		}
	}
	return models.PublicUser{}, models.ErrUserNotFound
}

// mutateUser applies fn to the stored record with the given id and
// persists the full list.
func (s *IdentityService) mutateUser(ctx context.Context, userID string, fn func(*models.User) error) (models.User, error) {
	if userID == "" {
		return models.User{}, models.ErrNotAuthenticated
	}
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for i := range users {
		if users[i].ID != userID {
			continue
		}
		if err := fn(&users[i]); err != nil {
			return models.User{}, err
		}
		now := time.Now().UTC()
		users[i].UpdatedAt = &now
		if err := s.saveUsers(ctx, users); err != nil {
			return models.User{}, err
		}
		return users[i], nil
	}
	return models.User{}, models.ErrUserNotFound
}

// UpdateProfile shallow-merges profile fields into the stored record.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (models.PublicUser, error) {
	user, err := s.mutateUser(ctx, userID, func(u *models.User) error {
		if update.Name != "" {
			u.Name = update.Name
		}
		if update.PhotoURL != "" {
			u.PhotoURL = update.PhotoURL
		}
		return nil
	})
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdatePassword revalidates the current password before storing the
// new hash.
func (s *IdentityService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	_, err := s.mutateUser(ctx, userID, func(u *models.User) error {
		if !utils.CheckPasswordHash(currentPassword, u.PasswordHash) {
			return models.ErrInvalidCredentials
		}
		u.PasswordHash = utils.HashPassword(newPassword)
		return nil
	})
	return err
}

// UpdateEmail revalidates the password and rejects emails held by any
// other account.
func (s *IdentityService) UpdateEmail(ctx context.Context, userID, password, newEmail string) (models.PublicUser, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.PublicUser{}, err
	}
	for _, u := range users {
		if u.Email == newEmail && u.ID != userID {
			return models.PublicUser{}, models.ErrEmailInUse
		}
	}

	user, err := s.mutateUser(ctx, userID, func(u *models.User) error {
		if !utils.CheckPasswordHash(password, u.PasswordHash) {
			return models.ErrInvalidCredentials
		}
		u.Email = newEmail
		return nil
	})
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// RegenerateAPIKey replaces the user's API key and returns the new one.
func (s *IdentityService) RegenerateAPIKey(ctx context.Context, userID string) (string, error) {
	user, err := s.mutateUser(ctx, userID, func(u *models.User) error {
		u.APIKey = utils.GenerateAPIKey()
		return nil
	})
	if err != nil {
		return "", err
	}
	return user.APIKey, nil
}

// DeleteAccount removes the user record and purges every namespaced
// key owned by the user.
func (s *IdentityService) DeleteAccount(ctx context.Context, userID string) error {
	if userID == "" {
		return models.ErrNotAuthenticated
	}
	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}

	kept := users[:0]
	removed := false
	for _, u := range users {
		if u.ID == userID {
			removed = true
			continue
		}
		kept = append(kept, u)
	}
	if !removed {
		return models.ErrUserNotFound
	}
	if err := s.saveUsers(ctx, kept); err != nil {
		return err
	}

	for _, key := range []string{
		repository.UserContentKey(userID),
		repository.UserEngagementKey(userID),
		repository.UserAPIConfigKey(userID),
	} {
		if err := s.store.Remove(ctx, key); err != nil {
			s.logger.Error("failed to purge user data", "key", key, "error", err)
		}
	}

	s.logger.Info("account deleted", "user_id", userID)
	return nil
}
