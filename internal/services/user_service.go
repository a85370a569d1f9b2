package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"stature-backend/internal/events"
	"stature-backend/internal/models"
	"stature-backend/internal/supabase"
)

type UserStore interface {
	EnsureUser(ctx context.Context, uid, email, displayName string) (*models.User, bool, error)
	GetUser(ctx context.Context, uid string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetUserRole(ctx context.Context, uid, role string) (*models.User, error)
}

// IdentityAdmin is the identity provider's admin API.
type IdentityAdmin interface {
	SetRoleClaims(uid, role string) error
	ListIdentityUsers() ([]models.IdentityUser, error)
}

type UserService struct {
	store     UserStore
	identity  IdentityAdmin
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewUserService builds the account service. identity may be nil, in which
// case roles are only kept in the database.
func NewUserService(store UserStore, identity IdentityAdmin, publisher events.Publisher, logger zerolog.Logger) *UserService {
	return &UserService{
		store:     store,
		identity:  identity,
		publisher: publisher,
		logger:    logger.With().Str("service", "UserService").Logger(),
	}
}

// EnsureUser provisions the account on first sight. The very first account
// becomes an admin.
func (s *UserService) EnsureUser(ctx context.Context, uid, email string) (*models.User, error) {
	if uid == "" {
		return nil, invalid("uid is required")
	}

	user, created, err := s.store.EnsureUser(ctx, uid, email, "")
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", uid).Msg("Failed to provision user")
		return nil, err
	}
	if !created {
		return user, nil
	}

	s.logger.Info().Str("user_id", uid).Str("email", email).Str("role", user.Role).Msg("user created")
	if err := s.mirrorRole(user.UID, user.Role); err != nil {
		s.logger.Error().Err(err).Str("user_id", uid).Str("role", user.Role).Msg("Failed to mirror role into identity claims")
	}
	s.publish(ctx, events.UserCreated, events.UserPayload{UID: user.UID, Email: user.Email, Role: user.Role})
	return user, nil
}

func (s *UserService) Get(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, uid)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Promote makes uid an admin. Promoting an existing admin only rewrites the
// identity claims, which repairs an account whose claim write failed earlier.
func (s *UserService) Promote(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, invalid("uid is required")
	}

	current, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if current.IsAdmin() {
		if err := s.mirrorRole(uid, models.RoleAdmin); err != nil {
			return nil, err
		}
		return current, nil
	}

	user, err := s.store.SetUserRole(ctx, uid, models.RoleAdmin)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("promoting %s: %w", uid, err)
	}

	if err := s.mirrorRole(uid, models.RoleAdmin); err != nil {
		return nil, err
	}
	s.publish(ctx, events.UserPromoted, events.UserPayload{UID: uid, Email: user.Email, Role: user.Role})
	s.logger.Info().Str("user_id", uid).Msg("user promoted to admin")
	return user, nil
}

// ListUsers merges stored records with identity accounts. Every stored
// record is listed; identity email and display name win where the uid
// matches. Identity accounts without a record are appended as plain users
// with no credits.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	records, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if s.identity == nil {
		return records, nil
	}

	identities, err := s.identity.ListIdentityUsers()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to list identity users, returning stored records only")
		return records, nil
	}

	byUID := make(map[string]models.IdentityUser, len(identities))
	for _, id := range identities {
		byUID[id.UID] = id
	}

	merged := make([]models.User, 0, len(records)+len(identities))
	for _, rec := range records {
		if id, ok := byUID[rec.UID]; ok {
			if id.Email != "" {
				rec.Email = id.Email
			}
			if id.DisplayName != "" {
				rec.DisplayName = id.DisplayName
			}
			delete(byUID, rec.UID)
		}
		merged = append(merged, rec)
	}

	for _, id := range identities {
		if _, pending := byUID[id.UID]; !pending {
			continue
		}
		merged = append(merged, models.User{
			UID:         id.UID,
			Email:       id.Email,
			DisplayName: id.DisplayName,
			Role:        models.RoleUser,
			CreatedAt:   id.CreatedAt,
		})
		delete(byUID, id.UID)
	}
	return merged, nil
}

func (s *UserService) mirrorRole(uid, role string) error {
	if s.identity == nil {
		return nil
	}
	if err := s.identity.SetRoleClaims(uid, role); err != nil {
		return fmt.Errorf("mirroring role %s for %s: %w", role, uid, err)
	}
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", string(event)).Msg("Failed to publish event")
	}
}
