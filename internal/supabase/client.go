package supabase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
	"stature-backend/internal/config"
	"stature-backend/internal/models"
)

// Client wraps the Supabase Auth admin API used to mirror roles into token
// claims and to list identity accounts.
type Client struct {
	Supabase *supabase.Client
	auth     gotrue.Client
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(strings.TrimRight(cfg.SupabaseURL, "/"), cfg.SupabaseServiceRoleKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		// Admin endpoints want the service role key as the bearer token.
		auth: client.Auth.WithToken(cfg.SupabaseServiceRoleKey),
	}, nil
}

// SetRoleClaims writes role and admin into the user's app_metadata, which
// Supabase copies into every access token it issues afterwards.
func (c *Client) SetRoleClaims(uid, role string) error {
	id, err := uuid.Parse(uid)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", uid, err)
	}

	_, err = c.auth.AdminUpdateUser(types.AdminUpdateUserRequest{
		UserID: id,
		AppMetadata: map[string]interface{}{
			"role":  role,
			"admin": role == models.RoleAdmin,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update claims for %s: %w", uid, err)
	}
	return nil
}

func (c *Client) ListIdentityUsers() ([]models.IdentityUser, error) {
	resp, err := c.auth.AdminListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list auth users: %w", err)
	}

	users := make([]models.IdentityUser, 0, len(resp.Users))
	for _, u := range resp.Users {
		users = append(users, models.IdentityUser{
			UID:         u.ID.String(),
			Email:       u.Email,
			DisplayName: displayName(u.UserMetadata),
			CreatedAt:   u.CreatedAt,
		})
	}
	return users, nil
}

func displayName(meta map[string]interface{}) string {
	for _, key := range []string{"full_name", "name", "display_name"} {
		if v, ok := meta[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
