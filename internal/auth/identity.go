package auth

import "context"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Identity is the caller assertion the commerce core consumes: either an
// authenticated user (UserID > 0) or an anonymous guest session.
type Identity struct {
	UserID    uint
	Email     string
	Role      Role
	SessionID string
}

func (i Identity) IsAuthenticated() bool { return i.UserID > 0 }

func (i Identity) IsAdmin() bool { return i.IsAuthenticated() && i.Role == RoleAdmin }

func (i Identity) IsGuest() bool { return !i.IsAuthenticated() && i.SessionID != "" }

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity stores id in the context (called by middleware).
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the caller identity; the zero Identity when absent.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

// SetUserContext is a shorthand for an authenticated identity.
func SetUserContext(ctx context.Context, userID uint, email string, role Role) context.Context {
	id := FromContext(ctx)
	id.UserID = userID
	id.Email = email
	id.Role = role
	return WithIdentity(ctx, id)
}

// SetSessionContext attaches a guest session id, keeping any user fields.
func SetSessionContext(ctx context.Context, sessionID string) context.Context {
	id := FromContext(ctx)
	id.SessionID = sessionID
	return WithIdentity(ctx, id)
}

func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id := FromContext(ctx)
	return id.UserID, id.IsAuthenticated()
}

func GetUserRoleFromContext(ctx context.Context) Role {
	return FromContext(ctx).Role
}
