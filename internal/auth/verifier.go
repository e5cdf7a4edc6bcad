package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/wayfarerhq/wayfarer/internal/models"
	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// UserLookup resolves a user by id; satisfied by store.Users.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Identity is the authenticated actor bound to a connection at handshake
// time. It is a read-only snapshot; events never re-fetch it.
type Identity struct {
	ID     string
	Name   string
	Avatar string
}

// Verifier turns a presented credential token into an Identity, or rejects.
type Verifier struct {
	jwt   *JWTService
	users UserLookup
}

// NewVerifier constructs an identity verifier.
func NewVerifier(jwt *JWTService, users UserLookup) (*Verifier, error) {
	if jwt == nil {
		return nil, errors.New("auth: jwt service must be provided")
	}
	if users == nil {
		return nil, errors.New("auth: user lookup must be provided")
	}
	return &Verifier{jwt: jwt, users: users}, nil
}

// Verify validates the token and resolves the associated account. An empty
// token maps to AuthRequired; an invalid or expired token, an unknown user,
// or a deactivated account all map to AuthInvalid.
func (v *Verifier) Verify(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, apperrors.ErrAuthRequired
	}

	claims, err := v.jwt.ValidateAccessToken(token)
	if err != nil {
		return Identity{}, apperrors.ErrAuthInvalid.WithInternal(err)
	}

	user, err := v.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return Identity{}, apperrors.ErrAuthInvalid.WithInternal(err)
	}
	if !user.IsActive {
		return Identity{}, apperrors.ErrAuthInvalid
	}

	name := user.Name
	if name == "" {
		name = user.Username
	}

	return Identity{
		ID:     user.ID.Hex(),
		Name:   name,
		Avatar: user.Avatar,
	}, nil
}
