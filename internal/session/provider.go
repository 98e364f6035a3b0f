package session

import (
	"context"

	"DispoCeSoir/internal/domain"
)

// Provider builds the identity for a sign-in or sign-up whose inputs
// already passed the non-empty check. A real identity service replaces
// MockProvider behind this interface.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (domain.Identity, error)
	SignUp(ctx context.Context, name, email, password string) (domain.Identity, error)
}

// Defaults is the fixed part of every mock identity.
type Defaults struct {
	ID        string
	Name      string
	Avatar    string
	SignInBio string
	SignUpBio string
}

// MockProvider accepts any credentials.
type MockProvider struct {
	Defaults Defaults
}

func (p MockProvider) SignIn(ctx context.Context, email, _ string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		ID:     p.Defaults.ID,
		Name:   p.Defaults.Name,
		Email:  email,
		Avatar: p.Defaults.Avatar,
		Bio:    p.Defaults.SignInBio,
	}, nil
}

func (p MockProvider) SignUp(ctx context.Context, name, email, _ string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		ID:     p.Defaults.ID,
		Name:   name,
		Email:  email,
		Avatar: p.Defaults.Avatar,
		Bio:    p.Defaults.SignUpBio,
	}, nil
}
