package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	"github.com/mkurbatov/craftmarket/internal/domain/repository"
	pkgAuth "github.com/mkurbatov/craftmarket/internal/pkg/auth"
)

// AuthUseCase handles account registration and token management. New buyers
// and sellers start with the configured ledger balance.
type AuthUseCase struct {
	accounts        repository.AccountRepository
	hasher          pkgAuth.PasswordHasher
	tokens          pkgAuth.Strategy
	startingBalance int64
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(accounts repository.AccountRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, startingBalance int64) *AuthUseCase {
	return &AuthUseCase{accounts: accounts, hasher: hasher, tokens: strategy, startingBalance: startingBalance}
}

// Register creates a new account and returns an auth token. Sellers must
// name their shop; buyers must not.
func (u *AuthUseCase) Register(ctx context.Context, name, email, password string, role model.Role, shop string) (*model.Account, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	shop = strings.TrimSpace(shop)
	if name == "" || email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	switch role {
	case model.RoleSeller:
		if shop == "" {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
	case model.RoleBuyer:
		shop = ""
	default:
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	acc, err := u.accounts.Create(ctx, name, email, hash, role, shop, u.startingBalance)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.issueToken(acc)
	if err != nil {
		return nil, "", err
	}
	return acc, token, nil
}

// Authenticate validates credentials and returns an auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.Account, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	acc, err := u.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(acc.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.issueToken(acc)
	if err != nil {
		return nil, "", err
	}
	return acc, token, nil
}

// ParseToken extracts claims from the provided token.
func (u *AuthUseCase) ParseToken(token string) (*pkgAuth.Claims, error) {
	if token == "" {
		return nil, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches an account by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	return u.accounts.GetByID(ctx, id)
}

func (u *AuthUseCase) issueToken(acc *model.Account) (string, error) {
	return u.tokens.IssueToken(pkgAuth.Claims{
		AccountID: acc.ID,
		Role:      string(acc.Role),
		Shop:      acc.Shop,
	})
}
