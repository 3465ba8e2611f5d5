package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	testhelpers "github.com/mkurbatov/craftmarket/internal/test"
)

func TestAuthRegisterBuyer(t *testing.T) {
	repo := testhelpers.NewAccountRepositoryStub()
	strategy := &testhelpers.StrategyStub{}
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, strategy, 20000)

	acc, token, err := uc.Register(context.Background(), "Jane", "jane@example.com", "secret", model.RoleBuyer, "ignored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token: %s", token)
	}
	if acc.Balance != 20000 {
		t.Fatalf("expected starting balance 20000, got %d", acc.Balance)
	}
	if acc.Shop != "" {
		t.Fatalf("buyer must not own a shop, got %q", acc.Shop)
	}
	if len(strategy.Issued) != 1 || strategy.Issued[0].AccountID != acc.ID || strategy.Issued[0].Role != string(model.RoleBuyer) {
		t.Fatalf("unexpected issued claims: %+v", strategy.Issued)
	}
}

func TestAuthRegisterSellerRequiresShop(t *testing.T) {
	repo := testhelpers.NewAccountRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, &testhelpers.StrategyStub{}, 0)

	if _, _, err := uc.Register(context.Background(), "Sam", "sam@example.com", "secret", model.RoleSeller, ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for shopless seller, got %v", err)
	}

	acc, _, err := uc.Register(context.Background(), "Sam", "sam@example.com", "secret", model.RoleSeller, "workshop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acc.IsSeller() || acc.Shop != "workshop" {
		t.Fatalf("unexpected seller account: %+v", acc)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewAccountRepositoryStub(), testhelpers.HasherStub{}, &testhelpers.StrategyStub{}, 0)

	cases := []struct {
		name, accName, email, password string
		role                           model.Role
	}{
		{"empty name", "", "a@b.c", "pw", model.RoleBuyer},
		{"empty email", "A", "", "pw", model.RoleBuyer},
		{"empty password", "A", "a@b.c", "", model.RoleBuyer},
		{"unknown role", "A", "a@b.c", "pw", model.Role("admin")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := uc.Register(context.Background(), tc.accName, tc.email, tc.password, tc.role, ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
				t.Fatalf("expected invalid credentials, got %v", err)
			}
		})
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := testhelpers.NewAccountRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, &testhelpers.StrategyStub{}, 0)

	if _, _, err := uc.Register(context.Background(), "A", "dup@example.com", "pw", model.RoleBuyer, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "B", "dup@example.com", "pw", model.RoleBuyer, ""); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestAuthAuthenticate(t *testing.T) {
	repo := testhelpers.NewAccountRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, &testhelpers.StrategyStub{}, 0)

	name := testhelpers.RandomASCIIString(7, 14)
	email := testhelpers.RandomASCIIString(7, 14) + "@example.com"
	password := testhelpers.RandomASCIIString(16, 32)

	if _, _, err := uc.Register(context.Background(), name, email, password, model.RoleBuyer, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, token, err := uc.Authenticate(context.Background(), email, password); err != nil || token == "" {
		t.Fatalf("expected successful login, got %q %v", token, err)
	}
	if _, _, err := uc.Authenticate(context.Background(), email, password+"x"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for bad password, got %v", err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "nobody@example.com", password); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}
