package usecase

import (
	"go.uber.org/fx"

	"github.com/mkurbatov/craftmarket/internal/config"
	"github.com/mkurbatov/craftmarket/internal/domain/repository"
	pkgAuth "github.com/mkurbatov/craftmarket/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newAuthUseCase,
	newSettlementUseCase,
	NewLifecycleUseCase,
	NewQueryUseCase,
)

type authParams struct {
	fx.In

	Accounts repository.AccountRepository
	Hasher   pkgAuth.PasswordHasher
	Strategy pkgAuth.Strategy
	Config   *config.Config
}

func newAuthUseCase(p authParams) *AuthUseCase {
	return NewAuthUseCase(p.Accounts, p.Hasher, p.Strategy, p.Config.StartingBalance)
}

type settlementParams struct {
	fx.In

	Settlements repository.UnitOfWork
	Config      *config.Config
	Events      OrderEvents
}

func newSettlementUseCase(p settlementParams) *SettlementUseCase {
	policy := ShippingPolicy{
		FreeThreshold: p.Config.ShippingFreeThreshold,
		FlatFee:       p.Config.ShippingFlatFee,
	}
	return NewSettlementUseCase(p.Settlements, policy, p.Config.SettlementRetryBudget, p.Events)
}
