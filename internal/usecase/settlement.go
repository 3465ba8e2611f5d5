package usecase

import (
	"context"
	"errors"
	"sort"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	"github.com/mkurbatov/craftmarket/internal/domain/repository"
)

// SettlementUseCase converts a validated cart into a persisted order: it
// debits the buyer, credits every touched seller, moves the catalog counters
// and inserts the order, all inside one settlement transaction.
type SettlementUseCase struct {
	settlements repository.UnitOfWork
	policy      ShippingPolicy
	retryBudget int
	events      OrderEvents
}

// NewSettlementUseCase constructs SettlementUseCase. retryBudget is the
// number of additional attempts after a serialization conflict.
func NewSettlementUseCase(settlements repository.UnitOfWork, policy ShippingPolicy, retryBudget int, events OrderEvents) *SettlementUseCase {
	if retryBudget < 0 {
		retryBudget = 0
	}
	if events == nil {
		events = NopEvents{}
	}
	return &SettlementUseCase{settlements: settlements, policy: policy, retryBudget: retryBudget, events: events}
}

// PlaceOrder runs the settlement for one checkout. On any failure nothing is
// mutated; on a serialization conflict the attempt is repeated within the
// retry budget before the retryable error is surfaced.
func (u *SettlementUseCase) PlaceOrder(ctx context.Context, buyerID int64, lines []model.CartLine, addr model.ShippingAddress, paymentMethod string) (*model.Order, error) {
	if err := validateCart(lines); err != nil {
		return nil, err
	}

	var (
		order *model.Order
		err   error
	)
	for attempt := 0; attempt <= u.retryBudget; attempt++ {
		order, err = u.settleOnce(ctx, buyerID, lines, addr, paymentMethod)
		if !errors.Is(err, domainErrors.ErrConcurrentModification) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	u.events.OrderCreated(ctx, order)
	return order, nil
}

func validateCart(lines []model.CartLine) error {
	if len(lines) == 0 {
		return domainErrors.ErrEmptyCart
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return domainErrors.ErrInvalidQuantity
		}
		if line.ProductID <= 0 {
			return domainErrors.ErrItemNotFound
		}
	}
	return nil
}

func (u *SettlementUseCase) settleOnce(ctx context.Context, buyerID int64, lines []model.CartLine, addr model.ShippingAddress, paymentMethod string) (*model.Order, error) {
	var order *model.Order
	err := u.settlements.WithinSettlement(ctx, func(ctx context.Context, tx repository.SettlementTx) error {
		buyer, err := tx.BuyerForUpdate(ctx, buyerID)
		if err != nil {
			return err
		}

		products, err := tx.ProductsForUpdate(ctx, productIDs(lines))
		if err != nil {
			return err
		}
		byID := make(map[int64]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		// Authoritative pricing comes from the catalog; the client-claimed
		// price on the cart line is never part of the charge.
		items := make([]model.OrderItem, 0, len(lines))
		var itemsPrice int64
		needed := make(map[int64]int64, len(products))
		for _, line := range lines {
			p := byID[line.ProductID]
			items = append(items, model.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Shop:      p.Shop,
				Quantity:  line.Quantity,
				UnitPrice: p.Price,
			})
			itemsPrice += line.Quantity * p.Price
			needed[p.ID] += line.Quantity
		}

		shippingPrice := u.policy.Fee(itemsPrice)
		totalPrice := itemsPrice + shippingPrice

		if buyer.Balance < totalPrice {
			return domainErrors.ErrInsufficientBalance
		}
		for id, qty := range needed {
			if byID[id].Stock < qty {
				return domainErrors.ErrInsufficientStock
			}
		}

		// Lines are matched to sellers through explicit shop-keyed maps.
		// Positional alignment of deduplicated lists pays the wrong seller
		// whenever the induced orders differ.
		revenueByShop := make(map[string]int64)
		for _, item := range items {
			revenueByShop[item.Shop] += item.Subtotal()
		}
		shops := make([]string, 0, len(revenueByShop))
		for shop := range revenueByShop {
			shops = append(shops, shop)
		}
		sort.Strings(shops)

		sellers, err := tx.SellersByShop(ctx, shops)
		if err != nil {
			return err
		}

		for _, item := range items {
			if _, err := tx.ReserveAndSell(ctx, item.ProductID, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}
		for _, shop := range shops {
			if _, err := tx.Credit(ctx, sellers[shop].ID, revenueByShop[shop]); err != nil {
				return err
			}
		}
		if _, err := tx.Debit(ctx, buyer.ID, totalPrice); err != nil {
			return err
		}

		order, err = tx.InsertOrder(ctx, &model.Order{
			BuyerID:         buyer.ID,
			Items:           items,
			SellerShops:     shops,
			ItemsPrice:      itemsPrice,
			ShippingPrice:   shippingPrice,
			TotalPrice:      totalPrice,
			PaymentMethod:   paymentMethod,
			ShippingAddress: addr,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func productIDs(lines []model.CartLine) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
