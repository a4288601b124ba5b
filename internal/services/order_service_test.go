package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"finanp2p/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(ctx context.Context, orderID string, expected []models.OrderStatus, next models.OrderStatus, txHash *string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	guardHolds := false
	for _, st := range expected {
		if order.Status == st {
			guardHolds = true
			break
		}
	}
	if !guardHolds {
		return nil, nil
	}

	order.Status = next
	if txHash != nil {
		order.TxHash = txHash
	}
	order.UpdatedAt = time.Now().UTC()
	cp := *order
	return &cp, nil
}

func (f *fakeOrderStore) ListOrders(ctx context.Context, offset, limit int) ([]*models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := make([]*models.Order, 0, len(f.orders))
	for _, order := range f.orders {
		cp := *order
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeOrderStore) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Order
	for _, order := range f.orders {
		if order.Status == status {
			cp := *order
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeProfileStore struct {
	profile *models.PaymentProfile
}

func (f *fakeProfileStore) ActiveProfile(ctx context.Context) (*models.PaymentProfile, error) {
	return f.profile, nil
}

func testProfile() *models.PaymentProfile {
	return &models.PaymentProfile{
		ID:            "default",
		BankName:      "Vietcombank",
		AccountNumber: "1234567890",
		AccountHolder: "FINAN WALLET ADMIN",
		UsdtRate:      decimal.NewFromInt(24000),
		IsActive:      true,
	}
}

func newOrderService(store *fakeOrderStore, profile *models.PaymentProfile) *OrderService {
	return &OrderService{
		Orders:   store,
		Profiles: &fakeProfileStore{profile: profile},
		Logger:   zap.NewNop(),
	}
}

const testWallet = "0xAb5801a7D398351b8bE11C439e05C5b3259aec9B"

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeOrderStore()
	svc := newOrderService(store, testProfile())

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.CreateOrder(context.Background(), testWallet, amount)
		require.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, store.orders, "nothing may be persisted on validation failure")
}

func TestCreateOrderRejectsMalformedAddress(t *testing.T) {
	store := newFakeOrderStore()
	svc := newOrderService(store, testProfile())

	for _, addr := range []string{"", "0x123", "not-an-address", "0xZZ5801a7D398351b8bE11C439e05C5b3259aec9B"} {
		_, err := svc.CreateOrder(context.Background(), addr, decimal.NewFromInt(100))
		require.ErrorIs(t, err, ErrInvalidInput, "address %q", addr)
	}
	assert.Empty(t, store.orders)
}

func TestCreateOrderRequiresActiveProfile(t *testing.T) {
	store := newFakeOrderStore()
	svc := newOrderService(store, nil)

	_, err := svc.CreateOrder(context.Background(), testWallet, decimal.NewFromInt(100))
	require.ErrorIs(t, err, ErrNoActiveProfile)
	assert.Empty(t, store.orders)
}

func TestCreateOrderRendersPaymentInstructions(t *testing.T) {
	svc := newOrderService(newFakeOrderStore(), testProfile())

	created, err := svc.CreateOrder(context.Background(), testWallet, decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, created.Order.Status)
	assert.Equal(t, "Vietcombank", created.Instructions.BankName)
	assert.Contains(t, created.Instructions.Note, created.Order.ID)
	assert.Contains(t, created.Instructions.Note, "100")
}

func TestMarkPaidIsNotRepeatable(t *testing.T) {
	store := newFakeOrderStore()
	svc := newOrderService(store, testProfile())

	created, err := svc.CreateOrder(context.Background(), testWallet, decimal.NewFromInt(50))
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), created.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, paid.Status)

	_, err = svc.MarkPaid(context.Background(), created.Order.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	current, err := svc.GetOrder(context.Background(), created.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, current.Status)
}

func TestConfirmRequiresPaidStatus(t *testing.T) {
	store := newFakeOrderStore()
	svc := newOrderService(store, testProfile())

	created, err := svc.CreateOrder(context.Background(), testWallet, decimal.NewFromInt(10))
	require.NoError(t, err)

	_, err = svc.ConfirmOrder(context.Background(), created.Order.ID, nil)
	require.ErrorIs(t, err, ErrInvalidTransition, "pending order cannot be confirmed")
}

func TestConfirmStoresTxHashAndBlocksCancel(t *testing.T) {
	store := newFakeOrderStore()
	svc := newOrderService(store, testProfile())

	created, err := svc.CreateOrder(context.Background(), testWallet, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), created.Order.ID)
	require.NoError(t, err)

	txHash := "0xdeadbeef"
	confirmed, err := svc.ConfirmOrder(context.Background(), created.Order.ID, &txHash)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.TxHash)
	assert.Equal(t, "0xdeadbeef", *confirmed.TxHash)

	_, err = svc.CancelOrder(context.Background(), created.Order.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelAllowedForPendingAndPaid(t *testing.T) {
	store := newFakeOrderStore()
	svc := newOrderService(store, testProfile())

	pending, err := svc.CreateOrder(context.Background(), testWallet, decimal.NewFromInt(1))
	require.NoError(t, err)
	cancelled, err := svc.CancelOrder(context.Background(), pending.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	paid, err := svc.CreateOrder(context.Background(), testWallet, decimal.NewFromInt(2))
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), paid.Order.ID)
	require.NoError(t, err)
	cancelled, err = svc.CancelOrder(context.Background(), paid.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
}

func TestTransitionsOnMissingOrderReturnNotFound(t *testing.T) {
	svc := newOrderService(newFakeOrderStore(), testProfile())

	_, err := svc.MarkPaid(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ConfirmOrder(context.Background(), "nope", nil)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.CancelOrder(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetOrder(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentConfirmsYieldOneWinner(t *testing.T) {
	store := newFakeOrderStore()
	svc := newOrderService(store, testProfile())

	created, err := svc.CreateOrder(context.Background(), testWallet, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), created.Order.ID)
	require.NoError(t, err)

	const attempts = 2
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hash := fmt.Sprintf("0xhash%d", n)
			_, err := svc.ConfirmOrder(context.Background(), created.Order.ID, &hash)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrInvalidTransition)
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	final, err := svc.GetOrder(context.Background(), created.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, final.Status)
}

func TestListOrdersPaginatesNewestFirst(t *testing.T) {
	store := newFakeOrderStore()
	svc := newOrderService(store, testProfile())

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		order := &models.Order{
			ID:            fmt.Sprintf("order-%d", i),
			WalletAddress: testWallet,
			Amount:        decimal.NewFromInt(int64(i + 1)),
			Status:        models.OrderPending,
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
			UpdatedAt:     base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.CreateOrder(context.Background(), order))
	}

	orders, total, err := svc.ListOrders(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, orders, 2)
	assert.Equal(t, "order-4", orders[0].ID)
	assert.Equal(t, "order-3", orders[1].ID)

	// Out-of-range paging inputs are clamped, not rejected.
	orders, total, err = svc.ListOrders(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, orders, 5)
}

func TestListOrdersByStatusValidatesStatus(t *testing.T) {
	svc := newOrderService(newFakeOrderStore(), testProfile())

	_, err := svc.ListOrdersByStatus(context.Background(), models.OrderStatus("bogus"))
	require.ErrorIs(t, err, ErrInvalidInput)
}
