package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"salespring-checkout/internal/domain"
	discountsvc "salespring-checkout/internal/service/discount"
	rewardssvc "salespring-checkout/internal/service/rewards"
	selectionsvc "salespring-checkout/internal/service/selection"
)

type stubItems struct {
	items []domain.CartItem
	err   error
}

func (s *stubItems) ListByCart(_ context.Context, _ string) ([]domain.CartItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

type memSelectionStore struct {
	m domain.SelectionMap
}

func (s *memSelectionStore) Load(_ context.Context, _ string) (domain.SelectionMap, error) {
	out := domain.SelectionMap{}
	for k, v := range s.m {
		out[k] = v
	}
	return out, nil
}

func (s *memSelectionStore) Save(_ context.Context, _ string, m domain.SelectionMap) error {
	s.m = m
	return nil
}

type stubCatalog struct {
	codes map[string]*domain.DiscountCode
}

func (s *stubCatalog) GetByCode(_ context.Context, code string) (*domain.DiscountCode, error) {
	if def, ok := s.codes[code]; ok {
		return def, nil
	}
	return nil, domain.ErrNotFound
}

// memLedger mimics the postgres rewards repository including the order-id
// idempotency guard.
type memLedger struct {
	acc          domain.RewardsAccount
	orders       map[string]bool
	failEarns    int
	redeemWrites int
	earnWrites   int
}

func newMemLedger(available int64) *memLedger {
	return &memLedger{
		acc:    domain.RewardsAccount{Available: available, TotalEarned: available},
		orders: map[string]bool{},
	}
}

func (l *memLedger) GetAccount(_ context.Context, _ string) (*domain.RewardsAccount, error) {
	acc := l.acc
	return &acc, nil
}

func (l *memLedger) Redeem(_ context.Context, _ string, amount int64, _, orderID string) (*domain.RewardsAccount, error) {
	key := orderID + "/redeemed"
	if orderID != "" && l.orders[key] {
		return nil, domain.ErrOrderAlreadyCompleted
	}
	if amount > l.acc.Available {
		return nil, domain.ErrInsufficientPoints
	}
	l.acc.Available -= amount
	l.acc.TotalRedeemed += amount
	if orderID != "" {
		l.orders[key] = true
	}
	l.redeemWrites++
	acc := l.acc
	return &acc, nil
}

func (l *memLedger) Earn(_ context.Context, _ string, amount int64, _, orderID string) (*domain.RewardsAccount, error) {
	if l.failEarns > 0 {
		l.failEarns--
		return nil, errors.New("connection reset")
	}
	key := orderID + "/earned"
	if orderID != "" && l.orders[key] {
		return nil, domain.ErrOrderAlreadyCompleted
	}
	l.acc.Available += amount
	l.acc.TotalEarned += amount
	if orderID != "" {
		l.orders[key] = true
	}
	l.earnWrites++
	acc := l.acc
	return &acc, nil
}

func (l *memLedger) ListTransactions(_ context.Context, _ string, _ int) ([]domain.PointsTransaction, error) {
	return nil, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func demoItems() []domain.CartItem {
	return []domain.CartItem{
		{ID: "i1", ProductID: "p1", Name: "Headphones", UnitPrice: dec("100.00"), Quantity: 1, MaxQuantity: 5},
		{ID: "i2", ProductID: "p2", Name: "Speaker", UnitPrice: dec("150.00"), Quantity: 2, MaxQuantity: 5},
	}
}

func demoCatalog() *stubCatalog {
	return &stubCatalog{codes: map[string]*domain.DiscountCode{
		"save10":  {Code: "save10", Type: domain.DiscountPercentage, Value: dec("10"), MinOrderAmount: dec("100")},
		"take50":  {Code: "take50", Type: domain.DiscountFixed, Value: dec("50")},
		"half":    {Code: "half", Type: domain.DiscountPercentage, Value: dec("50")},
		"soft5":   {Code: "soft5", Type: domain.DiscountFixed, Value: dec("10")},
		"minbig":  {Code: "minbig", Type: domain.DiscountPercentage, Value: dec("10"), MinOrderAmount: dec("1000")},
	}}
}

func newTestService(items []domain.CartItem, available int64) (*Service, *memLedger, *memSelectionStore) {
	store := &memSelectionStore{m: domain.SelectionMap{}}
	ledger := newMemLedger(available)
	svc := New(
		&stubItems{items: items},
		selectionsvc.New(store),
		discountsvc.New(demoCatalog()),
		rewardssvc.New(ledger, dec("0.05"), dec("0.01")),
		ShippingRule{FlatFee: dec("9.99"), FreeThreshold: dec("100")},
	)
	return svc, ledger, store
}

func TestQuoteWorkedExample(t *testing.T) {
	// Subtotal 400.00, SAVE10 => 40.00 off, 500 points available, redeem
	// 200 => 2.00, free shipping above 100 => total 358.00, earn on 360.00.
	svc, _, _ := newTestService(demoItems(), 500)

	quote, err := svc.BuildQuote(context.Background(), "cart", "SAVE10", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totals := quote.Totals
	if !totals.Subtotal.Equal(dec("400.00")) {
		t.Fatalf("subtotal = %s, want 400.00", totals.Subtotal)
	}
	if !totals.DiscountAmount.Equal(dec("40.00")) {
		t.Fatalf("discount = %s, want 40.00", totals.DiscountAmount)
	}
	if totals.PointsToRedeem != 200 {
		t.Fatalf("pointsToRedeem = %d, want 200", totals.PointsToRedeem)
	}
	if !totals.PointsDiscount.Equal(dec("2.00")) {
		t.Fatalf("pointsDiscount = %s, want 2.00", totals.PointsDiscount)
	}
	if !totals.ShippingCost.IsZero() {
		t.Fatalf("shipping = %s, want 0", totals.ShippingCost)
	}
	if !totals.Total.Equal(dec("358.00")) {
		t.Fatalf("total = %s, want 358.00", totals.Total)
	}
	if totals.PointsToEarn != 18 {
		t.Fatalf("pointsToEarn = %d, want floor(360 * 0.05) = 18", totals.PointsToEarn)
	}

	if quote.Applied == nil || quote.Applied.Code != "save10" {
		t.Fatalf("expected applied discount echo, got %+v", quote.Applied)
	}
	if !quote.Applied.DiscountAmount.Equal(dec("40.00")) {
		t.Fatalf("applied amount = %s, want 40.00", quote.Applied.DiscountAmount)
	}
}

func TestSubtotalCountsOnlySelectedItems(t *testing.T) {
	svc, _, store := newTestService(demoItems(), 0)
	ctx := context.Background()

	before, err := svc.BuildQuote(ctx, "cart", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !before.Totals.Subtotal.Equal(dec("400.00")) {
		t.Fatalf("expected hydrated default-all subtotal 400.00, got %s", before.Totals.Subtotal)
	}

	// Deselect the speaker line; its 300.00 must vanish entirely.
	store.m["i2"] = false
	mid, err := svc.BuildQuote(ctx, "cart", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mid.Totals.Subtotal.Equal(dec("100.00")) {
		t.Fatalf("expected subtotal 100.00 with item off, got %s", mid.Totals.Subtotal)
	}

	// Toggling back on restores the prior subtotal exactly.
	store.m["i2"] = true
	after, err := svc.BuildQuote(ctx, "cart", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !after.Totals.Subtotal.Equal(before.Totals.Subtotal) {
		t.Fatalf("subtotal not restored: %s vs %s", after.Totals.Subtotal, before.Totals.Subtotal)
	}
}

func TestFixedDiscountCappedAtSubtotal(t *testing.T) {
	items := []domain.CartItem{
		{ID: "i1", UnitPrice: dec("5.00"), Quantity: 1},
	}
	svc, _, _ := newTestService(items, 0)

	quote, err := svc.BuildQuote(context.Background(), "cart", "soft5", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Totals.DiscountAmount.Equal(dec("5.00")) {
		t.Fatalf("fixed 10 on subtotal 5 must cap at 5.00, got %s", quote.Totals.DiscountAmount)
	}
	// Discounted total is zero; only the flat shipping fee remains payable.
	if !quote.Totals.Total.Equal(dec("9.99")) {
		t.Fatalf("total = %s, want 9.99", quote.Totals.Total)
	}
}

func TestApplyThenRemoveMatchesNeverApplied(t *testing.T) {
	svc, _, _ := newTestService(demoItems(), 500)
	ctx := context.Background()

	baseline, err := svc.BuildQuote(ctx, "cart", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.BuildQuote(ctx, "cart", "save10", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	removed, err := svc.BuildQuote(ctx, "cart", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !totalsEqual(baseline.Totals, removed.Totals) {
		t.Fatalf("apply+remove differs from never applied:\n%+v\n%+v", baseline.Totals, removed.Totals)
	}
	if removed.Applied != nil {
		t.Fatalf("removed discount must not echo, got %+v", removed.Applied)
	}
}

func TestPointsReclampedAgainstDiscountedTotal(t *testing.T) {
	items := []domain.CartItem{
		{ID: "i1", UnitPrice: dec("100.00"), Quantity: 1},
	}
	svc, _, _ := newTestService(items, 100000)

	// 50% off leaves 50.00 payable: at 0.01 per point only 5000 of the
	// requested 10000 points fit.
	quote, err := svc.BuildQuote(context.Background(), "cart", "half", 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Totals.PointsToRedeem != 5000 {
		t.Fatalf("pointsToRedeem = %d, want reclamped 5000", quote.Totals.PointsToRedeem)
	}
	if !quote.Totals.PointsDiscount.Equal(dec("50.00")) {
		t.Fatalf("pointsDiscount = %s, want 50.00", quote.Totals.PointsDiscount)
	}
	if !quote.Totals.Total.IsZero() {
		t.Fatalf("total = %s, want 0 (free shipping at subtotal 100)", quote.Totals.Total)
	}
}

func TestNegativePointsRequestClampsToZero(t *testing.T) {
	svc, _, _ := newTestService(demoItems(), 500)

	quote, err := svc.BuildQuote(context.Background(), "cart", "", -50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Totals.PointsToRedeem != 0 || !quote.Totals.PointsDiscount.IsZero() {
		t.Fatalf("negative request must clamp to zero, got %+v", quote.Totals)
	}
}

func TestShippingUsesPreDiscountSubtotal(t *testing.T) {
	items := []domain.CartItem{
		{ID: "i1", UnitPrice: dec("100.00"), Quantity: 1},
	}
	svc, _, _ := newTestService(items, 0)

	// take50 drops the payable total to 50, but shipping keys off the raw
	// subtotal of 100 and stays free.
	quote, err := svc.BuildQuote(context.Background(), "cart", "take50", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Totals.ShippingCost.IsZero() {
		t.Fatalf("shipping = %s, want 0 on pre-discount subtotal 100", quote.Totals.ShippingCost)
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(nil, 500)
	items := demoItems()
	for i := range items {
		items[i].Selected = true
	}
	def := &domain.DiscountCode{Code: "save10", Type: domain.DiscountPercentage, Value: dec("10"), MinOrderAmount: dec("100")}

	first, err := svc.ComputeTotals(items, def, 200, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ComputeTotals(items, def, 200, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !totalsEqual(first, second) {
		t.Fatalf("same inputs produced different totals:\n%+v\n%+v", first, second)
	}
}

func TestQuoteUnknownCode(t *testing.T) {
	svc, _, _ := newTestService(demoItems(), 0)
	if _, err := svc.BuildQuote(context.Background(), "cart", "bogus", 0); !errors.Is(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
}

func TestQuoteBelowMinimum(t *testing.T) {
	svc, _, _ := newTestService(demoItems(), 0)
	_, err := svc.BuildQuote(context.Background(), "cart", "minbig", 0)
	if !errors.Is(err, domain.ErrBelowMinimumOrder) {
		t.Fatalf("expected ErrBelowMinimumOrder, got %v", err)
	}
	var minErr *domain.MinimumOrderError
	if !errors.As(err, &minErr) || !minErr.MinOrderAmount.Equal(dec("1000")) {
		t.Fatalf("expected threshold 1000 in error, got %v", err)
	}
}

func TestCompleteOrderGrantsQuotedEarn(t *testing.T) {
	svc, ledger, _ := newTestService(demoItems(), 500)

	done, err := svc.CompleteOrder(context.Background(), "cart", "save10", 200, 18, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.OrderID != "order-1" {
		t.Fatalf("unexpected order id %s", done.OrderID)
	}
	if done.PointsRedeemed != 200 || done.PointsEarned != 18 {
		t.Fatalf("redeemed=%d earned=%d, want 200/18", done.PointsRedeemed, done.PointsEarned)
	}
	// 500 - 200 + 18
	if done.Account.Available != 318 {
		t.Fatalf("available = %d, want 318", done.Account.Available)
	}
	if ledger.redeemWrites != 1 || ledger.earnWrites != 1 {
		t.Fatalf("ledger writes redeem=%d earn=%d, want 1/1", ledger.redeemWrites, ledger.earnWrites)
	}
}

func TestCompleteOrderCapsInflatedEarn(t *testing.T) {
	// No discount, subtotal 400.00: the order yields floor(400 * 0.05) = 20
	// points. A request quoting far more must not mint the difference.
	svc, ledger, _ := newTestService(demoItems(), 0)

	done, err := svc.CompleteOrder(context.Background(), "cart", "", 0, 1_000_000, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.PointsEarned != 20 {
		t.Fatalf("earned = %d, want recomputed 20", done.PointsEarned)
	}
	if done.Account.Available != 20 {
		t.Fatalf("available = %d, want 20", done.Account.Available)
	}
	if ledger.earnWrites != 1 {
		t.Fatalf("earn writes = %d, want 1", ledger.earnWrites)
	}
}

func TestCompleteOrderGeneratesOrderID(t *testing.T) {
	svc, _, _ := newTestService(demoItems(), 0)

	done, err := svc.CompleteOrder(context.Background(), "cart", "", 0, 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.OrderID == "" {
		t.Fatalf("expected generated order id")
	}
}

func TestCompleteOrderRetryAfterTornEarn(t *testing.T) {
	svc, ledger, _ := newTestService(demoItems(), 500)
	ledger.failEarns = 1

	// First attempt commits the redemption, then dies on the earn half.
	if _, err := svc.CompleteOrder(context.Background(), "cart", "save10", 200, 18, "order-1"); err == nil {
		t.Fatalf("expected first attempt to fail on earn")
	}
	if ledger.redeemWrites != 1 || ledger.earnWrites != 0 {
		t.Fatalf("after torn attempt: redeem=%d earn=%d", ledger.redeemWrites, ledger.earnWrites)
	}

	// The retry skips the committed redemption and grants the earn once.
	done, err := svc.CompleteOrder(context.Background(), "cart", "save10", 200, 18, "order-1")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if ledger.redeemWrites != 1 || ledger.earnWrites != 1 {
		t.Fatalf("after retry: redeem=%d earn=%d, want 1/1", ledger.redeemWrites, ledger.earnWrites)
	}
	if done.Account.Available != 318 {
		t.Fatalf("available = %d, want 318", done.Account.Available)
	}
}

func TestCompleteOrderDuplicateConflicts(t *testing.T) {
	svc, _, _ := newTestService(demoItems(), 500)

	if _, err := svc.CompleteOrder(context.Background(), "cart", "", 0, 18, "order-dup"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.CompleteOrder(context.Background(), "cart", "", 0, 18, "order-dup")
	if !errors.Is(err, domain.ErrOrderAlreadyCompleted) {
		t.Fatalf("expected ErrOrderAlreadyCompleted, got %v", err)
	}
}

func totalsEqual(a, b domain.CheckoutTotals) bool {
	return a.Subtotal.Equal(b.Subtotal) &&
		a.DiscountAmount.Equal(b.DiscountAmount) &&
		a.PointsDiscount.Equal(b.PointsDiscount) &&
		a.ShippingCost.Equal(b.ShippingCost) &&
		a.Total.Equal(b.Total) &&
		a.PointsToRedeem == b.PointsToRedeem &&
		a.PointsToEarn == b.PointsToEarn
}
