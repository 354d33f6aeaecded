package orders

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	orderstore "github.com/dalemusser/hekto/internal/app/store/orders"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/hekto/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memOrders struct {
	mu       sync.Mutex
	items    map[primitive.ObjectID]models.Order
	conflict bool
}

func newMemOrders(os ...models.Order) *memOrders {
	s := &memOrders{items: map[primitive.ObjectID]models.Order{}}
	for _, o := range os {
		s.items[o.ID] = o
	}
	return s
}

func (s *memOrders) List(_ context.Context, status string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.items {
		if status == orderflow.FilterAll || orderflow.Current(o.Status) == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memOrders) GetByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok {
		return models.Order{}, orderstore.ErrNotFound
	}
	return o, nil
}

func (s *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to, by string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok {
		return models.Order{}, orderstore.ErrNotFound
	}
	if s.conflict || orderflow.Current(o.Status) != from {
		return models.Order{}, orderstore.ErrStatusConflict
	}
	o.StatusHistory = append(o.StatusHistory, models.StatusChange{From: o.Status, To: to, ChangedBy: by, ChangedAt: time.Now()})
	o.Status = to
	s.items[id] = o
	return o, nil
}

func (s *memOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return orderstore.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type memProducts struct {
	items []models.Product
	err   error
}

func (m memProducts) GetByIDs(context.Context, []primitive.ObjectID) ([]models.Product, error) {
	return m.items, m.err
}

func newTestHandler(store *memOrders, products productLookup) (*Handler, *testutil.RenderRecorder) {
	errLog := &uierrors.ErrorLogger{Log: zap.NewNop(), Render: uierrors.PlainText}
	h := NewHandler(store, products, func(rel string) string {
		if rel == "" {
			return ""
		}
		return "/uploads/" + rel
	}, errLog, zap.NewNop())
	rr := &testutil.RenderRecorder{}
	h.Render = rr.Render
	return h, rr
}

func statusRequest(id string, form url.Values) *http.Request {
	return testutil.WithChiURLParam(testutil.NewFormRequest("/admin/orders/"+id+"/status", form), "id", id)
}

/*─────────────────────────────────────────────────────────────────────────────*
| list                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func TestServeList_TabsAndFilter(t *testing.T) {
	now := time.Now()
	store := newMemOrders(
		testutil.Order(models.OrderPending, 10, now),
		testutil.Order("", 20, now),
		testutil.Order("dispatch", 30, now),
		testutil.Order(models.OrderCancelled, 40, now),
	)
	h, rr := newTestHandler(store, nil)

	h.ServeList(testutil.NewRecorder(), testutil.NewAdminRequest(http.MethodGet, "/admin/orders?status=Pending"))

	data := rr.Last().Data.(listData)
	assert.Equal(t, models.OrderPending, data.Filter)
	assert.Len(t, data.Rows, 2)
	require.Len(t, data.Tabs, 5)

	counts := map[string]int{}
	for _, tab := range data.Tabs {
		counts[tab.Value] = tab.Count
		assert.Equal(t, tab.Value == models.OrderPending, tab.Active, tab.Value)
	}
	assert.Equal(t, map[string]int{"all": 4, "pending": 2, "shipped": 1, "delivered": 0, "cancelled": 1}, counts)
}

func TestServeList_RowNextStatuses(t *testing.T) {
	o := testutil.Order(models.OrderShipped, 99.5, time.Now())
	h, rr := newTestHandler(newMemOrders(o), nil)

	h.ServeList(testutil.NewRecorder(), testutil.NewAdminRequest(http.MethodGet, "/admin/orders"))

	rows := rr.Last().Data.(listData).Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "$99.50", rows[0].Total)
	assert.Equal(t, []statusOption{{"delivered", "Delivered"}, {"cancelled", "Cancelled"}}, rows[0].Next)
}

func TestServeList_BadFilterRedirects(t *testing.T) {
	h, rr := newTestHandler(newMemOrders(), nil)

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAdminRequest(http.MethodGet, "/admin/orders?status=lost"))

	rec.AssertRedirect(t, "/admin/orders?flash=bad_filter")
	assert.Empty(t, rr.Calls)
}

/*─────────────────────────────────────────────────────────────────────────────*
| detail                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func TestServeDetail(t *testing.T) {
	productID := primitive.NewObjectID()
	o := testutil.Order(models.OrderPending, 150, time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC))
	o.Discount = 10
	o.CardLast4 = "4242"
	o.CartItems = []models.CartItem{
		{ProductID: productID, Name: "Comfy Chair", Price: 50, Quantity: 2},
		{Name: "Cushion", Price: 60, ImagePath: "products/cushion.png"},
	}
	products := memProducts{items: []models.Product{{ID: productID, ImagePath: "products/chair.png"}}}
	h, rr := newTestHandler(newMemOrders(o), products)

	req := testutil.WithChiURLParam(testutil.NewAdminRequest(http.MethodGet, "/admin/orders/"+o.ID.Hex()), "id", o.ID.Hex())
	h.ServeDetail(testutil.NewRecorder(), req)

	data := rr.Last().Data.(detailData)
	assert.Equal(t, "$160.00", data.Subtotal)
	assert.Equal(t, "$10.00", data.Discount)
	assert.Equal(t, "4242", data.CardLast4)
	assert.False(t, data.Terminal)
	require.Len(t, data.Items, 2)
	assert.Equal(t, "/uploads/products/chair.png", data.Items[0].ImageURL)
	assert.Equal(t, "$100.00", data.Items[0].Subtotal)
	assert.Equal(t, "/uploads/products/cushion.png", data.Items[1].ImageURL)
	assert.Equal(t, 1, data.Items[1].Quantity)
}

func TestServeDetail_ProductLookupFailureStillRenders(t *testing.T) {
	o := testutil.Order(models.OrderDelivered, 10, time.Now())
	o.CartItems[0].ProductID = primitive.NewObjectID()
	h, rr := newTestHandler(newMemOrders(o), memProducts{err: errors.New("boom")})

	req := testutil.WithChiURLParam(testutil.NewAdminRequest(http.MethodGet, "/"), "id", o.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeDetail(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	data := rr.Last().Data.(detailData)
	assert.True(t, data.Terminal)
	assert.Empty(t, data.Next)
	assert.Equal(t, "", data.Items[0].ImageURL)
}

func TestServeDetail_BadIDAndMissing(t *testing.T) {
	h, _ := newTestHandler(newMemOrders(), nil)

	rec := testutil.NewRecorder()
	h.ServeDetail(rec, testutil.WithChiURLParam(testutil.NewAdminRequest(http.MethodGet, "/"), "id", "zzz"))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = testutil.NewRecorder()
	h.ServeDetail(rec, testutil.WithChiURLParam(testutil.NewAdminRequest(http.MethodGet, "/"), "id", primitive.NewObjectID().Hex()))
	rec.AssertStatus(t, http.StatusNotFound)
}

/*─────────────────────────────────────────────────────────────────────────────*
| status                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func TestHandleStatus_Updates(t *testing.T) {
	o := testutil.Order(models.OrderPending, 10, time.Now())
	store := newMemOrders(o)
	h, _ := newTestHandler(store, nil)

	rec := testutil.NewRecorder()
	h.HandleStatus(rec, statusRequest(o.ID.Hex(), url.Values{
		"status": {"dispatch"},
		"return": {"/admin/orders?status=pending&flash=status_updated"},
	}))

	rec.AssertRedirect(t, "/admin/orders?status=pending&flash=status_updated")
	got, _ := store.GetByID(context.Background(), o.ID)
	assert.Equal(t, models.OrderShipped, got.Status)
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, "admin@example.com", got.StatusHistory[0].ChangedBy)
}

func TestHandleStatus_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		to       string
		conflict bool
		want     string
	}{
		{"unchanged", models.OrderShipped, "shipped", false, "status_unchanged"},
		{"terminal rejected", models.OrderDelivered, "cancelled", false, "status_rejected"},
		{"skip rejected", models.OrderPending, "delivered", false, "status_rejected"},
		{"concurrent change", models.OrderPending, "shipped", true, "status_conflict"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := testutil.Order(tc.stored, 10, time.Now())
			store := newMemOrders(o)
			store.conflict = tc.conflict
			h, _ := newTestHandler(store, nil)

			rec := testutil.NewRecorder()
			h.HandleStatus(rec, statusRequest(o.ID.Hex(), url.Values{"status": {tc.to}}))

			rec.AssertRedirect(t, "/admin/orders/"+o.ID.Hex()+"?flash="+tc.want)
			got, _ := store.GetByID(context.Background(), o.ID)
			assert.Equal(t, tc.stored, got.Status)
		})
	}
}

func TestHandleStatus_Errors(t *testing.T) {
	o := testutil.Order(models.OrderPending, 10, time.Now())
	h, _ := newTestHandler(newMemOrders(o), nil)

	rec := testutil.NewRecorder()
	h.HandleStatus(rec, statusRequest(o.ID.Hex(), url.Values{"status": {"lost"}}))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = testutil.NewRecorder()
	h.HandleStatus(rec, statusRequest(primitive.NewObjectID().Hex(), url.Values{"status": {"shipped"}}))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	h.HandleStatus(rec, statusRequest("bad", url.Values{"status": {"shipped"}}))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleStatus_EmptyStatusIsNoop(t *testing.T) {
	o := testutil.Order(models.OrderPending, 10, time.Now())
	h, _ := newTestHandler(newMemOrders(o), nil)

	rec := testutil.NewRecorder()
	h.HandleStatus(rec, statusRequest(o.ID.Hex(), url.Values{"return": {"/admin/orders"}}))

	rec.AssertRedirect(t, "/admin/orders")
}

func TestReturnTarget(t *testing.T) {
	fb := "/admin/orders/abc"
	assert.Equal(t, fb, returnTarget("", fb))
	assert.Equal(t, fb, returnTarget("https://evil.example/admin/orders", fb))
	assert.Equal(t, fb, returnTarget("//evil.example/admin/orders", fb))
	assert.Equal(t, fb, returnTarget("/admin/products", fb))
	assert.Equal(t, "/admin/orders?status=shipped", returnTarget("/admin/orders?status=shipped&flash=x", fb))
}

/*─────────────────────────────────────────────────────────────────────────────*
| delete                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func TestHandleDelete_Idempotent(t *testing.T) {
	o := testutil.Order(models.OrderPending, 10, time.Now())
	store := newMemOrders(o)
	h, _ := newTestHandler(store, nil)

	for range 2 {
		rec := testutil.NewRecorder()
		req := testutil.WithChiURLParam(testutil.NewFormRequest("/admin/orders/x/delete", nil), "id", o.ID.Hex())
		h.HandleDelete(rec, req)
		rec.AssertRedirect(t, "/admin/orders?flash=order_deleted")
	}
	_, err := store.GetByID(context.Background(), o.ID)
	assert.ErrorIs(t, err, orderstore.ErrNotFound)
}

func TestHandleDelete_HTMX(t *testing.T) {
	o := testutil.Order(models.OrderPending, 10, time.Now())
	h, _ := newTestHandler(newMemOrders(o), nil)

	req := testutil.WithChiURLParam(testutil.NewFormRequest("/admin/orders/x/delete", nil), "id", o.ID.Hex())
	req.Header.Set("HX-Request", "true")
	rec := testutil.NewRecorder()
	h.HandleDelete(rec, req)

	rec.AssertStatus(t, http.StatusNoContent)
	assert.Equal(t, "/admin/orders?flash=order_deleted", rec.Header().Get("HX-Redirect"))
}
