package pos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektra-pos/elektra-pos/internal/customers"
	"github.com/elektra-pos/elektra-pos/internal/products"
	"github.com/elektra-pos/elektra-pos/internal/shared"
	_ "github.com/elektra-pos/elektra-pos/testing"
)

type mockRepository struct {
	transactions   []TransactionRecord
	details        []DetailRecord
	saleItems      []SaleItemRecord
	payments       []PaymentRecord
	orders         []ServiceOrderRecord
	serviceItems   []ServiceItemRecord
	serviceItemIDs []string
	assignments    []ServiceAssignmentRecord
	parts          []ServicePartRecord
	decrements     map[int64]int
	stock          map[int64]int
	slaTargets     map[string]int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		decrements: map[int64]int{},
		stock:      map[int64]int{},
		slaTargets: map[string]int{},
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) InsertTransaction(ctx context.Context, rec TransactionRecord) (string, error) {
	rec.ID = uuid.NewString()
	m.transactions = append(m.transactions, rec)
	return rec.ID, nil
}

func (m *mockRepository) InsertDetail(ctx context.Context, rec DetailRecord) (string, error) {
	m.details = append(m.details, rec)
	return uuid.NewString(), nil
}

func (m *mockRepository) InsertSaleItem(ctx context.Context, rec SaleItemRecord) error {
	m.saleItems = append(m.saleItems, rec)
	return nil
}

func (m *mockRepository) InsertPayment(ctx context.Context, rec PaymentRecord) error {
	m.payments = append(m.payments, rec)
	return nil
}

func (m *mockRepository) InsertServiceOrder(ctx context.Context, rec ServiceOrderRecord) (string, error) {
	m.orders = append(m.orders, rec)
	return uuid.NewString(), nil
}

func (m *mockRepository) InsertServiceItem(ctx context.Context, rec ServiceItemRecord) (string, error) {
	id := uuid.NewString()
	m.serviceItems = append(m.serviceItems, rec)
	m.serviceItemIDs = append(m.serviceItemIDs, id)
	return id, nil
}

func (m *mockRepository) InsertServiceAssignment(ctx context.Context, rec ServiceAssignmentRecord) error {
	m.assignments = append(m.assignments, rec)
	return nil
}

func (m *mockRepository) InsertServicePart(ctx context.Context, rec ServicePartRecord) error {
	m.parts = append(m.parts, rec)
	return nil
}

func (m *mockRepository) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	if m.stock[productID] < quantity {
		return products.ErrInsufficientStock
	}
	m.stock[productID] -= quantity
	m.decrements[productID] += quantity
	return nil
}

func (m *mockRepository) GetSLATargetHours(ctx context.Context, category string) (int, error) {
	hours, ok := m.slaTargets[category]
	if !ok {
		return 0, ErrSLAConfigNotFound
	}
	return hours, nil
}

type stubProducts struct {
	items map[int64]*products.Product
}

func (s *stubProducts) Get(ctx context.Context, id int64) (*products.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

type stubCustomers struct {
	items map[string]*customers.Customer
}

func (s *stubCustomers) Get(ctx context.Context, id string) (*customers.Customer, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

type testEnv struct {
	svc       *Service
	repo      *mockRepository
	products  *stubProducts
	customers *stubCustomers
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, _ := newTestStore(t, time.Hour)
	repo := newMockRepository()
	prods := &stubProducts{items: map[int64]*products.Product{}}
	custs := &stubCustomers{items: map[string]*customers.Customer{}}
	return &testEnv{
		svc:       NewService(store, repo, prods, custs, nil),
		repo:      repo,
		products:  prods,
		customers: custs,
	}
}

func (e *testEnv) addProduct(id int64, name string, sellPrice int64, stock int) {
	e.products.items[id] = &products.Product{
		ID: id, Name: name, SellPrice: sellPrice, CostPrice: sellPrice / 2,
		Stock: stock, IsActive: true,
	}
	e.repo.stock[id] = stock
}

func TestAddItemChecksCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(1, "MCB 10A", 60000, 3)

	inactive := &products.Product{ID: 2, Name: "Old Lamp", SellPrice: 10000, Stock: 5}
	env.products.items[2] = inactive

	draft, err := env.svc.CreateDraft(ctx)
	require.NoError(t, err)
	locID := draft.DefaultLocation().ID

	_, err = env.svc.AddItem(ctx, draft.ID, locID, 2, 1)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = env.svc.AddItem(ctx, draft.ID, locID, 1, 10)
	assert.ErrorIs(t, err, products.ErrInsufficientStock)

	got, err := env.svc.AddItem(ctx, draft.ID, locID, 1, 2)
	require.NoError(t, err)
	require.Len(t, got.DefaultLocation().Items, 1)
	assert.Equal(t, int64(120000), got.DefaultLocation().Items[0].Subtotal)
}

func TestSubmitRejectsEmptyDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.svc.CreateDraft(ctx)
	require.NoError(t, err)

	_, err = env.svc.Submit(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrEmptyDraft)
	assert.Empty(t, env.repo.transactions)
}

func TestSubmitRequiresTempoDueDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(1, "MCB 10A", 60000, 10)

	custID := uuid.NewString()
	env.customers.items[custID] = &customers.Customer{
		ID: custID, Name: "SDN 3 Karangrejo", Category: customers.CategoryInstitution,
	}

	draft, err := env.svc.CreateDraft(ctx)
	require.NoError(t, err)
	_, err = env.svc.AddItem(ctx, draft.ID, draft.DefaultLocation().ID, 1, 1)
	require.NoError(t, err)
	_, err = env.svc.SetCustomer(ctx, draft.ID, &custID)
	require.NoError(t, err)

	on := true
	_, err = env.svc.Update(ctx, draft.ID, UpdateDraftParams{IsTempo: &on})
	require.NoError(t, err)

	_, err = env.svc.Submit(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrTempoDueDateRequired)

	due := time.Now().AddDate(0, 1, 0)
	_, err = env.svc.Update(ctx, draft.ID, UpdateDraftParams{TempoDueDate: &due})
	require.NoError(t, err)

	txID, err := env.svc.Submit(ctx, draft.ID)
	require.NoError(t, err)
	require.NotEmpty(t, txID)

	rec := env.repo.transactions[0]
	assert.True(t, rec.IsTempo)
	assert.Equal(t, MethodTempo, rec.PaymentMethod)
	assert.Equal(t, int64(0), rec.PaidAmount)
	assert.Equal(t, StatusUnpaid, rec.PaymentStatus)
	assert.Empty(t, env.repo.payments, "tempo collects nothing at sale time")
}

func TestSubmitRetailSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := shared.ContextWithActor(context.Background(), shared.Actor{ID: "emp-1", Name: "Siti"})
	env.addProduct(1, "MCB 10A", 60000, 10)
	env.addProduct(2, "Lampu LED", 38000, 10)
	env.repo.slaTargets["tv"] = 96

	draft, err := env.svc.CreateDraft(ctx)
	require.NoError(t, err)
	locID := draft.DefaultLocation().ID

	_, err = env.svc.AddItem(ctx, draft.ID, locID, 1, 2)
	require.NoError(t, err)
	_, err = env.svc.AddService(ctx, draft.ID, locID, AddServiceParams{
		DeviceName:  "TV Samsung",
		LaborCost:   100000,
		SLACategory: "tv",
		Parts:       []ServicePartParams{{ProductID: 2, Quantity: 3}},
	})
	require.NoError(t, err)

	paid := int64(334000)
	_, err = env.svc.Update(ctx, draft.ID, UpdateDraftParams{PaidAmount: &paid})
	require.NoError(t, err)

	txID, err := env.svc.Submit(ctx, draft.ID)
	require.NoError(t, err)
	require.NotEmpty(t, txID)

	require.Len(t, env.repo.transactions, 1)
	rec := env.repo.transactions[0]
	assert.Equal(t, int64(334000), rec.TotalAmount)
	assert.Equal(t, StatusPaid, rec.PaymentStatus)
	assert.Equal(t, "emp-1", rec.CreatedBy)

	assert.Empty(t, env.repo.details, "retail sale has no location breakdown")
	require.Len(t, env.repo.saleItems, 1)
	assert.Nil(t, env.repo.saleItems[0].DetailID)

	require.Len(t, env.repo.orders, 1)
	assert.Equal(t, "pending", env.repo.orders[0].Status)
	require.Len(t, env.repo.serviceItems, 1)
	assert.NotNil(t, env.repo.serviceItems[0].SLADeadline)
	assert.Contains(t, env.repo.serviceItems[0].QRCode, "SVC-")
	require.Len(t, env.repo.parts, 1)
	assert.Equal(t, int64(114000), env.repo.parts[0].Subtotal)

	require.Len(t, env.repo.payments, 1)
	assert.Equal(t, int64(334000), env.repo.payments[0].Amount)

	assert.Equal(t, 2, env.repo.decrements[1])
	assert.Equal(t, 3, env.repo.decrements[2])

	_, err = env.svc.GetDraft(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSubmitQueuesTechnicianAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := shared.ContextWithActor(context.Background(), shared.Actor{ID: "emp-1", Name: "Siti"})

	draft, err := env.svc.CreateDraft(ctx)
	require.NoError(t, err)
	locID := draft.DefaultLocation().ID

	techID := int64(7)
	_, err = env.svc.AddService(ctx, draft.ID, locID, AddServiceParams{
		DeviceName:     "Kulkas Sharp",
		TechnicianID:   &techID,
		TechnicianName: "Budi",
		LaborCost:      150000,
	})
	require.NoError(t, err)
	_, err = env.svc.AddService(ctx, draft.ID, locID, AddServiceParams{
		DeviceName: "Printer Epson",
		LaborCost:  80000,
	})
	require.NoError(t, err)

	_, err = env.svc.Submit(ctx, draft.ID)
	require.NoError(t, err)

	require.Len(t, env.repo.serviceItems, 2)
	require.Len(t, env.repo.assignments, 1, "only the requested technician queues an assignment")

	a := env.repo.assignments[0]
	assert.Equal(t, env.repo.serviceItemIDs[0], a.ServiceItemID)
	assert.Equal(t, int64(7), a.TechnicianID)
	assert.Equal(t, "Siti", a.AssignedBy)
	assert.Equal(t, "pending_approval", a.Status)
}

func TestUpdateItemQuantityChecksStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(1, "MCB 10A", 60000, 5)

	draft, err := env.svc.CreateDraft(ctx)
	require.NoError(t, err)
	locID := draft.DefaultLocation().ID

	updated, err := env.svc.AddItem(ctx, draft.ID, locID, 1, 3)
	require.NoError(t, err)
	itemID := updated.Locations[0].Items[0].ID

	_, err = env.svc.UpdateItemQuantity(ctx, draft.ID, locID, itemID, 6)
	assert.ErrorIs(t, err, products.ErrInsufficientStock)

	updated, err = env.svc.UpdateItemQuantity(ctx, draft.ID, locID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Locations[0].Items[0].Quantity)
}

func TestSubmitProjectWritesLocationDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(1, "Kabel NYM", 15000, 100)

	draft, err := env.svc.CreateDraft(ctx)
	require.NoError(t, err)

	project := TypeProject
	name := "Instalasi Kantor"
	_, err = env.svc.Update(ctx, draft.ID, UpdateDraftParams{Type: &project, ProjectName: &name})
	require.NoError(t, err)

	updated, err := env.svc.AddLocation(ctx, draft.ID, "Lantai 2", "ruang rapat")
	require.NoError(t, err)
	first := updated.Locations[0].ID
	second := updated.Locations[1].ID

	_, err = env.svc.AddItem(ctx, draft.ID, first, 1, 10)
	require.NoError(t, err)
	_, err = env.svc.AddItem(ctx, draft.ID, second, 1, 20)
	require.NoError(t, err)

	_, err = env.svc.Submit(ctx, draft.ID)
	require.NoError(t, err)

	require.Len(t, env.repo.details, 2)
	assert.Equal(t, int64(150000), env.repo.details[0].Subtotal)
	assert.Equal(t, int64(300000), env.repo.details[1].Subtotal)

	require.Len(t, env.repo.saleItems, 2)
	assert.NotNil(t, env.repo.saleItems[0].DetailID)
	assert.NotNil(t, env.repo.saleItems[1].DetailID)

	// one aggregated decrement across both locations
	assert.Equal(t, 30, env.repo.decrements[1])
}

func TestStockDecrementsAggregatePerProduct(t *testing.T) {
	d := NewDraft()
	locID := d.DefaultLocation().ID
	require.NoError(t, d.AddItem(locID, 1, "Kabel", 10000, 8000, 2))
	require.NoError(t, d.AddService(locID, ServiceItemInput{
		DeviceName: "AC Daikin",
		LaborCost:  50000,
		Parts: []CartItem{
			{ProductID: 1, Quantity: 3, Subtotal: 30000},
			{ProductID: 2, Quantity: 1, Subtotal: 85000},
		},
	}))

	decs := stockDecrements(d)
	require.Len(t, decs, 2)
	assert.Equal(t, decrement{productID: 1, quantity: 5}, decs[0])
	assert.Equal(t, decrement{productID: 2, quantity: 1}, decs[1])
}
