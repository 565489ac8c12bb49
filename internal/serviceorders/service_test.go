package serviceorders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektra-pos/elektra-pos/internal/employees"
	"github.com/elektra-pos/elektra-pos/internal/products"
	"github.com/elektra-pos/elektra-pos/internal/shared"
)

type memoryRepo struct {
	orders      map[string]*ServiceOrder
	items       map[string]*ServiceItem
	assignments map[string]*Assignment
	workloads   map[int64]int
	stock       map[int64]int
	slaTargets  map[string]int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		orders:      map[string]*ServiceOrder{},
		items:       map[string]*ServiceItem{},
		assignments: map[string]*Assignment{},
		workloads:   map[int64]int{},
		stock:       map[int64]int{},
		slaTargets:  map[string]int{},
	}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) List(ctx context.Context, f ListFilters) ([]ServiceOrder, int, error) {
	out := make([]ServiceOrder, 0)
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetOrder(ctx context.Context, id string) (*ServiceOrder, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memoryRepo) GetItem(ctx context.Context, itemID string) (*ServiceItem, error) {
	it, ok := m.items[itemID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memoryRepo) ListOverdueItems(ctx context.Context, now time.Time) ([]ServiceItem, error) {
	out := make([]ServiceItem, 0)
	for _, it := range m.items {
		if !it.Status.Terminal() && !it.IsSLABreached && it.SLADeadline != nil && it.SLADeadline.Before(now) {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memoryRepo) CountActiveByTechnician(ctx context.Context) (map[int64]int, error) {
	counts := map[int64]int{}
	for _, it := range m.items {
		if it.TechnicianID != nil && !it.Status.Terminal() {
			counts[*it.TechnicianID]++
		}
	}
	return counts, nil
}

func (m *memoryRepo) CountPendingOrders(ctx context.Context) (int, error) {
	n := 0
	for _, o := range m.orders {
		if o.Status == StatusPending || o.Status == StatusInProgress {
			n++
		}
	}
	return n, nil
}

func (m *memoryRepo) InsertOrder(ctx context.Context, o ServiceOrder) (string, error) {
	o.ID = uuid.NewString()
	m.orders[o.ID] = &o
	return o.ID, nil
}

func (m *memoryRepo) InsertItem(ctx context.Context, item ServiceItem) (string, error) {
	item.ID = uuid.NewString()
	m.items[item.ID] = &item
	return item.ID, nil
}

func (m *memoryRepo) InsertPart(ctx context.Context, part ServicePart) error {
	it, ok := m.items[part.ServiceItemID]
	if !ok {
		return shared.ErrNotFound
	}
	part.ID = uuid.NewString()
	it.Parts = append(it.Parts, part)
	return nil
}

func (m *memoryRepo) InsertAssignment(ctx context.Context, a Assignment) (string, error) {
	a.ID = uuid.NewString()
	m.assignments[a.ID] = &a
	return a.ID, nil
}

func (m *memoryRepo) GetItemForUpdate(ctx context.Context, itemID string) (*ServiceItem, error) {
	return m.GetItem(ctx, itemID)
}

func (m *memoryRepo) ListItemsByOrder(ctx context.Context, orderID string) ([]ServiceItem, error) {
	out := make([]ServiceItem, 0)
	for _, it := range m.items {
		if it.OrderID == orderID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memoryRepo) UpdateItemStatus(ctx context.Context, itemID string, status ServiceStatus, completedAt *time.Time, slaBreached bool) error {
	it, ok := m.items[itemID]
	if !ok {
		return shared.ErrNotFound
	}
	it.Status = status
	it.CompletedAt = completedAt
	it.IsSLABreached = it.IsSLABreached || slaBreached
	return nil
}

func (m *memoryRepo) UpdateItemDiagnosis(ctx context.Context, itemID, diagnosis string) error {
	it, ok := m.items[itemID]
	if !ok {
		return shared.ErrNotFound
	}
	it.Diagnosis = &diagnosis
	return nil
}

func (m *memoryRepo) SetItemTechnician(ctx context.Context, itemID string, technicianID int64) error {
	it, ok := m.items[itemID]
	if !ok {
		return shared.ErrNotFound
	}
	it.TechnicianID = &technicianID
	return nil
}

func (m *memoryRepo) UpdateOrderStatus(ctx context.Context, orderID string, status ServiceStatus) error {
	o, ok := m.orders[orderID]
	if !ok {
		return shared.ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *memoryRepo) GetAssignment(ctx context.Context, id string) (*Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memoryRepo) UpdateAssignmentStatus(ctx context.Context, id string, status AssignmentStatus, reason string) error {
	a, ok := m.assignments[id]
	if !ok {
		return shared.ErrNotFound
	}
	a.Status = status
	if reason != "" {
		a.Reason = &reason
	}
	return nil
}

func (m *memoryRepo) AdjustTechnicianWorkload(ctx context.Context, technicianID int64, delta int) error {
	m.workloads[technicianID] += delta
	if m.workloads[technicianID] < 0 {
		m.workloads[technicianID] = 0
	}
	return nil
}

func (m *memoryRepo) MarkSLABreached(ctx context.Context, itemID string) error {
	it, ok := m.items[itemID]
	if !ok {
		return shared.ErrNotFound
	}
	it.IsSLABreached = true
	return nil
}

func (m *memoryRepo) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	if m.stock[productID] < quantity {
		return products.ErrInsufficientStock
	}
	m.stock[productID] -= quantity
	return nil
}

func (m *memoryRepo) GetSLATargetHours(ctx context.Context, category string) (int, error) {
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

type stubEmployees struct {
	items map[int64]*employees.Employee
}

func (s *stubEmployees) Get(ctx context.Context, id int64) (*employees.Employee, error) {
	e, ok := s.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo,
		&stubProducts{items: map[int64]*products.Product{}},
		&stubEmployees{items: map[int64]*employees.Employee{}},
		nil)
}

func TestCreateAssignsSLADeadlineAndQRCode(t *testing.T) {
	repo := newMemoryRepo()
	repo.slaTargets["laptop"] = 48
	svc := newTestService(repo)

	fixed := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	orderID, err := svc.Create(context.Background(), CreateParams{
		Items: []CreateItemParams{
			{DeviceName: "Asus ROG", LaborCost: 150000, SLACategory: "laptop"},
			{DeviceName: "Printer Epson", LaborCost: 50000},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	items, err := repo.ListItemsByOrder(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, it := range items {
		assert.Equal(t, StatusPending, it.Status)
		assert.Equal(t, fmt.Sprintf("SVC-%.8s-%d", orderID, fixed.Unix()), it.QRCode)
		switch it.DeviceName {
		case "Asus ROG":
			require.NotNil(t, it.SLADeadline)
			assert.Equal(t, fixed.Add(48*time.Hour), *it.SLADeadline)
		case "Printer Epson":
			assert.Nil(t, it.SLADeadline)
		}
	}
}

func TestCreateRequiresDeviceName(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	_, err := svc.Create(context.Background(), CreateParams{
		Items: []CreateItemParams{{DeviceName: "   "}},
	})
	assert.ErrorIs(t, err, ErrDeviceNameRequired)
}

func seedItem(repo *memoryRepo, status ServiceStatus, technicianID *int64, deadline *time.Time) (string, string) {
	orderID, _ := repo.InsertOrder(context.Background(), ServiceOrder{Status: StatusPending})
	itemID, _ := repo.InsertItem(context.Background(), ServiceItem{
		OrderID:      orderID,
		DeviceName:   "TV Samsung",
		Status:       status,
		TechnicianID: technicianID,
		SLADeadline:  deadline,
	})
	return orderID, itemID
}

func TestUpdateItemStatusRejectsInvalidTransition(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	_, itemID := seedItem(repo, StatusPending, nil, nil)

	_, err := svc.UpdateItemStatus(context.Background(), itemID, UpdateItemStatusParams{Status: StatusCompleted})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateItemStatusCompletionStampsBreach(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	now := time.Date(2026, 2, 12, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	past := now.Add(-time.Hour)
	_, lateID := seedItem(repo, StatusInProgress, nil, &past)
	future := now.Add(time.Hour)
	_, earlyID := seedItem(repo, StatusInProgress, nil, &future)

	late, err := svc.UpdateItemStatus(context.Background(), lateID, UpdateItemStatusParams{Status: StatusCompleted})
	require.NoError(t, err)
	assert.True(t, late.IsSLABreached)
	require.NotNil(t, late.CompletedAt)
	assert.Equal(t, now, *late.CompletedAt)

	early, err := svc.UpdateItemStatus(context.Background(), earlyID, UpdateItemStatusParams{Status: StatusCompleted})
	require.NoError(t, err)
	assert.False(t, early.IsSLABreached)
}

func TestUpdateItemStatusRecomputesParentAndWorkload(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	techID := int64(7)
	repo.workloads[techID] = 2
	orderID, itemID := seedItem(repo, StatusInProgress, &techID, nil)

	_, err := svc.UpdateItemStatus(context.Background(), itemID, UpdateItemStatusParams{Status: StatusCompleted})
	require.NoError(t, err)

	order, err := repo.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, order.Status)
	assert.Equal(t, 1, repo.workloads[techID])
}

func TestApproveAssignmentClaimsItemAndWorkload(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	_, itemID := seedItem(repo, StatusPending, nil, nil)

	assignmentID, err := repo.InsertAssignment(context.Background(), Assignment{
		ServiceItemID: itemID,
		TechnicianID:  3,
		Status:        AssignmentPending,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ApproveAssignment(context.Background(), assignmentID))

	item, err := repo.GetItem(context.Background(), itemID)
	require.NoError(t, err)
	require.NotNil(t, item.TechnicianID)
	assert.Equal(t, int64(3), *item.TechnicianID)
	assert.Equal(t, 1, repo.workloads[3])

	err = svc.ApproveAssignment(context.Background(), assignmentID)
	assert.ErrorIs(t, err, ErrAssignmentNotPending)
}

func TestAssignTechnicianChecksEligibility(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	_, itemID := seedItem(repo, StatusPending, nil, nil)

	stub := svc.employees.(*stubEmployees)
	stub.items[9] = &employees.Employee{ID: 9, IsAvailable: false, MaxWorkload: 5}

	_, err := svc.AssignTechnician(context.Background(), itemID, 9)
	assert.ErrorIs(t, err, ErrTechnicianUnavailable)

	stub.items[9].IsAvailable = true
	id, err := svc.AssignTechnician(context.Background(), itemID, 9)
	require.NoError(t, err)
	assert.Equal(t, AssignmentPending, repo.assignments[id].Status)
}

func TestAddPartDecrementsStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[11] = 3
	svc := newTestService(repo)
	_, itemID := seedItem(repo, StatusInProgress, nil, nil)

	stub := svc.products.(*stubProducts)
	stub.items[11] = &products.Product{ID: 11, Name: "Kapasitor", SellPrice: 25000, Stock: 3}

	part, err := svc.AddPart(context.Background(), itemID, 11, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), part.Subtotal)
	assert.Equal(t, 1, repo.stock[11])

	_, err = svc.AddPart(context.Background(), itemID, 11, 2)
	assert.ErrorIs(t, err, products.ErrInsufficientStock)
}

func TestScanOverdueFlagsOnlyPastNonTerminal(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	now := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)
	past := now.Add(-2 * time.Hour)
	future := now.Add(2 * time.Hour)

	_, overdueID := seedItem(repo, StatusInProgress, nil, &past)
	_, onTimeID := seedItem(repo, StatusInProgress, nil, &future)
	_, doneID := seedItem(repo, StatusCompleted, nil, &past)

	flagged, err := svc.ScanOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)

	assert.True(t, repo.items[overdueID].IsSLABreached)
	assert.False(t, repo.items[onTimeID].IsSLABreached)
	assert.False(t, repo.items[doneID].IsSLABreached)
}
