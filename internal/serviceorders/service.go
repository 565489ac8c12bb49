package serviceorders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elektra-pos/elektra-pos/internal/employees"
	"github.com/elektra-pos/elektra-pos/internal/pos"
	"github.com/elektra-pos/elektra-pos/internal/products"
	"github.com/elektra-pos/elektra-pos/internal/shared"
)

var (
	ErrDeviceNameRequired      = errors.New("serviceorders: device name is required")
	ErrItemTerminal            = errors.New("serviceorders: item is already completed or cancelled")
	ErrAssignmentNotPending    = errors.New("serviceorders: assignment is not pending approval")
	ErrTechnicianUnavailable   = errors.New("serviceorders: technician cannot take new work")
	ErrTechnicianAlreadyOnItem = errors.New("serviceorders: technician already assigned to item")
)

// ProductsPort resolves catalog rows when parts are consumed.
type ProductsPort interface {
	Get(ctx context.Context, id int64) (*products.Product, error)
}

// EmployeesPort resolves technicians for assignments.
type EmployeesPort interface {
	Get(ctx context.Context, id int64) (*employees.Employee, error)
}

// AuditPort records who did what.
type AuditPort interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

type Service struct {
	repo      Repository
	products  ProductsPort
	employees EmployeesPort
	audit     AuditPort
	now       func() time.Time
}

func NewService(repo Repository, products ProductsPort, employees EmployeesPort, audit AuditPort) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		employees: employees,
		audit:     audit,
		now:       time.Now,
	}
}

type CreateItemParams struct {
	DeviceName   string
	DeviceSerial string
	Description  string
	LaborCost    int64
	SLACategory  string
	TechnicianID *int64
}

type CreateParams struct {
	CustomerID  *string
	Description string
	Items       []CreateItemParams
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]ServiceOrder, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (*ServiceOrder, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) GetItem(ctx context.Context, itemID string) (*ServiceItem, error) {
	return s.repo.GetItem(ctx, itemID)
}

// Create opens a repair order with its items in one transaction. Each item
// gets a QR code and, when its category has a configured target, an SLA
// deadline counted from now. A requested technician produces a
// pending_approval assignment rather than a direct claim.
func (s *Service) Create(ctx context.Context, params CreateParams) (string, error) {
	if len(params.Items) == 0 {
		return "", fmt.Errorf("service order needs at least one item: %w", shared.ErrValidation)
	}
	for _, item := range params.Items {
		if strings.TrimSpace(item.DeviceName) == "" {
			return "", ErrDeviceNameRequired
		}
		if item.LaborCost < 0 {
			return "", fmt.Errorf("labor cost cannot be negative: %w", shared.ErrValidation)
		}
	}

	actor := shared.ActorFromContext(ctx)
	now := s.now()

	var orderID string
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var desc *string
		if d := strings.TrimSpace(params.Description); d != "" {
			desc = &d
		}
		id, err := tx.InsertOrder(ctx, ServiceOrder{
			CustomerID:  params.CustomerID,
			Status:      StatusPending,
			Description: desc,
			CreatedBy:   actor.Name,
		})
		if err != nil {
			return err
		}
		orderID = id

		for _, item := range params.Items {
			var deadline *time.Time
			if item.SLACategory != "" {
				hours, err := tx.GetSLATargetHours(ctx, item.SLACategory)
				switch {
				case errors.Is(err, ErrSLAConfigNotFound):
					// no configured target, item runs without a deadline
				case err != nil:
					return err
				default:
					d := now.Add(time.Duration(hours) * time.Hour)
					deadline = &d
				}
			}

			rec := ServiceItem{
				OrderID:    id,
				DeviceName: strings.TrimSpace(item.DeviceName),
				LaborCost:  item.LaborCost,
				Status:     StatusPending,
				QRCode:     fmt.Sprintf("SVC-%.8s-%d", id, now.Unix()),
			}
			if v := strings.TrimSpace(item.DeviceSerial); v != "" {
				rec.DeviceSerial = &v
			}
			if v := strings.TrimSpace(item.Description); v != "" {
				rec.Description = &v
			}
			if item.SLACategory != "" {
				cat := item.SLACategory
				rec.SLACategory = &cat
			}
			rec.SLADeadline = deadline

			itemID, err := tx.InsertItem(ctx, rec)
			if err != nil {
				return err
			}

			if item.TechnicianID != nil {
				if _, err := tx.InsertAssignment(ctx, Assignment{
					ServiceItemID: itemID,
					TechnicianID:  *item.TechnicianID,
					AssignedBy:    actor.Name,
					Status:        AssignmentPending,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "serviceorders.create",
			Entity:   "service_order",
			EntityID: orderID,
		})
	}
	return orderID, nil
}

type UpdateItemStatusParams struct {
	Status    ServiceStatus
	Diagnosis string
}

// UpdateItemStatus moves one item through its lifecycle. Completion stamps
// the finish time and, when past the deadline, the breach flag. The parent
// order status is re-derived from all sibling items, and a technician
// leaving the active set gives back a workload slot. All of it lands in a
// single transaction.
func (s *Service) UpdateItemStatus(ctx context.Context, itemID string, params UpdateItemStatusParams) (*ServiceItem, error) {
	if !params.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", params.Status, shared.ErrValidation)
	}

	now := s.now()
	var updated *ServiceItem
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := tx.GetItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if !CanTransition(item.Status, params.Status) {
			return fmt.Errorf("%s -> %s: %w", item.Status, params.Status, ErrInvalidTransition)
		}

		var completedAt *time.Time
		breached := false
		if params.Status == StatusCompleted {
			completedAt = &now
			breached = item.SLADeadline != nil && now.After(*item.SLADeadline)
		}

		if err := tx.UpdateItemStatus(ctx, itemID, params.Status, completedAt, breached); err != nil {
			return err
		}
		if d := strings.TrimSpace(params.Diagnosis); d != "" {
			if err := tx.UpdateItemDiagnosis(ctx, itemID, d); err != nil {
				return err
			}
		}

		if params.Status.Terminal() && item.TechnicianID != nil {
			if err := tx.AdjustTechnicianWorkload(ctx, *item.TechnicianID, -1); err != nil {
				return err
			}
		}

		siblings, err := tx.ListItemsByOrder(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if err := tx.UpdateOrderStatus(ctx, item.OrderID, AggregateStatus(siblings)); err != nil {
			return err
		}

		item.Status = params.Status
		item.CompletedAt = completedAt
		item.IsSLABreached = item.IsSLABreached || breached
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		actor := shared.ActorFromContext(ctx)
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "serviceorders.item_status",
			Entity:   "service_item",
			EntityID: itemID,
			Meta:     map[string]any{"status": params.Status},
		})
	}
	return updated, nil
}

// AssignTechnician proposes a technician for an item. The proposal sits in
// pending_approval until someone approves or rejects it.
func (s *Service) AssignTechnician(ctx context.Context, itemID string, technicianID int64) (string, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}
	if item.Status.Terminal() {
		return "", ErrItemTerminal
	}
	if item.TechnicianID != nil && *item.TechnicianID == technicianID {
		return "", ErrTechnicianAlreadyOnItem
	}

	tech, err := s.employees.Get(ctx, technicianID)
	if err != nil {
		return "", err
	}
	if !tech.AcceptsWork() {
		return "", ErrTechnicianUnavailable
	}

	actor := shared.ActorFromContext(ctx)
	var assignmentID string
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertAssignment(ctx, Assignment{
			ServiceItemID: itemID,
			TechnicianID:  technicianID,
			AssignedBy:    actor.Name,
			Status:        AssignmentPending,
		})
		assignmentID = id
		return err
	})
	return assignmentID, err
}

// ApproveAssignment confirms a pending assignment: the item is claimed for
// the technician and their workload counter goes up by one, atomically at
// the store.
func (s *Service) ApproveAssignment(ctx context.Context, assignmentID string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		a, err := tx.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a.Status != AssignmentPending {
			return ErrAssignmentNotPending
		}
		if err := tx.UpdateAssignmentStatus(ctx, assignmentID, AssignmentApproved, ""); err != nil {
			return err
		}
		if err := tx.SetItemTechnician(ctx, a.ServiceItemID, a.TechnicianID); err != nil {
			return err
		}
		return tx.AdjustTechnicianWorkload(ctx, a.TechnicianID, 1)
	})
}

func (s *Service) RejectAssignment(ctx context.Context, assignmentID, reason string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		a, err := tx.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a.Status != AssignmentPending {
			return ErrAssignmentNotPending
		}
		return tx.UpdateAssignmentStatus(ctx, assignmentID, AssignmentRejected, strings.TrimSpace(reason))
	})
}

// AddPart consumes a catalog product on an item: the part row and the stock
// decrement land in the same transaction.
func (s *Service) AddPart(ctx context.Context, itemID string, productID int64, quantity int) (*ServicePart, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status.Terminal() {
		return nil, ErrItemTerminal
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	subtotal, err := pos.ItemSubtotal(product.SellPrice, quantity)
	if err != nil {
		return nil, err
	}

	part := ServicePart{
		ServiceItemID: itemID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Quantity:      quantity,
		UnitPrice:     product.SellPrice,
		Subtotal:      subtotal,
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.InsertPart(ctx, part); err != nil {
			return err
		}
		return tx.DecrementStock(ctx, productID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return &part, nil
}

// ScanOverdue flags non-terminal items whose deadline has passed. The flag
// is one-way; items already flagged are skipped.
func (s *Service) ScanOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.repo.ListOverdueItems(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(overdue) == 0 {
		return 0, nil
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		for _, item := range overdue {
			if err := tx.MarkSLABreached(ctx, item.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(overdue), nil
}
