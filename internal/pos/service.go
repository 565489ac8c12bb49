package pos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elektra-pos/elektra-pos/internal/customers"
	"github.com/elektra-pos/elektra-pos/internal/products"
	"github.com/elektra-pos/elektra-pos/internal/shared"
)

var (
	// ErrEmptyDraft blocks submission of zero-total drafts. A zero-amount
	// sale is treated as an empty cart, not a valid paid transaction.
	ErrEmptyDraft = errors.New("pos: draft has no billable items")
	// ErrTempoDueDateRequired blocks tempo submissions without a due date.
	ErrTempoDueDateRequired = errors.New("pos: tempo requires a due date")
)

// ProductsPort is the slice of the products service the POS needs.
type ProductsPort interface {
	Get(ctx context.Context, id int64) (*products.Product, error)
}

// CustomersPort resolves customer records for drafts.
type CustomersPort interface {
	Get(ctx context.Context, id string) (*customers.Customer, error)
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns the draft lifecycle: create, mutate, summarize, submit.
type Service struct {
	drafts   *DraftStore
	repo     Repository
	products ProductsPort
	custs    CustomersPort
	audit    AuditPort
}

// NewService builds the POS service.
func NewService(drafts *DraftStore, repo Repository, productsPort ProductsPort, customersPort CustomersPort, audit AuditPort) *Service {
	return &Service{drafts: drafts, repo: repo, products: productsPort, custs: customersPort, audit: audit}
}

// CreateDraft starts an empty retail draft with one default location.
func (s *Service) CreateDraft(ctx context.Context) (*TransactionDraft, error) {
	draft := NewDraft()
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft loads a draft.
func (s *Service) GetDraft(ctx context.Context, id string) (*TransactionDraft, error) {
	return s.drafts.Load(ctx, id)
}

// DiscardDraft drops a draft without persisting anything.
func (s *Service) DiscardDraft(ctx context.Context, id string) error {
	return s.drafts.Delete(ctx, id)
}

// mutate loads a draft, applies fn and saves the result.
func (s *Service) mutate(ctx context.Context, draftID string, fn func(*TransactionDraft) error) (*TransactionDraft, error) {
	draft, err := s.drafts.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddItem resolves the product and adds it to the location's cart,
// merging with an existing line for the same product.
func (s *Service) AddItem(ctx context.Context, draftID, locationID string, productID int64, quantity int) (*TransactionDraft, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("resolve product: %w", err)
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %q is inactive", shared.ErrValidation, product.Name)
	}
	if quantity > product.Stock {
		return nil, products.ErrInsufficientStock
	}
	return s.mutate(ctx, draftID, func(d *TransactionDraft) error {
		return d.AddItem(locationID, product.ID, product.Name, product.SellPrice, product.CostPrice, quantity)
	})
}

// UpdateItemQuantity changes a cart line's quantity, holding it to the same
// stock check AddItem applies.
func (s *Service) UpdateItemQuantity(ctx context.Context, draftID, locationID, itemID string, quantity int) (*TransactionDraft, error) {
	return s.mutate(ctx, draftID, func(d *TransactionDraft) error {
		line, err := d.Item(locationID, itemID)
		if err != nil {
			return err
		}
		product, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return fmt.Errorf("resolve product: %w", err)
		}
		if quantity > product.Stock {
			return products.ErrInsufficientStock
		}
		return d.UpdateItemQuantity(locationID, itemID, quantity)
	})
}

// RemoveItem drops a cart line.
func (s *Service) RemoveItem(ctx context.Context, draftID, locationID, itemID string) (*TransactionDraft, error) {
	return s.mutate(ctx, draftID, func(d *TransactionDraft) error {
		return d.RemoveItem(locationID, itemID)
	})
}

// ServicePartParams references a product consumed by a repair.
type ServicePartParams struct {
	ProductID int64
	Quantity  int
}

// AddServiceParams describes a new repair line on the draft.
type AddServiceParams struct {
	DeviceName     string
	DeviceSerial   string
	Description    string
	TechnicianID   *int64
	TechnicianName string
	LaborCost      int64
	SLACategory    string
	Parts          []ServicePartParams
}

// AddService resolves part prices and adds a repair line to a location.
func (s *Service) AddService(ctx context.Context, draftID, locationID string, params AddServiceParams) (*TransactionDraft, error) {
	parts := make([]CartItem, 0, len(params.Parts))
	for _, p := range params.Parts {
		product, err := s.products.Get(ctx, p.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve part product: %w", err)
		}
		subtotal, err := ItemSubtotal(product.SellPrice, p.Quantity)
		if err != nil {
			return nil, err
		}
		parts = append(parts, CartItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SellPrice:   product.SellPrice,
			CostPrice:   product.CostPrice,
			Quantity:    p.Quantity,
			Subtotal:    subtotal,
		})
	}
	return s.mutate(ctx, draftID, func(d *TransactionDraft) error {
		return d.AddService(locationID, ServiceItemInput{
			DeviceName:     params.DeviceName,
			DeviceSerial:   params.DeviceSerial,
			Description:    params.Description,
			TechnicianID:   params.TechnicianID,
			TechnicianName: params.TechnicianName,
			LaborCost:      params.LaborCost,
			SLACategory:    params.SLACategory,
			Parts:          parts,
		})
	})
}

// RemoveService drops a repair line.
func (s *Service) RemoveService(ctx context.Context, draftID, locationID, serviceID string) (*TransactionDraft, error) {
	return s.mutate(ctx, draftID, func(d *TransactionDraft) error {
		return d.RemoveService(locationID, serviceID)
	})
}

// AddLocation appends a named room/site to a project draft.
func (s *Service) AddLocation(ctx context.Context, draftID, name, description string) (*TransactionDraft, error) {
	return s.mutate(ctx, draftID, func(d *TransactionDraft) error {
		d.AddLocation(name, description)
		return nil
	})
}

// RemoveLocation drops a location and everything it owns.
func (s *Service) RemoveLocation(ctx context.Context, draftID, locationID string) (*TransactionDraft, error) {
	return s.mutate(ctx, draftID, func(d *TransactionDraft) error {
		return d.RemoveLocation(locationID)
	})
}

// SetCustomer associates the draft with a customer, or clears it for a
// walk-in sale when id is nil.
func (s *Service) SetCustomer(ctx context.Context, draftID string, customerID *string) (*TransactionDraft, error) {
	var category customers.Category
	if customerID != nil {
		customer, err := s.custs.Get(ctx, *customerID)
		if err != nil {
			return nil, fmt.Errorf("resolve customer: %w", err)
		}
		category = customer.Category
	}
	return s.mutate(ctx, draftID, func(d *TransactionDraft) error {
		d.SetCustomer(customerID, category)
		return nil
	})
}

// UpdateDraftParams carries the optional header-level draft fields.
type UpdateDraftParams struct {
	Type          *TransactionType
	Notes         *string
	ProjectName   *string
	PaymentMethod *PaymentMethod
	PaidAmount    *int64
	IsTempo       *bool
	TempoDueDate  *time.Time
}

// Update applies header-level changes in one pass.
func (s *Service) Update(ctx context.Context, draftID string, params UpdateDraftParams) (*TransactionDraft, error) {
	return s.mutate(ctx, draftID, func(d *TransactionDraft) error {
		if params.Type != nil {
			d.SetType(*params.Type)
		}
		if params.Notes != nil {
			d.Notes = *params.Notes
		}
		if params.ProjectName != nil {
			d.ProjectName = *params.ProjectName
		}
		if params.IsTempo != nil {
			if err := d.SetTempo(*params.IsTempo); err != nil {
				return err
			}
		}
		if params.TempoDueDate != nil && d.IsTempo {
			due := *params.TempoDueDate
			d.TempoDueDate = &due
		}
		if params.PaymentMethod != nil {
			d.SetPaymentMethod(*params.PaymentMethod)
		}
		if params.PaidAmount != nil && !d.IsTempo {
			if err := d.SetPaidAmount(*params.PaidAmount); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetSummary computes the payment summary for display.
func (s *Service) GetSummary(ctx context.Context, draftID string) (PaymentSummary, error) {
	draft, err := s.drafts.Load(ctx, draftID)
	if err != nil {
		return PaymentSummary{}, err
	}
	return Summary(draft), nil
}

// Submit converts the draft into persisted records in a single database
// transaction: the transaction row, per-location details, sale items,
// service order with items and parts, the initial payment, and stock
// decrements all commit or roll back together.
func (s *Service) Submit(ctx context.Context, draftID string) (string, error) {
	draft, err := s.drafts.Load(ctx, draftID)
	if err != nil {
		return "", err
	}

	summary := Summary(draft)
	if summary.GrandTotal <= 0 {
		return "", ErrEmptyDraft
	}
	if draft.IsTempo && draft.TempoDueDate == nil {
		return "", ErrTempoDueDateRequired
	}

	var customerName string
	if draft.CustomerID != nil {
		customer, err := s.custs.Get(ctx, *draft.CustomerID)
		if err != nil {
			return "", fmt.Errorf("resolve customer: %w", err)
		}
		customerName = customer.Name
	}

	actor := shared.ActorFromContext(ctx)

	var txID string
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo TxRepository) error {
		id, err := repo.InsertTransaction(ctx, TransactionRecord{
			CustomerID:    draft.CustomerID,
			TotalAmount:   summary.GrandTotal,
			PaidAmount:    summary.PaidAmount,
			PaymentStatus: summary.Status,
			PaymentMethod: draft.PaymentMethod,
			Notes:         draft.Notes,
			ProjectName:   draft.ProjectName,
			IsTempo:       draft.IsTempo,
			TempoDueDate:  draft.TempoDueDate,
			CreatedBy:     actor.ID,
		})
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		txID = id

		for _, loc := range draft.Locations {
			var detailID *string
			if draft.Type == TypeProject {
				id, err := repo.InsertDetail(ctx, DetailRecord{
					TransactionID: txID,
					LocationName:  loc.Name,
					Description:   loc.Description,
					Subtotal:      LocationSubtotal(loc),
				})
				if err != nil {
					return fmt.Errorf("insert detail: %w", err)
				}
				detailID = &id
			}
			for _, item := range loc.Items {
				if err := repo.InsertSaleItem(ctx, SaleItemRecord{
					TransactionID: txID,
					DetailID:      detailID,
					ProductID:     item.ProductID,
					ProductName:   item.ProductName,
					CostPrice:     item.CostPrice,
					SellPrice:     item.SellPrice,
					Quantity:      item.Quantity,
					Subtotal:      item.Subtotal,
				}); err != nil {
					return fmt.Errorf("insert sale item: %w", err)
				}
			}
		}

		if err := s.writeServices(ctx, repo, draft, txID, actor); err != nil {
			return err
		}

		if summary.PaidAmount > 0 {
			if err := repo.InsertPayment(ctx, PaymentRecord{
				ReferenceType: "transaction",
				ReferenceID:   txID,
				CustomerName:  customerName,
				Amount:        summary.PaidAmount,
				Method:        draft.PaymentMethod,
				CreatedBy:     actor.ID,
			}); err != nil {
				return fmt.Errorf("insert payment: %w", err)
			}
		}

		for _, dec := range stockDecrements(draft) {
			if err := repo.DecrementStock(ctx, dec.productID, dec.quantity); err != nil {
				return fmt.Errorf("decrement stock for product %d: %w", dec.productID, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := s.drafts.Delete(ctx, draftID); err != nil {
		// The sale is committed; a stale draft only lingers until TTL.
		_ = err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "pos.submit",
			Entity:   "transaction",
			EntityID: txID,
			Meta: map[string]any{
				"grand_total": summary.GrandTotal,
				"paid_amount": summary.PaidAmount,
				"status":      summary.Status,
				"is_tempo":    draft.IsTempo,
			},
		})
	}
	return txID, nil
}

// writeServices persists the draft's repair lines as a service order.
func (s *Service) writeServices(ctx context.Context, repo TxRepository, draft *TransactionDraft, txID string, actor shared.Actor) error {
	var hasServices bool
	for _, loc := range draft.Locations {
		if len(loc.Services) > 0 {
			hasServices = true
			break
		}
	}
	if !hasServices {
		return nil
	}

	orderID, err := repo.InsertServiceOrder(ctx, ServiceOrderRecord{
		TransactionID: txID,
		CustomerID:    draft.CustomerID,
		Status:        "pending",
		Description:   draft.Notes,
		CreatedBy:     actor.ID,
	})
	if err != nil {
		return fmt.Errorf("insert service order: %w", err)
	}

	for _, loc := range draft.Locations {
		for _, svc := range loc.Services {
			var deadline *time.Time
			if svc.SLACategory != "" {
				hours, err := repo.GetSLATargetHours(ctx, svc.SLACategory)
				switch {
				case err == nil:
					t := time.Now().Add(time.Duration(hours) * time.Hour)
					deadline = &t
				case errors.Is(err, ErrSLAConfigNotFound):
					// unconfigured category, no deadline
				default:
					return fmt.Errorf("resolve sla config: %w", err)
				}
			}

			itemID, err := repo.InsertServiceItem(ctx, ServiceItemRecord{
				OrderID:      orderID,
				DeviceName:   svc.DeviceName,
				DeviceSerial: svc.DeviceSerial,
				Description:  svc.Description,
				LaborCost:    svc.LaborCost,
				SLACategory:  svc.SLACategory,
				SLADeadline:  deadline,
				QRCode:       fmt.Sprintf("SVC-%.8s-%d", orderID, time.Now().Unix()),
				Status:       "pending",
			})
			if err != nil {
				return fmt.Errorf("insert service item: %w", err)
			}

			// A requested technician goes through the approval queue; the
			// workload counter only moves when the assignment is approved.
			if svc.TechnicianID != nil {
				if err := repo.InsertServiceAssignment(ctx, ServiceAssignmentRecord{
					ServiceItemID: itemID,
					TechnicianID:  *svc.TechnicianID,
					AssignedBy:    actor.Name,
					Status:        "pending_approval",
				}); err != nil {
					return fmt.Errorf("insert service assignment: %w", err)
				}
			}

			for _, part := range svc.Parts {
				if err := repo.InsertServicePart(ctx, ServicePartRecord{
					ServiceItemID: itemID,
					ProductID:     part.ProductID,
					ProductName:   part.ProductName,
					Price:         part.SellPrice,
					Quantity:      part.Quantity,
					Subtotal:      part.Subtotal,
				}); err != nil {
					return fmt.Errorf("insert service part: %w", err)
				}
			}
		}
	}
	return nil
}

type decrement struct {
	productID int64
	quantity  int
}

// stockDecrements aggregates quantities per product across every location's
// retail lines and service parts, so each product is decremented once.
func stockDecrements(draft *TransactionDraft) []decrement {
	totals := make(map[int64]int)
	var order []int64
	add := func(productID int64, qty int) {
		if productID == 0 {
			return
		}
		if _, seen := totals[productID]; !seen {
			order = append(order, productID)
		}
		totals[productID] += qty
	}
	for _, loc := range draft.Locations {
		for _, item := range loc.Items {
			add(item.ProductID, item.Quantity)
		}
		for _, svc := range loc.Services {
			for _, part := range svc.Parts {
				add(part.ProductID, part.Quantity)
			}
		}
	}
	decs := make([]decrement, 0, len(order))
	for _, id := range order {
		decs = append(decs, decrement{productID: id, quantity: totals[id]})
	}
	return decs
}
