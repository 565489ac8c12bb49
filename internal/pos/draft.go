package pos

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elektra-pos/elektra-pos/internal/customers"
)

// TransactionType switches the draft between a plain retail sale and a
// multi-location project invoice.
type TransactionType string

const (
	TypeRetail  TransactionType = "retail"
	TypeProject TransactionType = "project"
)

// PaymentMethod enumerates the collectible methods plus the tempo marker.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodQRIS     PaymentMethod = "qris"
	MethodTransfer PaymentMethod = "transfer"
	MethodTempo    PaymentMethod = "tempo"
)

var (
	// ErrLocationNotFound indicates an unknown location id on the draft.
	ErrLocationNotFound = errors.New("pos: location not found")
	// ErrItemNotFound indicates an unknown cart item id.
	ErrItemNotFound = errors.New("pos: cart item not found")
	// ErrServiceNotFound indicates an unknown service item id.
	ErrServiceNotFound = errors.New("pos: service item not found")
	// ErrLastLocation rejects removing the only remaining location.
	ErrLastLocation = errors.New("pos: a draft always keeps at least one location")
	// ErrTempoNotEligible rejects tempo for non institution/project customers.
	ErrTempoNotEligible = errors.New("pos: tempo requires an institution or project customer")
	// ErrNegativePaidAmount rejects negative paid amounts.
	ErrNegativePaidAmount = errors.New("pos: paid amount must not be negative")
	// ErrDeviceNameRequired rejects service items without a device name.
	ErrDeviceNameRequired = errors.New("pos: device name is required")
)

// CartItem is a retail line. Subtotal is always recomputed from sell price
// and quantity, never edited independently.
type CartItem struct {
	ID          string `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	SellPrice   int64  `json:"sell_price"`
	CostPrice   int64  `json:"cost_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
	LocationID  string `json:"location_id,omitempty"`
}

// ServiceItemInput is a repair job line: labor plus consumed parts.
type ServiceItemInput struct {
	ID             string     `json:"id"`
	DeviceName     string     `json:"device_name"`
	DeviceSerial   string     `json:"device_serial,omitempty"`
	Description    string     `json:"description"`
	Diagnosis      string     `json:"diagnosis,omitempty"`
	TechnicianID   *int64     `json:"technician_id,omitempty"`
	TechnicianName string     `json:"technician_name,omitempty"`
	LaborCost      int64      `json:"labor_cost"`
	Parts          []CartItem `json:"parts"`
	SLACategory    string     `json:"sla_category,omitempty"`
	LocationID     string     `json:"location_id,omitempty"`
}

// LocationDetail is one named room/site on a project invoice. A retail draft
// always has exactly one implicit location.
type LocationDetail struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Items       []CartItem         `json:"items"`
	Services    []ServiceItemInput `json:"services"`
	Subtotal    int64              `json:"subtotal"`
}

// TransactionDraft is the in-progress cart a cashier builds before
// submission. It owns its locations exclusively and is never persisted to
// Postgres; abandoned drafts simply expire from the draft store.
type TransactionDraft struct {
	ID               string             `json:"id"`
	CustomerID       *string            `json:"customer_id,omitempty"`
	CustomerCategory customers.Category `json:"customer_category,omitempty"`
	Type             TransactionType    `json:"transaction_type"`
	IsTempo          bool               `json:"is_tempo"`
	TempoDueDate     *time.Time         `json:"tempo_due_date,omitempty"`
	ProjectName      string             `json:"project_name,omitempty"`
	Locations        []LocationDetail   `json:"locations"`
	Notes            string             `json:"notes"`
	PaymentMethod    PaymentMethod      `json:"payment_method"`
	PaidAmount       int64              `json:"paid_amount"`
	CreatedAt        time.Time          `json:"created_at"`
}

const defaultLocationName = "Default"

func newLocation(name string) LocationDetail {
	return LocationDetail{
		ID:       uuid.NewString(),
		Name:     name,
		Items:    []CartItem{},
		Services: []ServiceItemInput{},
	}
}

// NewDraft creates an empty retail draft with one default location.
func NewDraft() *TransactionDraft {
	return &TransactionDraft{
		ID:            uuid.NewString(),
		Type:          TypeRetail,
		Locations:     []LocationDetail{newLocation(defaultLocationName)},
		PaymentMethod: MethodCash,
		CreatedAt:     time.Now(),
	}
}

func (d *TransactionDraft) location(id string) (*LocationDetail, error) {
	for i := range d.Locations {
		if d.Locations[i].ID == id {
			return &d.Locations[i], nil
		}
	}
	return nil, ErrLocationNotFound
}

// DefaultLocation returns the first location, which always exists.
func (d *TransactionDraft) DefaultLocation() *LocationDetail {
	return &d.Locations[0]
}

// AddLocation appends a named location. Only meaningful on project drafts,
// but the model does not forbid it on retail ones; the UI never offers it.
func (d *TransactionDraft) AddLocation(name, description string) *LocationDetail {
	loc := newLocation(name)
	loc.Description = description
	d.Locations = append(d.Locations, loc)
	return &d.Locations[len(d.Locations)-1]
}

// RemoveLocation drops a location and everything it owns.
func (d *TransactionDraft) RemoveLocation(id string) error {
	if len(d.Locations) <= 1 {
		return ErrLastLocation
	}
	for i := range d.Locations {
		if d.Locations[i].ID == id {
			d.Locations = append(d.Locations[:i], d.Locations[i+1:]...)
			return nil
		}
	}
	return ErrLocationNotFound
}

// AddItem puts a retail line into a location. Adding a product that already
// sits in the location's cart increments the existing entry's quantity
// instead of creating a second line; this dedup is deliberate policy.
func (d *TransactionDraft) AddItem(locationID string, productID int64, productName string, sellPrice, costPrice int64, quantity int) error {
	loc, err := d.location(locationID)
	if err != nil {
		return err
	}
	if _, err := ItemSubtotal(sellPrice, quantity); err != nil {
		return err
	}

	merged := false
	for i := range loc.Items {
		if loc.Items[i].ProductID == productID {
			loc.Items[i].Quantity += quantity
			loc.Items[i].Subtotal = loc.Items[i].SellPrice * int64(loc.Items[i].Quantity)
			merged = true
			break
		}
	}
	if !merged {
		subtotal, _ := ItemSubtotal(sellPrice, quantity)
		loc.Items = append(loc.Items, CartItem{
			ID:          uuid.NewString(),
			ProductID:   productID,
			ProductName: productName,
			SellPrice:   sellPrice,
			CostPrice:   costPrice,
			Quantity:    quantity,
			Subtotal:    subtotal,
			LocationID:  locationID,
		})
	}
	loc.Subtotal = LocationSubtotal(*loc)
	return nil
}

// Item returns the retail line with the given id.
func (d *TransactionDraft) Item(locationID, itemID string) (*CartItem, error) {
	loc, err := d.location(locationID)
	if err != nil {
		return nil, err
	}
	for i := range loc.Items {
		if loc.Items[i].ID == itemID {
			return &loc.Items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

// UpdateItemQuantity replaces a line's quantity and recomputes its subtotal.
func (d *TransactionDraft) UpdateItemQuantity(locationID, itemID string, quantity int) error {
	loc, err := d.location(locationID)
	if err != nil {
		return err
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range loc.Items {
		if loc.Items[i].ID == itemID {
			loc.Items[i].Quantity = quantity
			loc.Items[i].Subtotal = loc.Items[i].SellPrice * int64(quantity)
			loc.Subtotal = LocationSubtotal(*loc)
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItem drops a retail line and recomputes the location subtotal.
func (d *TransactionDraft) RemoveItem(locationID, itemID string) error {
	loc, err := d.location(locationID)
	if err != nil {
		return err
	}
	for i := range loc.Items {
		if loc.Items[i].ID == itemID {
			loc.Items = append(loc.Items[:i], loc.Items[i+1:]...)
			loc.Subtotal = LocationSubtotal(*loc)
			return nil
		}
	}
	return ErrItemNotFound
}

// AddService puts a repair line into a location. The device name must be
// present before the service item can be saved.
func (d *TransactionDraft) AddService(locationID string, svc ServiceItemInput) error {
	loc, err := d.location(locationID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(svc.DeviceName) == "" {
		return ErrDeviceNameRequired
	}
	if svc.LaborCost < 0 {
		return ErrNegativePrice
	}
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	svc.LocationID = locationID
	if svc.Parts == nil {
		svc.Parts = []CartItem{}
	}
	loc.Services = append(loc.Services, svc)
	loc.Subtotal = LocationSubtotal(*loc)
	return nil
}

// RemoveService drops a repair line and recomputes the location subtotal.
func (d *TransactionDraft) RemoveService(locationID, serviceID string) error {
	loc, err := d.location(locationID)
	if err != nil {
		return err
	}
	for i := range loc.Services {
		if loc.Services[i].ID == serviceID {
			loc.Services = append(loc.Services[:i], loc.Services[i+1:]...)
			loc.Subtotal = LocationSubtotal(*loc)
			return nil
		}
	}
	return ErrServiceNotFound
}

// SetType switches between retail and project mode. Going project -> retail
// merges every location's items and services into a single default location,
// discarding the per-location breakdown. The opposite switch keeps the single
// location; the user adds more manually.
func (d *TransactionDraft) SetType(t TransactionType) {
	if d.Type == t {
		return
	}
	d.Type = t
	if t == TypeRetail && len(d.Locations) > 1 {
		merged := newLocation(defaultLocationName)
		for _, loc := range d.Locations {
			merged.Items = append(merged.Items, loc.Items...)
			merged.Services = append(merged.Services, loc.Services...)
		}
		for i := range merged.Items {
			merged.Items[i].LocationID = merged.ID
		}
		for i := range merged.Services {
			merged.Services[i].LocationID = merged.ID
		}
		merged.Subtotal = LocationSubtotal(merged)
		d.Locations = []LocationDetail{merged}
	}
}

// SetCustomer associates the draft with a customer. Tempo is switched off
// when the new customer is not eligible for it.
func (d *TransactionDraft) SetCustomer(id *string, category customers.Category) {
	d.CustomerID = id
	d.CustomerCategory = category
	if d.IsTempo && !category.TempoEligible() {
		d.IsTempo = false
		d.TempoDueDate = nil
		d.PaymentMethod = MethodCash
	}
}

// SetTempo toggles deferred payment. Enabling it forces the tempo payment
// method and zeroes the paid amount; nothing is collected at sale time.
// Eligibility is enforced here in the model, not just the UI.
func (d *TransactionDraft) SetTempo(on bool) error {
	if on && !d.CustomerCategory.TempoEligible() {
		return ErrTempoNotEligible
	}
	d.IsTempo = on
	if on {
		d.PaymentMethod = MethodTempo
		d.PaidAmount = 0
	} else {
		d.PaymentMethod = MethodCash
		d.TempoDueDate = nil
	}
	return nil
}

// SetPaidAmount records the collected amount.
func (d *TransactionDraft) SetPaidAmount(amount int64) error {
	if amount < 0 {
		return ErrNegativePaidAmount
	}
	d.PaidAmount = amount
	return nil
}

// SetPaymentMethod picks a collectible method. The tempo marker is only ever
// set through SetTempo.
func (d *TransactionDraft) SetPaymentMethod(method PaymentMethod) {
	if method == MethodTempo {
		return
	}
	d.PaymentMethod = method
}
