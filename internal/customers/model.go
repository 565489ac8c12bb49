package customers

import "time"

// Category drives tempo (deferred payment) eligibility.
type Category string

const (
	CategoryRetail      Category = "retail"
	CategoryInstitution Category = "institution"
	CategoryProject     Category = "project"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryRetail, CategoryInstitution, CategoryProject:
		return true
	}
	return false
}

// TempoEligible reports whether customers of this category may defer
// payment. Walk-in and plain retail customers always pay at sale time.
func (c Category) TempoEligible() bool {
	return c == CategoryInstitution || c == CategoryProject
}

type Customer struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Category  Category  `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
