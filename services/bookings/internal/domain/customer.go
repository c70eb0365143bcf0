package domain

import "time"

// Customer is a stored contact that bookings can be prefilled from.
type Customer struct {
	ID        string    `json:"id"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CustomerInput struct {
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (in CustomerInput) contact() ContactData {
	return ContactData{
		LastName:  in.LastName,
		FirstName: in.FirstName,
		Email:     in.Email,
		Phone:     in.Phone,
		Notes:     in.Notes,
	}
}

func (in CustomerInput) Normalize() CustomerInput {
	c := in.contact().Normalize()
	return CustomerInput{
		LastName:  c.LastName,
		FirstName: c.FirstName,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
	}
}

// Validate applies the booking contact rules.
func (in CustomerInput) Validate() error {
	return in.contact().Validate()
}

// Prefill fills the empty fields of c from the customer record. Fields the
// caller typed win.
func (cu Customer) Prefill(c ContactData) ContactData {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.LastName, cu.LastName)
	fill(&c.FirstName, cu.FirstName)
	fill(&c.Email, cu.Email)
	fill(&c.Phone, cu.Phone)
	fill(&c.Notes, cu.Notes)
	return c
}
