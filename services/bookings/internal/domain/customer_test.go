package domain

import (
	"errors"
	"testing"
)

func TestCustomerInputNormalizeAndValidate(t *testing.T) {
	in := CustomerInput{
		LastName:  " 田中 ",
		FirstName: "太郎",
		Email:     " Tanaka@Example.com",
		Phone:     "090-1234-5678",
	}.Normalize()

	if in.LastName != "田中" || in.Email != "tanaka@example.com" || in.Phone != "09012345678" {
		t.Fatalf("unexpected normalised input: %+v", in)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid customer, got %v", err)
	}
	if err := (CustomerInput{LastName: "田中"}).Validate(); !errors.Is(err, ErrInvalidContact) {
		t.Fatalf("expected ErrInvalidContact, got %v", err)
	}
}

func TestCustomerPrefillKeepsTypedFields(t *testing.T) {
	cu := Customer{
		LastName:  "佐藤",
		FirstName: "花子",
		Email:     "sato@example.com",
		Phone:     "08098765432",
		Notes:     "VIP",
	}
	got := cu.Prefill(ContactData{Email: "hanako@example.com", SecondChoice: "afternoon"})

	want := ContactData{
		LastName:     "佐藤",
		FirstName:    "花子",
		Email:        "hanako@example.com",
		Phone:        "08098765432",
		SecondChoice: "afternoon",
		Notes:        "VIP",
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
