package domain

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Address is a shipping address.
type Address struct {
	Street  string `json:"street"`
	HouseNo string `json:"house_no"`
	FlatNo  string `json:"flat_no"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Customer is a registered shopper or a transient guest snapshot. Guests have
// no username or password hash and exist only while their order settles.
type Customer struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username,omitempty"`
	PasswordHash []byte  `json:"-"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Address      Address `json:"address"`
	Guest        bool    `json:"guest"`
}

// VerifyPassword checks the supplied password against the stored bcrypt hash
// and reports a mismatch as ErrAccessDenied.
func (c *Customer) VerifyPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)); err != nil {
		return ErrAccessDenied
	}
	return nil
}

// GuestDetails carries the fields a guest supplies at pay time.
type GuestDetails struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Address   Address `json:"address"`
}

// Validate rejects guest details with any required field blank. FlatNo is
// required too, matching the historical behavior of the checkout form.
func (g GuestDetails) Validate() error {
	required := []string{
		g.FirstName,
		g.LastName,
		g.Email,
		g.Address.Street,
		g.Address.HouseNo,
		g.Address.FlatNo,
		g.Address.ZipCode,
		g.Address.City,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return ErrInvalidCustomerData
		}
	}
	return nil
}

// Snapshot materializes a transient guest customer record from the details.
func (g GuestDetails) Snapshot() Customer {
	return Customer{
		FirstName: g.FirstName,
		LastName:  g.LastName,
		Email:     g.Email,
		Address:   g.Address,
		Guest:     true,
	}
}
