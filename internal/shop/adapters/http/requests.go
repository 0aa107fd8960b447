package http

import "github.com/jshop/jshop/internal/shop/domain"

type guestRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	HouseNo   string `json:"house_no"`
	FlatNo    string `json:"flat_no"`
	ZipCode   string `json:"zip_code"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func (g guestRequest) toDomain() domain.GuestDetails {
	return domain.GuestDetails{
		FirstName: g.FirstName,
		LastName:  g.LastName,
		Email:     g.Email,
		Address: domain.Address{
			Street:  g.Street,
			HouseNo: g.HouseNo,
			FlatNo:  g.FlatNo,
			ZipCode: g.ZipCode,
			City:    g.City,
			Country: g.Country,
		},
	}
}
