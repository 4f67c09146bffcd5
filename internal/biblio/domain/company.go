package domain

import "time"

type Company struct {
	ID        string
	Name      string
	Address   string
	Postcode  string
	City      string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
