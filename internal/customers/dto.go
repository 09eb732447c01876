package customers

import (
	"time"

	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/google/uuid"
)

type CustomerDTO struct {
	ID                 uuid.UUID `json:"id"`
	NomorHP            string    `json:"nomor_hp"`
	NamaTerakhir       string    `json:"nama_terakhir"`
	AlamatTerakhir     string    `json:"alamat_terakhir"`
	GoogleMapsTerakhir *string   `json:"google_maps_terakhir"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UpdateCustomerInput carries the admin edit; blank fields are left alone.
type UpdateCustomerInput struct {
	ID       uuid.UUID
	Name     string
	Phone    string
	Address  string
	MapsLink string
}

// IntakeDetails is what an order intake remembers about the customer.
type IntakeDetails struct {
	Phone    string
	Name     string
	Address  string
	MapsLink *string
}

func FromModel(c models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:                 c.ID,
		NomorHP:            c.PhoneNumber,
		NamaTerakhir:       c.LastName,
		AlamatTerakhir:     c.LastAddress,
		GoogleMapsTerakhir: c.LastMapsLink,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
