package services

import (
	"context"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// AddressService manages the service locations of a customer. Every
// operation is scoped to the owning customer.
type AddressService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewAddressService(logger *gecho.Logger, db *database.DB) *AddressService {
	return &AddressService{logger: logger, db: db}
}

func addressColumns(req *structs.AddressRequest) map[string]any {
	return map[string]any{
		"street":      strings.TrimSpace(req.Street),
		"city":        strings.TrimSpace(req.City),
		"state":       strings.TrimSpace(req.State),
		"postal_code": strings.ToUpper(strings.TrimSpace(req.PostalCode)),
		"gate_code":   strings.TrimSpace(req.GateCode),
	}
}

func (as *AddressService) List(ctx context.Context, customerID uuid.UUID) ([]tables.Address, error) {
	return database.Query[tables.Address](as.db).
		Where("user_id", customerID).
		OrderBy("created_at", database.ASC).
		All(ctx)
}

func (as *AddressService) Create(ctx context.Context, customerID uuid.UUID, req *structs.AddressRequest) (*tables.Address, error) {
	address, err := database.Create(ctx, as.db, &tables.Address{
		UserId:     customerID,
		Street:     strings.TrimSpace(req.Street),
		City:       strings.TrimSpace(req.City),
		State:      strings.TrimSpace(req.State),
		PostalCode: strings.ToUpper(strings.TrimSpace(req.PostalCode)),
		GateCode:   strings.TrimSpace(req.GateCode),
	})
	if err != nil {
		as.logger.Error("Failed to create address", gecho.Field("error", err), gecho.Field("customer_id", customerID))
		return nil, lib.MapPgError(err)
	}
	return address, nil
}

func (as *AddressService) Update(ctx context.Context, id, customerID uuid.UUID, req *structs.AddressRequest) (*tables.Address, error) {
	updates := addressColumns(req)
	updates["updated_at"] = time.Now()

	rows, err := database.Query[tables.Address](as.db).
		Where("id", id).
		Where("user_id", customerID).
		UpdateReturning(ctx, updates)
	if err != nil {
		as.logger.Error("Failed to update address", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if len(rows) == 0 {
		return nil, lib.ErrNotFound
	}
	return &rows[0], nil
}

// Delete removes an address. Visits planned there keep their row with the
// address cleared.
func (as *AddressService) Delete(ctx context.Context, id, customerID uuid.UUID) error {
	n, err := database.Query[tables.Address](as.db).
		Where("id", id).
		Where("user_id", customerID).
		Delete(ctx)
	if err != nil {
		as.logger.Error("Failed to delete address", gecho.Field("error", err), gecho.Field("id", id))
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}
