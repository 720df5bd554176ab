package services

import (
	"context"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// PoolDNAService keeps one pool profile per customer. Access notes (gate
// codes, dog warnings) are encrypted at rest and decrypted on read.
type PoolDNAService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	db     *database.DB
}

func NewPoolDNAService(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *PoolDNAService {
	return &PoolDNAService{logger: logger, cfg: cfg, db: db}
}

func (ps *PoolDNAService) key() string {
	return ps.cfg.Security.EncryptionKey
}

func (ps *PoolDNAService) decrypt(dna *tables.PoolDNA) error {
	if dna.AccessNotes == "" {
		return nil
	}
	plain, err := lib.OpenNote(dna.AccessNotes, ps.key(), dna.CustomerId)
	if err != nil {
		ps.logger.Error("Failed to decrypt access notes", gecho.Field("error", err), gecho.Field("customer_id", dna.CustomerId))
		return err
	}
	dna.AccessNotes = plain
	return nil
}

func (ps *PoolDNAService) Get(ctx context.Context, customerID uuid.UUID) (*tables.PoolDNA, error) {
	dna, err := database.Query[tables.PoolDNA](ps.db).Where("customer_id", customerID).First(ctx)
	if err != nil {
		ps.logger.Error("Failed to fetch pool profile", gecho.Field("error", err), gecho.Field("customer_id", customerID))
		return nil, err
	}
	if dna == nil {
		return nil, lib.ErrNotFound
	}
	if err := ps.decrypt(dna); err != nil {
		return nil, err
	}
	return dna, nil
}

// Save creates or replaces the customer's pool profile.
func (ps *PoolDNAService) Save(ctx context.Context, customerID uuid.UUID, req *structs.PoolDNARequest) (*tables.PoolDNA, error) {
	notes := strings.TrimSpace(req.AccessNotes)
	if notes != "" {
		var err error
		if notes, err = lib.SealNote(notes, ps.key(), customerID); err != nil {
			ps.logger.Error("Failed to encrypt access notes", gecho.Field("error", err), gecho.Field("customer_id", customerID))
			return nil, err
		}
	}

	dna := &tables.PoolDNA{
		CustomerId:    customerID,
		PoolType:      req.PoolType,
		SurfaceType:   req.SurfaceType,
		VolumeGallons: req.VolumeGallons,
		Sanitizer:     req.Sanitizer,
		FilterType:    req.FilterType,
		PumpModel:     strings.TrimSpace(req.PumpModel),
		HeaterType:    strings.TrimSpace(req.HeaterType),
		HasSpa:        req.HasSpa,
		AccessNotes:   notes,
		Notes:         req.Notes,
	}

	saved, err := database.Query[tables.PoolDNA](ps.db).Upsert(ctx, dna, []string{"customer_id"},
		"pool_type", "surface_type", "volume_gallons", "sanitizer", "filter_type",
		"pump_model", "heater_type", "has_spa", "access_notes", "notes", "updated_at")
	if err != nil {
		ps.logger.Error("Failed to save pool profile", gecho.Field("error", err), gecho.Field("customer_id", customerID))
		return nil, lib.MapPgError(err)
	}

	if err := ps.decrypt(saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (ps *PoolDNAService) Delete(ctx context.Context, customerID uuid.UUID) error {
	n, err := database.Query[tables.PoolDNA](ps.db).Where("customer_id", customerID).Delete(ctx)
	if err != nil {
		ps.logger.Error("Failed to delete pool profile", gecho.Field("error", err), gecho.Field("customer_id", customerID))
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}
