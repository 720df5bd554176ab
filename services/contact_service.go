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

type ContactService struct {
	logger *gecho.Logger
	db     *database.DB
	email  *EmailService
}

func NewContactService(logger *gecho.Logger, db *database.DB, email *EmailService) *ContactService {
	return &ContactService{logger: logger, db: db, email: email}
}

// Submit stores a message and forwards it to the admin inbox. The message is
// kept even when the email fails.
func (cs *ContactService) Submit(ctx context.Context, req *structs.ContactRequest) (*tables.ContactMessage, error) {
	msg, err := database.Create(ctx, cs.db, &tables.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	})
	if err != nil {
		cs.logger.Error("Failed to store contact message", gecho.Field("error", err), gecho.Field("email", req.Email))
		return nil, err
	}

	if err := cs.email.SendContactNotification(msg); err != nil {
		cs.logger.Warn("Failed to forward contact message", gecho.Field("error", err), gecho.Field("id", msg.Id))
	}
	return msg, nil
}

func (cs *ContactService) List(ctx context.Context, handled *bool, page, pageSize int) (*database.PaginationResult[tables.ContactMessage], error) {
	query := database.Query[tables.ContactMessage](cs.db)
	if handled != nil {
		query = query.Where("handled", *handled)
	}
	query = query.OrderBy("created_at", database.DESC).OrderBy("id", database.ASC)
	return database.Paginate(ctx, query, page, pageSize)
}

func (cs *ContactService) SetHandled(ctx context.Context, id uuid.UUID, handled bool) (*tables.ContactMessage, error) {
	updates := map[string]any{"handled": handled, "handled_at": nil}
	if handled {
		updates["handled_at"] = time.Now()
	}

	rows, err := database.Query[tables.ContactMessage](cs.db).Where("id", id).UpdateReturning(ctx, updates)
	if err != nil {
		cs.logger.Error("Failed to update contact message", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if len(rows) == 0 {
		return nil, lib.ErrNotFound
	}
	return &rows[0], nil
}

func (cs *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := database.DeleteByID[tables.ContactMessage](ctx, cs.db, id)
	if err != nil {
		cs.logger.Error("Failed to delete contact message", gecho.Field("error", err), gecho.Field("id", id))
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}
