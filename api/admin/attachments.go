package admin

import (
	"errors"
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/services"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

// attachmentOwner reads ?item_type=&item_id= from the query or form.
func attachmentOwner(r *http.Request) (tables.ItemType, uuid.UUID, error) {
	itemType := tables.ItemType(r.FormValue("item_type"))
	if !itemType.Valid() {
		return "", uuid.Nil, errors.New("item_type must be product, service or bundle")
	}
	itemID, err := uuid.Parse(r.FormValue("item_id"))
	if err != nil {
		return "", uuid.Nil, errors.New("item_id: invalid id")
	}
	return itemType, itemID, nil
}

func (ar *AdminRoutesManager) ListAttachments(w http.ResponseWriter, r *http.Request) {
	itemType, itemID, err := attachmentOwner(r)
	if err != nil {
		badQuery(w, err)
		return
	}

	attachments, err := ar.attachmentService.List(r.Context(), itemType, itemID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch attachments", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(attachments), gecho.Send())
}

// UploadAttachment handles a multipart form with a "file" part plus
// item_type, item_id and an optional alt_text.
func (ar *AdminRoutesManager) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handling.RespondError(services.ErrFileTooLarge, "", ar.logger, w)
			return
		}
		ar.logger.Debug("Invalid multipart form", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Invalid upload"), gecho.Send())
		return
	}
	defer r.MultipartForm.RemoveAll()

	itemType, itemID, err := attachmentOwner(r)
	if err != nil {
		badQuery(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Please choose a file to upload"), gecho.Send())
		return
	}
	defer file.Close()

	attachment, err := ar.attachmentService.Upload(r.Context(), &services.Upload{
		ItemType:    itemType,
		ItemID:      itemID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
		AltText:     r.FormValue("alt_text"),
	})
	if err != nil {
		handling.RespondError(err, "Failed to save attachment", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Attachment uploaded"), gecho.WithData(attachment), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "attachment")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.AttachmentPatch](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	attachment, err := ar.attachmentService.Update(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save attachment", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(attachment), gecho.Send())
}

// ReorderAttachments takes the owner in the query and the ids in their new
// order in the body.
func (ar *AdminRoutesManager) ReorderAttachments(w http.ResponseWriter, r *http.Request) {
	itemType, itemID, err := attachmentOwner(r)
	if err != nil {
		badQuery(w, err)
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.ReorderRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	attachments, err := ar.attachmentService.Reorder(r.Context(), itemType, itemID, body.Ids)
	if err != nil {
		handling.RespondError(err, "Failed to save attachment order", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(attachments), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "attachment")
		return
	}

	if err := ar.attachmentService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete attachment", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Attachment deleted"), gecho.Send())
}
