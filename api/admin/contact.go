package admin

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		badQuery(w, err)
		return
	}
	handled, err := handling.OptionalBool(r.URL.Query(), "handled")
	if err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.contactService.List(r.Context(), handled, page, pageSize)
	if err != nil {
		handling.HandleError(err, "Failed to fetch messages", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

type handledRequest struct {
	Handled bool `json:"handled"`
}

func (ar *AdminRoutesManager) SetContactHandled(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "message")
		return
	}
	body, err := lib.ExtractAndValidateBody[handledRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	msg, err := ar.contactService.SetHandled(r.Context(), id, body.Handled)
	if err != nil {
		handling.RespondError(err, "Failed to save message", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(msg), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteContactMessage(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "message")
		return
	}

	if err := ar.contactService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete message", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Message deleted"), gecho.Send())
}
