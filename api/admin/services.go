package admin

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListServices handles GET /admin/services. Unlike the public listing,
// inactive services are included unless ?is_active= says otherwise.
func (ar *AdminRoutesManager) ListServices(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseCatalogListOptions(r)
	if err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.offeringService.List(r.Context(), opts, false)
	if err != nil {
		handling.RespondError(err, "Failed to fetch services", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (ar *AdminRoutesManager) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "service")
		return
	}

	service, err := ar.offeringService.Get(r.Context(), id, false)
	if err != nil {
		handling.RespondError(err, "Failed to fetch service", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(service), gecho.Send())
}

func (ar *AdminRoutesManager) CreateService(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CatalogItemRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	service, err := ar.offeringService.Create(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to save service", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Service created"), gecho.WithData(service), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "service")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.CatalogItemPatch](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	service, err := ar.offeringService.Update(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save service", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Service updated"), gecho.WithData(service), gecho.Send())
}

func (ar *AdminRoutesManager) ToggleService(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "service")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.ToggleRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	service, err := ar.offeringService.Toggle(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save service", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(service), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "service")
		return
	}

	if err := ar.offeringService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete service", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Service deleted"), gecho.Send())
}
