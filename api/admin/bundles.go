package admin

import (
	"net/http"
	"poolcare_server/catalog"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

func (ar *AdminRoutesManager) ListBundles(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.bundleService.List(r.Context(), page, pageSize, strings.TrimSpace(r.URL.Query().Get("search")), false)
	if err != nil {
		handling.HandleError(err, "Failed to fetch bundles", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (ar *AdminRoutesManager) GetBundle(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "bundle")
		return
	}

	bundle, err := ar.bundleService.Get(r.Context(), id, false)
	if err != nil {
		handling.RespondError(err, "Failed to fetch bundle", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(bundle), gecho.Send())
}

// PreviewBundle prices an unsaved bundle form. Validation problems are
// returned alongside the totals instead of failing the request, so the editor
// can show both while the admin is still typing.
func (ar *AdminRoutesManager) PreviewBundle(w http.ResponseWriter, r *http.Request) {
	form, err := lib.ExtractAndValidateBody[catalog.BundleForm](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	preview, err := ar.bundleService.Preview(r.Context(), *form)
	if err != nil {
		handling.HandleError(err, "Failed to price bundle", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(preview), gecho.Send())
}

func (ar *AdminRoutesManager) CreateBundle(w http.ResponseWriter, r *http.Request) {
	ar.saveBundle(w, r, nil)
}

func (ar *AdminRoutesManager) UpdateBundle(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "bundle")
		return
	}
	ar.saveBundle(w, r, &id)
}

func (ar *AdminRoutesManager) saveBundle(w http.ResponseWriter, r *http.Request, id *uuid.UUID) {
	form, err := lib.ExtractAndValidateBody[catalog.BundleForm](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	bundle, err := ar.bundleService.Save(r.Context(), id, *form)
	if err != nil {
		handling.RespondError(err, "Failed to save bundle", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Bundle saved"), gecho.WithData(bundle), gecho.Send())
}

func (ar *AdminRoutesManager) ToggleBundle(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "bundle")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.ToggleRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	bundle, err := ar.bundleService.Toggle(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save bundle", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(bundle), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "bundle")
		return
	}

	if err := ar.bundleService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete bundle", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Bundle deleted"), gecho.Send())
}
