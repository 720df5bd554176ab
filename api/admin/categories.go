package admin

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	listing, err := ar.categoryService.List(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch categories", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(listing), gecho.Send())
}

// CategoryOptions lists parent candidates. ?exclude= drops the category being
// edited and its subtree.
func (ar *AdminRoutesManager) CategoryOptions(w http.ResponseWriter, r *http.Request) {
	exclude, err := handling.OptionalUUID(r.URL.Query(), "exclude")
	if err != nil {
		badQuery(w, err)
		return
	}

	options, err := ar.categoryService.Options(r.Context(), exclude)
	if err != nil {
		handling.HandleError(err, "Failed to fetch categories", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(options), gecho.Send())
}

func (ar *AdminRoutesManager) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "category")
		return
	}

	category, err := ar.categoryService.Get(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "Failed to fetch category", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(category), gecho.Send())
}

func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	category, err := ar.categoryService.Create(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to save category", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Category created"), gecho.WithData(category), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "category")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	category, err := ar.categoryService.Update(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save category", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Category updated"), gecho.WithData(category), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "category")
		return
	}

	if err := ar.categoryService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete category", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Category deleted"), gecho.Send())
}
