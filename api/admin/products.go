package admin

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListProducts handles GET /admin/products. Unlike the public listing,
// inactive products are included unless ?is_active= says otherwise.
func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseCatalogListOptions(r)
	if err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.productService.List(r.Context(), opts, false)
	if err != nil {
		handling.RespondError(err, "Failed to fetch products", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (ar *AdminRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "product")
		return
	}

	product, err := ar.productService.Get(r.Context(), id, false)
	if err != nil {
		handling.RespondError(err, "Failed to fetch product", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CatalogItemRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	product, err := ar.productService.Create(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to save product", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Product created"), gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "product")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.CatalogItemPatch](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	product, err := ar.productService.Update(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save product", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Product updated"), gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) ToggleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "product")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.ToggleRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	product, err := ar.productService.Toggle(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save product", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "product")
		return
	}

	if err := ar.productService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete product", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Product deleted"), gecho.Send())
}
