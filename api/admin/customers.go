package admin

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.authService.ListCustomers(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")), page, pageSize)
	if err != nil {
		handling.HandleError(err, "Failed to fetch customers", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

// CreateCustomer provisions a customer account; there is no public sign-up.
func (ar *AdminRoutesManager) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CustomerRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	user, err := ar.authService.CreateCustomer(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to save customer", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Customer created"), gecho.WithData(user), gecho.Send())
}

func (ar *AdminRoutesManager) ListCustomerAddresses(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "customer")
		return
	}

	addresses, err := ar.addressService.List(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch addresses", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(addresses), gecho.Send())
}

func (ar *AdminRoutesManager) GetPoolDNA(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "customer")
		return
	}

	dna, err := ar.poolDNAService.Get(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "Failed to fetch pool profile", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(dna), gecho.Send())
}

func (ar *AdminRoutesManager) SavePoolDNA(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "customer")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.PoolDNARequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	dna, err := ar.poolDNAService.Save(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save pool profile", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Pool profile saved"), gecho.WithData(dna), gecho.Send())
}

func (ar *AdminRoutesManager) DeletePoolDNA(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "customer")
		return
	}

	if err := ar.poolDNAService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete pool profile", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Pool profile deleted"), gecho.Send())
}
