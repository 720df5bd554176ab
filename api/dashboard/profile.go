package dashboard

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/structs"

	"github.com/MonkyMars/gecho"
)

func (drm *DashboardRoutesManager) GetPoolDNA(w http.ResponseWriter, r *http.Request) {
	dna, err := drm.poolDNAService.Get(r.Context(), caller(r))
	if err != nil {
		handling.RespondError(err, "Failed to fetch pool profile", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(dna), gecho.Send())
}

func (drm *DashboardRoutesManager) SavePoolDNA(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.PoolDNARequest](r)
	if err != nil {
		handling.RespondBodyError(err, drm.logger, w)
		return
	}

	dna, err := drm.poolDNAService.Save(r.Context(), caller(r), body)
	if err != nil {
		handling.RespondError(err, "Failed to save pool profile", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Pool profile saved"), gecho.WithData(dna), gecho.Send())
}

func (drm *DashboardRoutesManager) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := drm.addressService.List(r.Context(), caller(r))
	if err != nil {
		handling.HandleError(err, "Failed to fetch addresses", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(addresses), gecho.Send())
}

func (drm *DashboardRoutesManager) CreateAddress(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AddressRequest](r)
	if err != nil {
		handling.RespondBodyError(err, drm.logger, w)
		return
	}

	address, err := drm.addressService.Create(r.Context(), caller(r), body)
	if err != nil {
		handling.RespondError(err, "Failed to save address", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Address saved"), gecho.WithData(address), gecho.Send())
}

func (drm *DashboardRoutesManager) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid address id"), gecho.Send())
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.AddressRequest](r)
	if err != nil {
		handling.RespondBodyError(err, drm.logger, w)
		return
	}

	address, err := drm.addressService.Update(r.Context(), id, caller(r), body)
	if err != nil {
		handling.RespondError(err, "Failed to save address", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Address saved"), gecho.WithData(address), gecho.Send())
}

func (drm *DashboardRoutesManager) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid address id"), gecho.Send())
		return
	}

	if err := drm.addressService.Delete(r.Context(), id, caller(r)); err != nil {
		handling.RespondError(err, "Failed to delete address", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Address deleted"), gecho.Send())
}
