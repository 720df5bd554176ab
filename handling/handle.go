package handling

import (
	"errors"
	"net/http"
	"poolcare_server/catalog"
	"poolcare_server/lib"
	"poolcare_server/services"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
}

// RespondError answers with the status that fits err. Validation problems
// carry their field errors; anything unexpected is logged and reported with
// the generic msg, e.g. "Failed to save product".
func RespondError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	var verr *lib.ValidationError
	if errors.As(err, &verr) {
		gecho.BadRequest(w, gecho.WithMessage("Please check the highlighted fields"), gecho.WithData(verr.Errors), gecho.Send())
		return
	}
	var bundleErr catalog.ValidationResult
	if errors.As(err, &bundleErr) {
		gecho.BadRequest(w, gecho.WithMessage("Please check the highlighted fields"), gecho.WithData(bundleErr.Errors), gecho.Send())
		return
	}

	switch {
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, lib.ErrHasChildren):
		gecho.Conflict(w,
			gecho.WithMessage(err.Error()),
			gecho.WithData(map[string]bool{"deletable": false}),
			gecho.Send())
	case errors.Is(err, lib.ErrCategoryCycle),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrInvalidOptions),
		errors.Is(err, services.ErrInvalidSignature):
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, lib.ErrInvalidState):
		gecho.Conflict(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, lib.ErrConflict), errors.Is(err, lib.ErrInUse):
		logger.Warn("Integrity violation", gecho.Field("error", err), gecho.Field("msg", msg))
		gecho.Conflict(w, gecho.WithMessage(msg), gecho.Send())
	default:
		HandleError(err, msg, logger, w)
	}
}

// RespondBodyError answers a request whose JSON body could not be decoded or
// failed validation.
func RespondBodyError(err error, logger *gecho.Logger, w http.ResponseWriter) {
	var verr *lib.ValidationError
	if errors.As(err, &verr) {
		RespondError(err, "", logger, w)
		return
	}
	gecho.BadRequest(w, gecho.WithMessage("Invalid request body"), gecho.Send())
}
