package errors

import (
	stderrors "errors"
	"net/http"
	"strings"

	apperrors "github.com/Lecon-a/Coffee-Shop/internal/domain/errors"
	"github.com/go-playground/validator/v10"
)

// HandleError renders err as the error envelope. Authorization failures and
// application errors carry their own status and message; anything else is an
// internal error and its text never reaches the client.
func HandleError(w http.ResponseWriter, err error) {
	if authErr, ok := apperrors.AsAuthError(err); ok {
		RespondWithError(w, authErr.Status, authErr.Message, nil)
		return
	}

	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		RespondWithError(w, appErr.Status, appErr.Message, validationDetails(appErr.Err))
		return
	}

	RespondWithError(w, http.StatusInternalServerError, MsgInternalServerError, nil)
}

func validationDetails(err error) []ErrorDetail {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return nil
	}

	details := make([]ErrorDetail, len(verrs))
	for i, fe := range verrs {
		details[i] = ErrorDetail{
			Field:   fieldPath(fe),
			Message: validationMessage(fe),
		}
	}
	return details
}

// fieldPath drops the top-level struct name from the namespace,
// e.g. "CreateDrinkRequest.recipe[0].parts" becomes "recipe[0].parts"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " item(s)"
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
