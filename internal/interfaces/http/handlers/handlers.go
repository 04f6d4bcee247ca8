package handlers

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	apperrors "github.com/Lecon-a/Coffee-Shop/internal/domain/errors"
	"github.com/Lecon-a/Coffee-Shop/internal/interfaces/http/errors"
	"github.com/go-playground/validator/v10"
)

// maxBodySize bounds request bodies
const maxBodySize = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type normalizer interface {
	Normalize()
}

// decodeAndValidate reads a JSON body into req. Undecodable bodies are
// rejected with 400, rule violations with 422.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(req); err != nil {
		errors.HandleError(w, apperrors.NewBadRequestError(errors.MsgBadRequest))
		return false
	}

	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}

	if err := validate.Struct(req); err != nil {
		errors.HandleError(w, apperrors.NewUnprocessableError(errors.MsgUnprocessable, err))
		return false
	}
	return true
}
