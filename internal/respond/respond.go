package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayush/devconnector/backend/internal/validate"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Msg writes {"msg": msg}.
func Msg(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"msg": msg})
}

// Errors writes {"errors": [...]}. Non-validation errors are reduced to their
// message so internals never leak.
func Errors(w http.ResponseWriter, status int, err error) {
	var errs validate.Errors
	if !errors.As(err, &errs) {
		errs = validate.Message(err.Error())
	}
	JSON(w, status, map[string]validate.Errors{"errors": errs})
}

// ServerError writes the generic 500 body.
func ServerError(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusInternalServerError, msg)
}
