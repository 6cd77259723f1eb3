package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"myfood-be/internal/utils"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var Validate = validator.New(validator.WithRequiredStructEnabled())

var errEmptyBody = errors.New("request body must not be empty")

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("malformed json: %w", err)
	}
	if dec.More() {
		return errors.New("body must contain a single json value")
	}
	return nil
}

// decodeAndValidate reads the body into dst and runs its validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := readJSON(w, r, dst); err != nil {
		return &validationError{err: err}
	}
	if err := Validate.Struct(dst); err != nil {
		return &validationError{err: err}
	}
	return nil
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	utils.WriteJSON(w, status, data)
}
