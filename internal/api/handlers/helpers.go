package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/utils"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/validator"
)

// decodeAndValidate parses a JSON body into dst and runs struct
// validation, writing the error response itself. Returns false when
// the caller should stop.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validator, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return false
	}
	if v != nil {
		if verrs := v.Validate(dst); len(verrs) > 0 {
			utils.WriteError(w, errors.ValidationError("Validation failed", verrs))
			return false
		}
	}
	return true
}
