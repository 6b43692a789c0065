package repositories

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/imobly/go-core/apiclient"
)

var validate = validator.New()

// checkPayload runs struct-tag validation on a request DTO before any network
// call. Failures surface as the same taxonomy the facade produces, so a
// caller cannot tell (and must not care) which side rejected the payload.
func checkPayload(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apiclient.ErrValidation, err)
	}
	return nil
}
