package validator

import (
	"context"

	"fashionshop/internal/usecase"
)

type checkoutValidator struct{}

func NewCheckoutValidator() usecase.CheckoutValidator {
	return checkoutValidator{}
}

func (checkoutValidator) ValidateCheckout(ctx context.Context, in usecase.CheckoutInput) error {
	var f fieldErrors
	f.requiredMax("first_name", in.FirstName, 50)
	f.requiredMax("last_name", in.LastName, 50)
	f.requiredEmail("email", in.Email)
	f.requiredMax("address", in.Address, 250)
	f.requiredMax("postal_code", in.PostalCode, 20)
	f.requiredMax("city", in.City, 100)
	return f.err()
}
