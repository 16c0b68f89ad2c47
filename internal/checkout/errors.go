package checkout

import "errors"

var (
	// ErrEmptyCart blocks checkout when there is nothing to buy.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrMissingContactInfo blocks guest checkout without email and phone.
	ErrMissingContactInfo = errors.New("checkout: guest email and phone are required")
	// ErrVerificationFailed is terminal: the processor reported success but
	// server-side verification rejected it. The payment may still have been
	// captured; the cart is left intact and the customer is sent to support.
	ErrVerificationFailed = errors.New("checkout: payment verification failed")
)
