package checkout

import (
	"errors"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/posapi"
)

const (
	msgCartEmpty       = "cart is empty"
	msgNoResolvable    = "no resolvable items in cart"
	msgOrderCreation   = "order creation failed"
	msgItemAttachment  = "order item attachment failed"
	msgGenericCheckout = "checkout failed, please try again"
)

var (
	errCartEmpty    = pkgerrors.New(pkgerrors.CodeValidation, msgCartEmpty)
	errNoResolvable = pkgerrors.New(pkgerrors.CodeValidation, msgNoResolvable)
)

// upstreamError marks a backend failure of a fatal step. Backend rejections
// keep their message for the screen; transport failures stay dependency errors.
func upstreamError(err error, message string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	code := pkgerrors.CodeDependency
	if msg := posapi.UpstreamMessage(err); msg != "" {
		code = pkgerrors.CodeUpstream
		details["upstream_message"] = msg
	}
	return pkgerrors.Wrap(code, err, message).WithDetails(details)
}

// UserMessage returns the short inline message shown after a failed checkout.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return msgGenericCheckout
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return typed.Message()
	case pkgerrors.CodeUpstream, pkgerrors.CodeDependency:
		msg := typed.Message()
		var apiErr *posapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg += ": " + apiErr.Message
		}
		return msg
	}
	return msgGenericCheckout
}
