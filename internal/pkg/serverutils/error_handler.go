package serverutils

import (
	"errors"

	"video-saas-be/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the response
// envelope. Plan denials use paymentRequiredStatus (200 when zero).
func ErrorHandlerMiddleware(paymentRequiredStatus int) fiber.Handler {
	if paymentRequiredStatus == 0 {
		paymentRequiredStatus = fiber.StatusOK
	}

	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if entity.IsPaymentRequired(err) {
			return ctx.Status(paymentRequiredStatus).JSON(PaymentRequiredResponse())
		}

		code := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &validationErrs), errors.Is(err, entity.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, entity.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, entity.ErrAlreadyCanceled):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
