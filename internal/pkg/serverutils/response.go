package serverutils

// BaseResponse is the JSON envelope of every API response.
type BaseResponse[T any] struct {
	Status  string `json:"status"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Status:  "true",
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Status:  "false",
		Code:    code,
		Message: message,
	}
}

// PaymentRequiredResponse is returned whenever the caller's plan does not cover the request.
func PaymentRequiredResponse() BaseResponse[string] {
	return BaseResponse[string]{
		Status:  "false",
		Message: "payment required",
		Data:    "payment",
	}
}
