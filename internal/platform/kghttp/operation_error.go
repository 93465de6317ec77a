package kghttp

import "fmt"

type OperationErrorCode string

const (
	OperationErrorEncodeFailed    OperationErrorCode = "encode_failed"
	OperationErrorTransportFailed OperationErrorCode = "transport_failed"
	OperationErrorHTTPStatus      OperationErrorCode = "http_status"
	OperationErrorDecodeFailed    OperationErrorCode = "decode_failed"
	OperationErrorAPI             OperationErrorCode = "api_error"
)

type OperationError struct {
	Service    string
	Code       OperationErrorCode
	Operation  string
	StatusCode int
	Message    string
	Cause      error
}

func (e *OperationError) Error() string {
	if e == nil {
		return "knowledge graph operation failed"
	}
	head := fmt.Sprintf("%s operation failed (op=%s code=%s status=%d)", e.Service, e.Operation, e.Code, e.StatusCode)
	if e.Message != "" {
		return head + ": " + e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", head, e.Cause)
	}
	return head
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// HTTPStatusCode lets httpx classify the error for retries.
func (e *OperationError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *Client) opErr(op string, code OperationErrorCode, status int, msg string, cause error) *OperationError {
	return &OperationError{
		Service:    c.service,
		Code:       code,
		Operation:  op,
		StatusCode: status,
		Message:    msg,
		Cause:      cause,
	}
}
