// Package handlers provides HTTP request handling
package handlers

// Common error messages
const (
	ErrMsgInvalidReqBody = "Invalid request body"
	ErrMsgInvalidID      = "Invalid generation id"
)

// Generation error messages
const (
	ErrMsgInvalidSource    = "Invalid source url"
	ErrMsgGenNotFound      = "Generation not found or cannot be canceled"
	ErrMsgGenSubmitFailed  = "Failed to submit generation"
	ErrMsgGenListFailed    = "Failed to list generations"
	ErrMsgGenGetFailed     = "Failed to get generation"
	ErrMsgGenCancelFailed  = "Failed to cancel generation"
	ErrMsgInvalidStatus    = "Invalid generation status"
	ErrMsgInvalidProgress  = "Progress must be between 0 and 100"
	ErrMsgProgressBackward = "Progress cannot decrease"
	ErrMsgResultRefReqd    = "Result reference is required"
	ErrMsgErrorReqd        = "Error message is required"
)
