package errors

import (
	stderrors "errors"
)

// Kind classifies a failed remote call into the client error taxonomy.
//
// The API client assigns exactly one Kind to every failure it returns, and the
// service layer maps Kinds to user-facing messages. Anything it cannot
// classify is KindUnknown, never a zero value that reads as success.
type Kind string

const (
	// KindNetwork means no usable response was received (DNS, refused
	// connection, timeout)
	KindNetwork Kind = "network"
	// KindValidation means the server rejected the request body with
	// structured per-field errors
	KindValidation Kind = "validation"
	// KindAuth means the server answered 401
	KindAuth Kind = "auth"
	// KindPermission means the server answered 403
	KindPermission Kind = "permission"
	// KindNotFound means the server answered 404
	KindNotFound Kind = "not_found"
	// KindServer means the server answered 5xx
	KindServer Kind = "server"
	// KindUnknown is the fallback for anything unmapped
	KindUnknown Kind = "unknown"
)

// KindOf extracts the taxonomy Kind from an error chain.
// Errors that never went through the API client classify as KindUnknown.
func KindOf(err error) Kind {
	var deskErr *DeskError
	if !stderrors.As(err, &deskErr) {
		return KindUnknown
	}
	switch deskErr.Code {
	case ErrCodeAPIRequestFailed:
		return KindNetwork
	case ErrCodeAPIValidation:
		return KindValidation
	case ErrCodeAPIUnauthorized:
		return KindAuth
	case ErrCodeAPIForbidden:
		return KindPermission
	case ErrCodeAPINotFound:
		return KindNotFound
	case ErrCodeAPIServerFault:
		return KindServer
	default:
		return KindUnknown
	}
}

// UserMessage maps a taxonomy Kind to the fixed human-readable string shown
// inline by screens. Unmapped kinds fall back to a generic message.
func (k Kind) UserMessage() string {
	switch k {
	case KindNetwork:
		return "Could not reach the server. Check your connection and try again."
	case KindValidation:
		return "Some fields are invalid. Please review and resubmit."
	case KindAuth:
		return "Your session has expired. Please log in again."
	case KindPermission:
		return "You do not have permission to perform this action."
	case KindNotFound:
		return "The requested resource was not found."
	case KindServer:
		return "The server encountered an error. Please try again later."
	default:
		return "An unexpected error occurred. Please try again."
	}
}
