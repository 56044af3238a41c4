package services

import "net/http"

// ErrorKind identifies the failure class of a verification operation. Handlers
// map kinds to JSON error codes, clients branch on them.
type ErrorKind string

const (
	KindBlacklisted        ErrorKind = "blacklisted"
	KindRateLimited        ErrorKind = "rate_limited"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindProviderError      ErrorKind = "provider_error"
	KindInvalidRequest     ErrorKind = "invalid_request"
	KindSaveFailed         ErrorKind = "save_failed"
	KindUpdateFailed       ErrorKind = "update_failed"
	KindPermissionDenied   ErrorKind = "permission_denied"
	KindNotFound           ErrorKind = "not_found"
)

type ServiceError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func errBlacklisted() *ServiceError {
	return &ServiceError{Kind: KindBlacklisted, Status: http.StatusForbidden, Message: "this phone number is not allowed"}
}

func errRateLimited() *ServiceError {
	return &ServiceError{Kind: KindRateLimited, Status: http.StatusTooManyRequests, Message: "too many verification attempts, please try again later"}
}

func errServiceUnavailable() *ServiceError {
	return &ServiceError{Kind: KindServiceUnavailable, Status: http.StatusBadRequest, Message: "phone verification is not available"}
}

func errProvider(message string) *ServiceError {
	if message == "" {
		message = "verification provider request failed"
	}
	return &ServiceError{Kind: KindProviderError, Status: http.StatusBadRequest, Message: message}
}

func errInvalidRequest() *ServiceError {
	return &ServiceError{Kind: KindInvalidRequest, Status: http.StatusNotFound, Message: "no verification request found for this device"}
}

func errSaveFailed() *ServiceError {
	return &ServiceError{Kind: KindSaveFailed, Status: http.StatusInternalServerError, Message: "could not save verification request"}
}

func errUpdateFailed() *ServiceError {
	return &ServiceError{Kind: KindUpdateFailed, Status: http.StatusInternalServerError, Message: "could not update phone number details"}
}

func errPermissionDenied() *ServiceError {
	return &ServiceError{Kind: KindPermissionDenied, Status: http.StatusForbidden, Message: "you are not allowed to access this resource"}
}

func errNotFound(message string) *ServiceError {
	if message == "" {
		message = "resource not found"
	}
	return &ServiceError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}
