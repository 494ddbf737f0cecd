// Package gcperr classifies errors returned by Google Cloud client libraries
// into the labeldetection error taxonomy by inspecting provider codes.
package gcperr

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"label_detection/internal/feature/labeldetection/domain"
)

// Code extracts the provider code name of err (a gRPC code name such as
// "PermissionDenied") and the HTTP status when one is known. ok is false
// when err carries no provider code at all.
func Code(err error) (name string, httpStatus int, ok bool) {
	if err == nil {
		return "", 0, false
	}

	var ae *apierror.APIError
	if errors.As(err, &ae) {
		if st := ae.GRPCStatus(); st != nil {
			return st.Code().String(), ae.HTTPCode(), true
		}
		if hc := ae.HTTPCode(); hc > 0 {
			return HTTPCodeName(hc), hc, true
		}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return HTTPCodeName(gerr.Code), gerr.Code, true
	}

	if st, isStatus := status.FromError(err); isStatus && st != nil {
		return st.Code().String(), 0, true
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded.String(), 0, true
	case errors.Is(err, context.Canceled):
		return codes.Canceled.String(), 0, true
	}
	return "", 0, false
}

// HTTPCodeName maps an HTTP status to the equivalent gRPC code name.
func HTTPCodeName(code int) string {
	switch code {
	case http.StatusBadRequest:
		return codes.InvalidArgument.String()
	case http.StatusUnauthorized:
		return codes.Unauthenticated.String()
	case http.StatusForbidden:
		return codes.PermissionDenied.String()
	case http.StatusNotFound:
		return codes.NotFound.String()
	case http.StatusConflict:
		return codes.Aborted.String()
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted.String()
	case http.StatusServiceUnavailable:
		return codes.Unavailable.String()
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded.String()
	}
	if code >= 500 {
		return codes.Internal.String()
	}
	return strconv.Itoa(code)
}

// credentialsHints are the messages the Google auth libraries produce when
// application default credentials cannot be found or loaded.
var credentialsHints = []string{
	"could not find default credentials",
	"error getting credentials",
	"unable to read credentials file",
	"cannot read credentials file",
	"read jwt from json credentials",
	"invalid credentials json",
	"credentials: unsupported filetype",
	"credentials: could not",
}

// IsCredentialsError reports whether err comes from credential discovery,
// such as missing application default credentials or an unreadable key file.
func IsCredentialsError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(strings.ToLower(err.Error()), credentialsHints)
}

// ClassifyRPC classifies a failed client call against service.
func ClassifyRPC(service string, err error) *domain.WorkflowError {
	if err == nil {
		return nil
	}
	var we *domain.WorkflowError
	if errors.As(err, &we) {
		return we
	}

	name, _, ok := Code(err)
	switch {
	case !ok && IsCredentialsError(err):
		return domain.NewError(domain.KindAuthentication, service, "", err)
	case !ok:
		return domain.NewError(domain.KindUnclassified, service, "", err)
	case name == codes.Unauthenticated.String():
		return domain.NewError(domain.KindAuthentication, service, name, err)
	default:
		return domain.NewError(domain.KindService, service, name, err)
	}
}

// ClassifyClientInit classifies a failure to construct a client. Construction
// only fails on credential or option problems, so anything not carrying a
// provider code is treated as an authentication failure.
func ClassifyClientInit(service string, err error) *domain.WorkflowError {
	if err == nil {
		return nil
	}
	if _, _, ok := Code(err); ok {
		return ClassifyRPC(service, err)
	}
	return domain.NewError(domain.KindAuthentication, service, "", err)
}

var unsupportedFormatHints = []string{
	"bad image data",
	"unsupported image",
	"image format",
	"invalid image",
}

var unreadableObjectHints = []string{
	"can not access",
	"cannot access",
	"unable to access",
	"could not read",
	"does not exist",
}

// ClassifyImageError classifies a per-image error status reported inside a
// successful annotate response.
func ClassifyImageError(service string, code codes.Code, message string) *domain.WorkflowError {
	err := status.Error(code, message)
	msg := strings.ToLower(message)
	name := code.String()

	switch {
	case code == codes.Unauthenticated:
		return domain.NewError(domain.KindAuthentication, service, name, err)
	case code == codes.InvalidArgument && containsAny(msg, unsupportedFormatHints):
		return domain.NewError(domain.KindUnsupportedFormat, service, name, err)
	case code == codes.PermissionDenied, code == codes.NotFound, containsAny(msg, unreadableObjectHints):
		return domain.NewError(domain.KindUnreadableObject, service, name, err)
	default:
		return domain.NewError(domain.KindService, service, name, err)
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
