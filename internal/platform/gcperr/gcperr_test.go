package gcperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"label_detection/internal/feature/labeldetection/domain"
)

func TestCode(t *testing.T) {
	t.Parallel()

	apiErr, ok := apierror.FromError(status.Error(codes.NotFound, "missing"))
	require.True(t, ok)

	tests := []struct {
		name     string
		err      error
		wantName string
		wantHTTP int
		wantOK   bool
	}{
		{"nil", nil, "", 0, false},
		{"grpc status", status.Error(codes.PermissionDenied, "denied"), "PermissionDenied", 0, true},
		{"wrapped grpc status", fmt.Errorf("call: %w", status.Error(codes.Unavailable, "down")), "Unavailable", 0, true},
		{"apierror", apiErr, "NotFound", -1, true},
		{"googleapi 403", &googleapi.Error{Code: http.StatusForbidden}, "PermissionDenied", 403, true},
		{"googleapi 418", &googleapi.Error{Code: http.StatusTeapot}, "418", 418, true},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), "DeadlineExceeded", 0, true},
		{"plain", errors.New("boom"), "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			name, httpStatus, ok := Code(tt.err)

			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantHTTP, httpStatus)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestHTTPCodeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "InvalidArgument", HTTPCodeName(400))
	assert.Equal(t, "Unauthenticated", HTTPCodeName(401))
	assert.Equal(t, "NotFound", HTTPCodeName(404))
	assert.Equal(t, "ResourceExhausted", HTTPCodeName(429))
	assert.Equal(t, "Internal", HTTPCodeName(502))
}

func TestClassifyRPC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantKind domain.Kind
		wantCode string
	}{
		{"permission denied", status.Error(codes.PermissionDenied, "denied"), domain.KindService, "PermissionDenied"},
		{"unauthenticated", status.Error(codes.Unauthenticated, "expired"), domain.KindAuthentication, "Unauthenticated"},
		{"missing credentials", errors.New("google: could not find default credentials"), domain.KindAuthentication, ""},
		{"plain", errors.New("boom"), domain.KindUnclassified, ""},
		{"mentions credentials", errors.New("request body mentions credentials"), domain.KindUnclassified, ""},
		{"already classified", domain.NewError(domain.KindDecode, "decoder", "", errors.New("x")), domain.KindDecode, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			we := ClassifyRPC("vision", tt.err)

			require.NotNil(t, we)
			assert.Equal(t, tt.wantKind, we.Kind)
			assert.Equal(t, tt.wantCode, we.Code)
		})
	}

	assert.Nil(t, ClassifyRPC("vision", nil))
}

func TestIsCredentialsError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no adc", errors.New("google: could not find default credentials. See https://cloud.google.com/docs/authentication/external/set-up-adc for more information"), true},
		{"auth library", errors.New("vision: credentials: could not find default credentials"), true},
		{"env file", errors.New("google: error getting credentials using GOOGLE_APPLICATION_CREDENTIALS environment variable: open /tmp/key.json: no such file or directory"), true},
		{"bad key", errors.New("google: read JWT from JSON credentials: 'type' field is \"\""), true},
		{"mentions credentials", errors.New("upload rejected: object metadata contains credentials"), false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsCredentialsError(tt.err))
		})
	}
}

func TestClassifyClientInit(t *testing.T) {
	t.Parallel()

	we := ClassifyClientInit("vision", errors.New("dialing: invalid key file"))
	assert.Equal(t, domain.KindAuthentication, we.Kind)

	we = ClassifyClientInit("vision", status.Error(codes.Unavailable, "down"))
	assert.Equal(t, domain.KindService, we.Kind)

	assert.Nil(t, ClassifyClientInit("vision", nil))
}

func TestClassifyImageError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		code     codes.Code
		message  string
		wantKind domain.Kind
	}{
		{"bad image data", codes.InvalidArgument, "Bad image data.", domain.KindUnsupportedFormat},
		{"other invalid argument", codes.InvalidArgument, "request too large", domain.KindService},
		{"permission denied", codes.PermissionDenied, "denied", domain.KindUnreadableObject},
		{"not found", codes.NotFound, "no such object", domain.KindUnreadableObject},
		{"cannot access url", codes.Unknown, "We can not access the URL currently.", domain.KindUnreadableObject},
		{"unauthenticated", codes.Unauthenticated, "expired", domain.KindAuthentication},
		{"internal", codes.Internal, "oops", domain.KindService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			we := ClassifyImageError("vision", tt.code, tt.message)

			assert.Equal(t, tt.wantKind, we.Kind)
			assert.Equal(t, tt.code.String(), we.Code)
			assert.Contains(t, we.Error(), tt.message)
		})
	}
}
