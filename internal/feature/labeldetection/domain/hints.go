package domain

import "strings"

var accessDeniedCodes = map[string]struct{}{
	"AccessDenied":          {},
	"AccessDeniedException": {},
	"PermissionDenied":      {},
	"403":                   {},
}

var notFoundCodes = map[string]struct{}{
	"404":       {},
	"NoSuchKey": {},
	"NotFound":  {},
}

const (
	HintCredentials      = "Run `gcloud auth application-default login` or set GOOGLE_APPLICATION_CREDENTIALS."
	HintUnreadableObject = "Likely a region mismatch or an access-policy issue on the bucket."
	HintAccessDenied     = "Check IAM permissions for the Vision annotate call and storage.objects.get on the bucket."
	HintNotFound         = "The object key is wrong or file not found in the bucket."
)

// IsAccessDenied reports whether code means the caller lacks permission.
func IsAccessDenied(code string) bool {
	_, ok := accessDeniedCodes[code]
	return ok
}

// IsNotFound reports whether code means the object or bucket does not exist.
func IsNotFound(code string) bool {
	_, ok := notFoundCodes[code]
	return ok
}

// Hints returns the remediation hints for err, in print order.
func Hints(err error) []string {
	if err == nil {
		return nil
	}
	var hints []string
	switch KindOf(err) {
	case KindAuthentication:
		hints = append(hints, HintCredentials)
	case KindUnreadableObject:
		hints = append(hints, HintUnreadableObject)
	}
	code := CodeOf(err)
	if IsAccessDenied(code) {
		hints = append(hints, HintAccessDenied)
	}
	if IsNotFound(code) {
		hints = append(hints, HintNotFound)
	}
	return hints
}

// HintText joins the hints of err into one line.
func HintText(err error) string {
	return strings.Join(Hints(err), " ")
}
