package hub

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced in error payloads so clients can branch without
// string-matching messages.
const (
	TextCodeNotAuthenticated  = "NOT_AUTHENTICATED"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeUnknownSubject    = "UNKNOWN_SUBJECT"
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeInsufficientRole  = "INSUFFICIENT_ROLE"
	TextCodeSelfDelete        = "SELF_DELETE"
	TextCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	TextCodeInvalidID         = "INVALID_ID"
	TextCodeInvalidAction     = "INVALID_ACTION"
	TextCodeInvalidTransition = "INVALID_REPORT_TRANSITION"
	TextCodeEmptyPassword     = "EMPTY_PASSWORD"
)

// ErrUnableToFindSession is returned when the request carries no usable token
var ErrUnableToFindSession = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their expiry
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers structurally broken tokens and bad signatures
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrIdentityNotFound is returned when a verifiable token references an
// identity that no longer exists (e.g., deleted after issuance)
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUnknownSubject).
	WithCode(goerrors.CodeNotFound)

// ErrInvalidCredentials is the single error for unknown email and wrong
// password; login must not distinguish the two
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the hasher-level mismatch error
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty plaintext passwords at hash time
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrInsufficientRole is the authorization failure; distinct from the
// authentication kinds and surfaced as 403
var ErrInsufficientRole = goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientRole).
	WithCode(goerrors.CodeForbidden)

// ErrSelfDelete rejects an identity deleting its own account
var ErrSelfDelete = goerrors.New("cannot delete yourself", goerrors.CategoryAuthz).
	WithTextCode(TextCodeSelfDelete).
	WithCode(goerrors.CodeForbidden)

// ErrDuplicateEmail enforces email uniqueness at creation time
var ErrDuplicateEmail = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(goerrors.CodeConflict)

// ErrInvalidID covers unparseable entity ids before the store is consulted
var ErrInvalidID = goerrors.New("invalid id format", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidID).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidAction rejects unknown activity action filters
var ErrInvalidAction = goerrors.New("invalid action type", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidAction).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidReportTransition rejects moves the report lifecycle forbids
var ErrInvalidReportTransition = goerrors.New("invalid report status transition", goerrors.CategoryConflict).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(goerrors.CodeConflict)

// IsAuthKind reports whether err is one of the three authentication
// sub-kinds (no token, invalid token, unknown subject). The boundary
// collapses all of them into one unauthenticated outcome so callers cannot
// learn which stage failed.
func IsAuthKind(err error) bool {
	if err == nil {
		return false
	}

	for _, candidate := range []*goerrors.Error{
		ErrUnableToFindSession,
		ErrTokenExpired,
		ErrTokenMalformed,
		ErrIdentityNotFound,
		ErrInvalidCredentials,
		ErrMismatchedHashAndPassword,
	} {
		if goerrors.Is(err, candidate) {
			return true
		}
	}

	return IsTokenExpiredError(err) || IsMalformedError(err)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
