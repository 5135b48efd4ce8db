package auth

// FailureKind tags why a login or registration attempt did not succeed.
// The presentation layer picks its wording from the kind.
type FailureKind string

const (
	FailureNone FailureKind = ""
	// FailureValidation means local field checks failed and no request was sent.
	FailureValidation FailureKind = "validation"
	// FailureInvalidCredentials means the auth API answered a login with a non-200 status.
	FailureInvalidCredentials FailureKind = "invalid_credentials"
	// FailureRejected means the auth API answered but not with the expected status or body.
	FailureRejected FailureKind = "rejected"
	// FailureUnavailable means the auth API could not be reached.
	FailureUnavailable FailureKind = "unavailable"
)

// LoginResult is the tagged outcome of a login attempt.
// Session is set only when Success is true.
type LoginResult struct {
	Success bool
	IsAdmin bool
	Failure FailureKind
	Session *Session
}

// LandingPath is where the browser goes after a successful login.
func (r LoginResult) LandingPath() string {
	return LandingPath(r.IsAdmin)
}

// RegisterResult is the tagged outcome of a registration attempt.
// Message carries the server-supplied reason for FailureRejected, when there was one.
// FieldErrors is populated for FailureValidation.
type RegisterResult struct {
	Success     bool
	Failure     FailureKind
	Message     string
	FieldErrors map[string]string
}
