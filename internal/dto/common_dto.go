package dto

// ErrorResponse carries a machine-readable code plus a human-readable message.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

// Stable error codes, kept from the legacy API so existing clients can keep
// switching on them.
const (
	CodeServerError        = "EX-00100"
	CodeInvalidCredentials = "EX-00101"
	CodeDuplicateAccount   = "EX-00102"
	CodeAuthentication     = "EX-00103"
	CodeNotFound           = "EX-00104"
	CodeInvalidToken       = "EX-00105"
	CodeCaptcha            = "EX-00106"
	CodeTokenMismatch      = "EX-00108"

	CodeOrgNotFound   = "EX-00201"
	CodeDuplicateUser = "EX-00203"
	CodeInviteToken   = "EX-00206"
	CodeAlreadySet    = "EX-00207"
	CodeInvalidState  = "EX-00208"
	CodeMissingOrg    = "EX-00209"

	CodeAuthRequired = "EX-00301"
	CodeUserNotFound = "EX-00302"
	CodeForbidden    = "EX-00303"

	CodeValidation = "EX-00400"
)
