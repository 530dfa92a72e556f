package reports

// Severity classifies a problem record.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a stable identifier for a class of problems. Callers and tests
// match on codes, never on rendered message text.
type Code string

const (
	CodeInvalidOption           Code = "INVALID_OPTION"
	CodeInvalidOptionValue      Code = "INVALID_OPTION_VALUE"
	CodeRequiredOptionIsMissing Code = "REQUIRED_OPTION_IS_MISSING"
	CodeQdeviceAlreadyDefined   Code = "QDEVICE_ALREADY_DEFINED"
	CodeQdeviceNotDefined       Code = "QDEVICE_NOT_DEFINED"

	CodeParseErrorMissingClosingBrace    Code = "PARSE_ERROR_COROSYNC_CONF_MISSING_CLOSING_BRACE"
	CodeParseErrorUnexpectedClosingBrace Code = "PARSE_ERROR_COROSYNC_CONF_UNEXPECTED_CLOSING_BRACE"
	CodeParseError                       Code = "PARSE_ERROR_COROSYNC_CONF"
)

// Problem is one structured validation finding. Info carries the structured
// payload used to render a message (option names, offending value, allowed
// values); the well-known keys are the Info* constants below.
type Problem struct {
	Severity  Severity
	Code      Code
	Forceable bool
	Info      map[string]string
}

// Well-known Info keys.
const (
	InfoOption        = "option"
	InfoOptionType    = "type"
	InfoAllowed       = "allowed"
	InfoOptionName    = "option_name"
	InfoOptionValue   = "option_value"
	InfoAllowedValues = "allowed_values"
	InfoName          = "name"
)

// NewError builds a non-forceable error problem.
func NewError(code Code, info map[string]string) Problem {
	return Problem{Severity: SeverityError, Code: code, Info: info}
}

// NewForceableError builds an error problem an operator may override with
// a force policy.
func NewForceableError(code Code, info map[string]string) Problem {
	return Problem{Severity: SeverityError, Code: code, Forceable: true, Info: info}
}

// asWarning returns a copy of p downgraded to a warning.
func asWarning(p Problem) Problem {
	p.Severity = SeverityWarning
	return p
}
