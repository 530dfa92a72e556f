package reports

import "fmt"

// Render turns a problem into its human readable message. The core never
// formats messages itself; this is the presentation half used by the CLI.
func Render(p Problem) string {
	switch p.Code {
	case CodeInvalidOption:
		return fmt.Sprintf(
			"invalid %s option '%s', allowed options are: %s",
			p.Info[InfoOptionType], p.Info[InfoOption], p.Info[InfoAllowed],
		)
	case CodeInvalidOptionValue:
		return fmt.Sprintf(
			"'%s' is not a valid value for %s, use %s",
			p.Info[InfoOptionValue], p.Info[InfoOptionName], p.Info[InfoAllowedValues],
		)
	case CodeRequiredOptionIsMissing:
		return fmt.Sprintf("required option '%s' is missing", p.Info[InfoName])
	case CodeQdeviceAlreadyDefined:
		return "quorum device is already defined"
	case CodeQdeviceNotDefined:
		return "no quorum device is defined in this cluster"
	case CodeParseErrorMissingClosingBrace:
		return "Unable to parse corosync config: missing closing brace"
	case CodeParseErrorUnexpectedClosingBrace:
		return "Unable to parse corosync config: unexpected closing brace"
	case CodeParseError:
		return "Unable to parse corosync config"
	}
	return string(p.Code)
}
