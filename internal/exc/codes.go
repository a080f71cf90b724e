package exc

const (
	CodeUnknownFatal                  = "M0000"
	CodeFileNotFound                  = "M0001"
	CodeUnsuportedFileSystemOperation = "M0002"
	CodePermissionDenied              = "M0003"
	CodeUnsupportedFileFormat         = "M0004"
	CodeUnexpectedEOF                 = "M0005"
	CodeProtobufParseError            = "M0006"
	CodeProtobufWarning               = "M0007"
)

// Plugin parameter and config file handling.
const (
	CodeInvalidOption     = "M0100"
	CodeDeprecatedOption  = "M0101"
	CodeConflictingOption = "M0102"
	CodeUnknownOption     = "M0103"
	CodeSuspiciousOption  = "M0104"
)

// Code generation. These indicate a descriptor shape the generator does not
// understand and are never expected from a well formed request.
const (
	CodeUnhandledField   = "M0200"
	CodeUnknownType      = "M0201"
	CodeHelperCycle      = "M0202"
	CodeHelperRedeclared = "M0203"
	CodeHelperUndeclared = "M0204"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{
		CodeProtobufWarning:   true,
		CodeDeprecatedOption:  true,
		CodeConflictingOption: true,
		CodeUnknownOption:     true,
		CodeSuspiciousOption:  true,
	}
)
