package rootmodel

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess           = 0  // Run completed
	ExitGeneralError      = 1  // Unknown or unclassified error
	ExitUsageError        = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic             = 3  // Internal panic (unexpected crash)
	ExitConfigError       = 10 // Invalid configuration
	ExitNotFound          = 11 // Input path missing (strict mode)
	ExitMalformedDocument = 12 // Input is not well-formed XML (strict mode)
	ExitNoUsableFiles     = 13 // Every input file was skipped
	ExitExportFailed      = 14 // Store export failed
)

const (
	// ConfigFileName is the project configuration file looked up in the working directory.
	ConfigFileName = "rootmodel.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ROOTMODEL_"

	// UnknownValue is the default for property-definition sub-elements that are absent.
	UnknownValue = "Unknown"

	// UnsetNumber is stored for version and resolution when the metadata omits them.
	UnsetNumber = -1.0
)
