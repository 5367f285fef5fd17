package utils

// ConfigFileName is the name of the YAML configuration file looked up in the
// working directory and in the global configuration directory.
const ConfigFileName = ".codecontext.yaml"

// GlobalConfigDirectoryName is the directory under the user's home that holds
// the global configuration file.
const GlobalConfigDirectoryName = ".codecontext"

// DefaultExportFileName is the file the export command writes when no output
// path is configured.
const DefaultExportFileName = "project_export.txt"

// LoggerInitializationFailedMessageFormat reports a failure to construct the
// application logger.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal command errors.
const ApplicationExecutionFailedMessage = "application execution failed"
