package ir

// Version constants for result schema and engine.
const (
	// SchemaVersion is the result JSON schema version.
	SchemaVersion = "1"

	// EngineVersion is the legcomp engine version.
	EngineVersion = "0.1.0"
)
