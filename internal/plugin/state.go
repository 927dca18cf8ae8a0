package plugin

// State tracks where a plugin instance is in its generation protocol. Purely
// observational; transitions happen as side effects of the lifecycle methods.
type State string

const (
	StateIdle             State = "idle"
	StateRegistered       State = "registered"
	StateContentGenerated State = "content_generated"
	StateWatching         State = "watching"
	StateRegenerated      State = "regenerated"
)
