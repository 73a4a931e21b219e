package resolver

// Config holds configuration for a Resolver.
type Config struct {
	// Languages lists preferred audio languages, most preferred first.
	// Formats in a listed language rank above others.
	Languages []string

	// FieldPreference reorders the sort keys that follow preference
	// (e.g. "fps", "res", "codec"). Unknown names are ignored with a warning.
	// If empty, the default order is used.
	FieldPreference []string

	// Tables overrides the codec and container rankings.
	// If nil, DefaultTables() is used.
	Tables *Tables

	// MatchFilter is an optional JavaScript expression evaluated against each
	// format bound as `f`; formats for which it is falsy are not selectable.
	MatchFilter string

	// Logger receives warnings. If nil, logging is disabled.
	Logger Logger
}
