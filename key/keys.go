// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount is the number of registered configuration fields.
const DefinedFieldsCount = 21

// Record Store - location and bootstrap of the SQLite catalog database.
const (
	StorePath = "store.path"
	StoreSeed = "store.seed"
)

// Link Validation - probe behaviour of the catalog health check.
const (
	ValidatorTimeout          = "validator.timeout"
	ValidatorInspectPlaylists = "validator.inspect_playlists"
)

// URL Resolution - the yt-dlp subprocess used for Video entries.
const (
	ResolverPath    = "resolver.path"
	ResolverFormat  = "resolver.format"
	ResolverTimeout = "resolver.timeout"
)

// Media Playback - external player selection and session behaviour.
const (
	Player              = "player.default"
	PlayerReducedVolume = "player.reduced_volume"
	PlayerLoopOnEnd     = "player.loop_on_end"
)

// Exchange defaults.
const (
	ExportDefaultFile = "export.default_file"
)

// History Tracking - these keys configure the persistence of playback state.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Search Interaction - these keys define the UI/UX parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling.
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUISearchPromptString = "tui.search_prompt"
	TUIShowURLs           = "tui.show_urls"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored = "cli.colored"
)
