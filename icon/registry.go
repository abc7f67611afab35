package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Search
	Link
	Mark
	Question
	Warn
	Stream
	Video
	Play
	Stop
	Volume
	Broken
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "OK",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(o_o)",
		squares: "🟨",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "(?_?)",
		squares: "🟦",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "->",
		kaomoji: "(-_-)",
		squares: "🟪",
	},
	Mark: {
		emoji:   "▶",
		nerd:    "",
		plain:   "*",
		kaomoji: "(>_<)",
		squares: "▪",
	},
	Question: {
		emoji:   "❓",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・_・?)",
		squares: "🟧",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(・`ω´・)",
		squares: "🟨",
	},
	Stream: {
		emoji:   "📡",
		nerd:    "",
		plain:   "S",
		kaomoji: "(◕‿◕)",
		squares: "🟦",
	},
	Video: {
		emoji:   "🎬",
		nerd:    "",
		plain:   "V",
		kaomoji: "(⌐■_■)",
		squares: "🟪",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "🟩",
	},
	Stop: {
		emoji:   "⏹️",
		nerd:    "",
		plain:   "#",
		kaomoji: "(－‸ლ)",
		squares: "🟥",
	},
	Volume: {
		emoji:   "🔊",
		nerd:    "",
		plain:   "vol",
		kaomoji: "(°o°)",
		squares: "🟫",
	},
	Broken: {
		emoji:   "💔",
		nerd:    "",
		plain:   "x",
		kaomoji: "(╥_╥)",
		squares: "⬛",
	},
}
