package ignore

// DefaultIgnoreDirs are directory names never walked when discovering checklists.
// Matched case-insensitively against every path component.
var DefaultIgnoreDirs = []string{
	// Version control
	".git",
	".svn",
	".hg",

	// Dependencies (vendored READMEs and changelogs are full of task lists)
	"node_modules",
	"vendor",
	"bower_components",
	".yarn",
	".venv",
	"venv",

	// Build output and caches
	"dist",
	"build",
	"target",
	".cache",
	".next",
	".nuxt",
	"__pycache__",

	// IDE / Editor
	".idea",
	".vscode",
	".vs",
}

// DefaultIgnoreFiles are file name globs never scanned.
var DefaultIgnoreFiles = []string{
	"CHANGELOG.md",
	"*.min.md",
	"*~",
	".#*",
}
