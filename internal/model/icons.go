package model

// Centralized glyphs for terminal and editor rendering
// Using simple single-width characters for consistent terminal rendering
const (
	IconModified    = "*" // Editor status bar: unsaved changes
	IconPlaceholder = "~" // Editor: row past the end of the buffer
	IconDirSuffix   = "/" // Appended to directory names in completion and ls -F style output
	IconTreeBranch  = "├── "
	IconTreeLast    = "└── "
	IconTreePipe    = "│   "
	IconTreeSpace   = "    "
)
