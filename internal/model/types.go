package model

import "time"

// Version is the release version reported by --version and used by --update.
const Version = "0.4.2"

// FileEntry represents a single entry of a directory listing.
type FileEntry struct {
	Name        string    // Base name (e.g., notes.txt)
	Path        string    // Absolute path (e.g., /home/user/notes.txt)
	IsDirectory bool      // True for directories
	Size        int64     // Size in bytes, 0 for directories
	ModifiedAt  time.Time // Last modification time
}

// Process represents a running desktop application as reported by the host.
type Process struct {
	ID          string // Process identifier
	AppID       string // Application identifier (e.g., "terminal", "notes")
	Status      string // "running", "minimized", ...
	MemoryUsage int64  // Simulated resident memory in bytes
}

// AppInfo describes an application that can be launched with `open`.
type AppInfo struct {
	ID   string // Identifier passed to open (e.g., "calculator")
	Name string // Display name
}
