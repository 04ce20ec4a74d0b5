package config

const (
	// MaxFolderNameLength is the maximum length for folder names, in characters.
	// Matches the CHECK constraint on the folders table.
	MaxFolderNameLength = 255

	// MaxFolderDescriptionLength is the maximum length for folder descriptions.
	MaxFolderDescriptionLength = 2000

	// MaxIconLength bounds the icon identifier (an icon set key, not an image).
	MaxIconLength = 64

	// MaxRequestBodyBytes caps JSON request bodies.
	MaxRequestBodyBytes = 1 << 20
)
