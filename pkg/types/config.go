// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LogConfig holds logger settings shared by every command.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is console (default) or json.
	Format string `json:"format" yaml:"format"`
}

// DirectoryConfig holds the settings every batch command shares.
type DirectoryConfig struct {
	// InputDir is the directory scanned for presentations.
	InputDir string `json:"input_directory" yaml:"input_directory"`

	// Skip lists presentation names (without extension) to leave untouched.
	// Matching is case-insensitive.
	Skip []string `json:"skip,omitempty" yaml:"skip,omitempty"`
}

// ConversionConfig holds settings for the convert-presentations command.
type ConversionConfig struct {
	DirectoryConfig `yaml:",inline"`

	// OutputDir receives the generated PDFs (default "dist").
	OutputDir string `json:"output_directory" yaml:"output_directory"`

	// LibreOffice is the resolved path of the LibreOffice executable.
	LibreOffice string `json:"libre_office" yaml:"libre_office"`

	// Timeout bounds a single converter invocation. Zero disables it.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Retries is how often a failed conversion is attempted again within
	// the same run, with exponential backoff. Zero disables retries.
	Retries int `json:"retries" yaml:"retries"`

	// HistoryPath is the SQLite conversion history database. Empty disables it.
	HistoryPath string `json:"history,omitempty" yaml:"history,omitempty"`
}

// RemovePictureConfig holds settings for the remove-picture command.
type RemovePictureConfig struct {
	DirectoryConfig `yaml:",inline"`

	// Hashes are SHA1 digests (hex, any case) of the images to delete.
	Hashes []string `json:"hashes" yaml:"hashes"`

	// InPlace rewrites the source file instead of writing <name>.out.pptx.
	InPlace bool `json:"inplace" yaml:"inplace"`
}

// MetadataConfig holds settings for the add-meta-data command.
type MetadataConfig struct {
	DirectoryConfig `yaml:",inline"`

	// Authors are joined with ", " into the author property.
	Authors []string `json:"authors" yaml:"authors"`

	Language      string `json:"language" yaml:"language"`
	Keywords      string `json:"keywords" yaml:"keywords"`
	Category      string `json:"category" yaml:"category"`
	ContentStatus string `json:"content_status" yaml:"content_status"`
}

// ReplaceConfig holds settings for the replace-text command.
type ReplaceConfig struct {
	DirectoryConfig `yaml:",inline"`

	// Rules are applied in order.
	Rules []Replacement `json:"rules" yaml:"rules"`

	// InPlace rewrites the source file instead of writing <name>.out.pptx.
	InPlace bool `json:"inplace" yaml:"inplace"`
}

// TextConfig holds settings for the create-txt command.
type TextConfig struct {
	DirectoryConfig `yaml:",inline"`

	// OutputDir receives one .txt file per presentation (default "texts").
	OutputDir string `json:"output_directory" yaml:"output_directory"`
}
