// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of converting one presentation to PDF.
type ConversionStatus string

const (
	ConversionDone     ConversionStatus = "converted"
	ConversionSkipped  ConversionStatus = "skipped"
	ConversionExcluded ConversionStatus = "excluded"
	ConversionFailed   ConversionStatus = "failed"
)

// Replacement is one text substitution applied to every text run of a slide.
type Replacement struct {
	// From is the literal text to look for.
	From string `json:"from" yaml:"from"`

	// To is the text that replaces every occurrence of From.
	To string `json:"to" yaml:"to"`
}

// ReplacementRules is the on-disk layout of a replace-text rules file.
type ReplacementRules struct {
	Replacements []Replacement `json:"replacements" yaml:"replacements"`
}

// CoreProperties holds the document metadata stored in docProps/core.xml.
// Zero values are written as absent elements.
type CoreProperties struct {
	Title          string    `json:"title,omitempty" yaml:"title,omitempty"`
	Subject        string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Author         string    `json:"author,omitempty" yaml:"author,omitempty"`
	Keywords       string    `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Description    string    `json:"description,omitempty" yaml:"description,omitempty"`
	LastModifiedBy string    `json:"last_modified_by,omitempty" yaml:"last_modified_by,omitempty"`
	Revision       string    `json:"revision,omitempty" yaml:"revision,omitempty"`
	Version        string    `json:"version,omitempty" yaml:"version,omitempty"`
	Language       string    `json:"language,omitempty" yaml:"language,omitempty"`
	Category       string    `json:"category,omitempty" yaml:"category,omitempty"`
	ContentStatus  string    `json:"content_status,omitempty" yaml:"content_status,omitempty"`
	Created        time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Modified       time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// Commit identifies the last version-control change to a file.
type Commit struct {
	// Hash is the abbreviated commit hash (git %h).
	Hash string `json:"hash" yaml:"hash"`

	// Date is the author date of the commit.
	Date time.Time `json:"date" yaml:"date"`

	// RawDate is the author date exactly as git printed it (ISO 8601 strict).
	RawDate string `json:"raw_date" yaml:"raw_date"`
}

// ConversionRecord is one converter outcome, kept in the conversion history.
type ConversionRecord struct {
	RunID    string           `json:"run_id" yaml:"run_id"`
	Path     string           `json:"path" yaml:"path"`
	Digest   string           `json:"digest" yaml:"digest"`
	Status   ConversionStatus `json:"status" yaml:"status"`
	Duration time.Duration    `json:"duration" yaml:"duration"`
	Error    string           `json:"error,omitempty" yaml:"error,omitempty"`
	At       time.Time        `json:"at" yaml:"at"`
}
