// Package types defines every cross-package data structure used by the codecontext CLI.
package types

import "encoding/xml"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
	NodeTypeBinary    = "binary"

	CommandExport = "export"
	CommandTree   = "tree"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// FileEntry is one file captured in a snapshot. The slice of entries collected
// for a run is immutable afterwards; tree building and aggregation read the
// same snapshot.
type FileEntry struct {
	// RelativePath is slash-separated and starts with the base name of the
	// root the entry was collected under.
	RelativePath string
	Name         string
	AbsolutePath string
	SizeBytes    int64
	LastModified string
}

// FileSummary describes one matched file inside an export envelope.
type FileSummary struct {
	Path      string `json:"path" xml:"path"`
	Size      string `json:"size,omitempty" xml:"size,omitempty"`
	SizeBytes int64  `json:"-" xml:"-"`
	Tokens    int    `json:"tokens,omitempty" xml:"tokens,omitempty"`
}

// TreeOutputNode represents a node of a snapshot tree returned by the tree command.
type TreeOutputNode struct {
	XMLName      xml.Name          `json:"-" xml:"node"`
	Path         string            `json:"path" xml:"path"`
	Name         string            `json:"name" xml:"name"`
	Type         string            `json:"type" xml:"type"`
	Size         string            `json:"size,omitempty" xml:"size,omitempty"`
	SizeBytes    int64             `json:"-" xml:"-"`
	LastModified string            `json:"lastModified,omitempty" xml:"lastModified,omitempty"`
	MimeType     string            `json:"mimeType,omitempty" xml:"mimeType,omitempty"`
	Children     []*TreeOutputNode `json:"children,omitempty" xml:"children>node,omitempty"`
}

// ExportOutput is the structured envelope produced by the export command for
// the json and xml formats.
type ExportOutput struct {
	XMLName      xml.Name      `json:"-" xml:"export"`
	Tree         string        `json:"tree" xml:"tree"`
	Document     string        `json:"document" xml:"document"`
	MatchedFiles int           `json:"matchedFiles" xml:"matchedFiles"`
	TotalFiles   int           `json:"totalFiles" xml:"totalFiles"`
	TotalSize    string        `json:"totalSize,omitempty" xml:"totalSize,omitempty"`
	TotalBytes   int64         `json:"-" xml:"-"`
	Tokens       int           `json:"tokens,omitempty" xml:"tokens,omitempty"`
	Model        string        `json:"model,omitempty" xml:"model,omitempty"`
	Files        []FileSummary `json:"files,omitempty" xml:"files>file,omitempty"`
}
