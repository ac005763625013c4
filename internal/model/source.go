// Package model defines the data structures for mutation testing.
package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// Language identifies the grammar used to parse a source file.
type Language string

// Supported languages.
const (
	LanguageUnknown    Language = ""
	LanguageGo         Language = "go"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
)

// LanguageForPath returns the language implied by the file extension.
func LanguageForPath(path Path) Language {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".go":
		return LanguageGo
	case ".js", ".mjs", ".cjs", ".jsx":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	}

	return LanguageUnknown
}

// IsScript reports whether the language belongs to the JavaScript family.
func (l Language) IsScript() bool {
	return l == LanguageJavaScript || l == LanguageTypeScript || l == LanguageTSX
}

// IsTyped reports whether the language carries type annotations.
func (l Language) IsTyped() bool {
	return l == LanguageGo || l == LanguageTypeScript || l == LanguageTSX
}

// File represents a source code file.
type File struct {
	// ShortPath is relative to the project root, slash separated.
	ShortPath Path   `yaml:"path"`
	FullPath  Path   `yaml:"full_path"`
	Hash      string `yaml:"hash"`
}

// Source is a file selected for mutation.
type Source struct {
	Origin   *File
	Language Language
}
