package entities

import (
	"path"
	"strings"

	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// CodeFile is a source file shown in code mode.
// GeneratedHash is the digest of the content as the generator emitted it and
// is empty for files the user created.
type CodeFile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	Content       string `json:"content"`
	Language      string `json:"language"`
	GeneratedHash string `json:"generatedHash,omitempty"`
}

// NormalizePath cleans p into an absolute POSIX path
func NormalizePath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return "", pkgerrors.NewValidationError("file path cannot be empty")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	cleaned := path.Clean(p)
	if cleaned == "/" {
		return "", pkgerrors.NewValidationError("file path must name a file")
	}
	return cleaned, nil
}

// NewGeneratedFile builds a file emitted by the code generator
func NewGeneratedFile(id, filePath, content string) (CodeFile, error) {
	f, err := newCodeFile(id, filePath, content)
	if err != nil {
		return CodeFile{}, err
	}
	f.GeneratedHash = utils.DigestString(content)
	return f, nil
}

// NewUserFile builds a file the user created by hand
func NewUserFile(id, filePath, content string) (CodeFile, error) {
	return newCodeFile(id, filePath, content)
}

func newCodeFile(id, filePath, content string) (CodeFile, error) {
	if id == "" {
		return CodeFile{}, pkgerrors.NewValidationError("file id cannot be empty")
	}
	p, err := NormalizePath(filePath)
	if err != nil {
		return CodeFile{}, err
	}
	return CodeFile{
		ID:       id,
		Name:     path.Base(p),
		Path:     p,
		Content:  content,
		Language: valueobjects.HighlightForPath(p),
	}, nil
}

// Validate checks the file invariants
func (f CodeFile) Validate() error {
	if f.ID == "" {
		return pkgerrors.NewValidationError("file id cannot be empty")
	}
	p, err := NormalizePath(f.Path)
	if err != nil {
		return err
	}
	if p != f.Path {
		return pkgerrors.NewValidationError("file path must be absolute and clean: " + f.Path)
	}
	return nil
}

// IsUserEdited reports whether the file holds content the generator did not write
func (f CodeFile) IsUserEdited() bool {
	return f.GeneratedHash == "" || utils.DigestString(f.Content) != f.GeneratedHash
}

// WithContent returns a copy holding content. The generated hash is kept so
// the edit stays detectable.
func (f CodeFile) WithContent(content string) CodeFile {
	f.Content = content
	return f
}
