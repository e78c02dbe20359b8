// Package emit turns rendered text into a downloadable artifact and hands it
// to the first delivery strategy that succeeds.
package emit

import (
	"strings"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/render"
)

// MIMEText is the content type of the degraded plain-text artifact.
const MIMEText = "text/plain; charset=utf-8"

// Artifact is a finished file.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	// Degraded is set when the structured build failed and Data is plain text.
	Degraded bool
}

// Builder produces a structured document from text.
type Builder interface {
	Build(text string) ([]byte, error)
}

// Emitter builds artifacts. A nil Builder always yields plain text.
type Emitter struct {
	Builder Builder
	Log     *zap.Logger
}

// NewEmitter returns an Emitter backed by the default DOCX layout.
func NewEmitter(log *zap.Logger) *Emitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{Builder: NewDOCXBuilder(), Log: log}
}

// Build never fails: when the structured build is unavailable or errors, the
// text goes out as a .txt with the same stem.
func (e *Emitter) Build(doc render.Document) Artifact {
	if e.Builder != nil {
		data, err := e.Builder.Build(doc.Text)
		if err == nil {
			return Artifact{Filename: doc.Filename, ContentType: MIMEDocx, Data: data}
		}
		e.logger().Warn("docx build failed, falling back to text",
			zap.String("filename", doc.Filename), zap.Error(err))
	}
	return Artifact{
		Filename:    TextFilename(doc.Filename),
		ContentType: MIMEText,
		Data:        []byte(doc.Text),
		Degraded:    true,
	}
}

// TextFilename swaps a .docx extension for .txt.
func TextFilename(name string) string {
	if strings.HasSuffix(name, ".docx") {
		return strings.TrimSuffix(name, ".docx") + ".txt"
	}
	return name
}

func (e *Emitter) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
