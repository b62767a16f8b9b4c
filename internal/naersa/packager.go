package naersa

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/wallyben/autoenroll-core/internal/archive"
	"github.com/wallyben/autoenroll-core/internal/core"
	"github.com/wallyben/autoenroll-core/internal/model"
)

// DefaultOutputPath is used when Options.OutputPath is empty.
const DefaultOutputPath = "./naersa-submission.zip"

// Archive entry names.
const (
	DocumentEntry = "submission.xml"
	ManifestEntry = "manifest.json"
)

// Options controls one packaging call.
type Options struct {
	OutputPath string
	// Validate runs core.ValidateSubmission before anything is written.
	Validate bool
}

// Packager writes submission archives. The zero value is ready to use.
type Packager struct {
	// Now stamps the manifest. Defaults to time.Now.
	Now func() time.Time
}

// Package writes sub and its manifest into a zip archive and returns the
// archive path. On a validation failure no file is created.
func (p Packager) Package(sub *model.Submission, opts Options) (string, error) {
	if sub == nil {
		return "", core.ErrNilSubmission
	}
	if opts.Validate {
		if err := core.ValidateSubmission(sub); err != nil {
			return "", err
		}
	}

	path := opts.OutputPath
	if path == "" {
		path = DefaultOutputPath
	}

	generatedAt := p.now()
	manifest, err := json.MarshalIndent(model.NewManifest(sub, generatedAt), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}

	err = archive.WriteZip(path, []archive.Entry{
		{Name: DocumentEntry, Data: Serialize(sub)},
		{Name: ManifestEntry, Data: manifest},
	}, generatedAt)
	if err != nil {
		return "", err
	}
	return path, nil
}

func (p Packager) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
