// Package report renders the ranked result set into HTML and Markdown
// files for the user to browse after a run.
package report

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	texttemplate "text/template"
	"time"

	"github.com/google/uuid"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/pipeline"
	"github.com/jobradar/jobradar/internal/profile"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Data is everything the templates see.
type Data struct {
	RunID       string
	GeneratedAt time.Time
	Profile     *profile.Profile
	Postings    *job.ScoredPostings
	Summary     pipeline.Summary
}

// NewData assembles the template payload with a fresh run ID.
func NewData(p *profile.Profile, postings *job.ScoredPostings, summary pipeline.Summary, now time.Time) *Data {
	return &Data{
		RunID:       uuid.NewString(),
		GeneratedAt: now,
		Profile:     p,
		Postings:    postings,
		Summary:     summary,
	}
}

// Hero, Recommended and Fair feed the template sections.
func (d *Data) Hero() []*job.ScoredPosting        { return d.Postings.ByTier(job.TierHero) }
func (d *Data) Recommended() []*job.ScoredPosting { return d.Postings.ByTier(job.TierRecommended) }
func (d *Data) Fair() []*job.ScoredPosting        { return d.Postings.ByTier(job.TierFair) }

// Renderer writes reports into the output directory.
type Renderer struct {
	outputDir string
	html      *htmltemplate.Template
	markdown  *texttemplate.Template
}

func New(outputDir string) (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templatesFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing html template: %w", err)
	}

	markdown, err := texttemplate.ParseFS(templatesFS, "templates/report.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing markdown template: %w", err)
	}

	return &Renderer{
		outputDir: outputDir,
		html:      html,
		markdown:  markdown,
	}, nil
}

// WriteHTML renders the HTML report and returns its path.
func (r *Renderer) WriteHTML(data *Data) (string, error) {
	var buf bytes.Buffer
	if err := r.html.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering html report: %w", err)
	}
	return r.write("job-radar.html", buf.Bytes())
}

// WriteMarkdown renders the Markdown report and returns its path.
func (r *Renderer) WriteMarkdown(data *Data) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering markdown report: %w", err)
	}
	return r.write("job-radar.md", buf.Bytes())
}

// write lands the report atomically: a failed run never leaves a truncated
// report behind.
func (r *Renderer) write(name string, content []byte) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(r.outputDir, name)

	tmp, err := os.CreateTemp(r.outputDir, "."+name+"_*")
	if err != nil {
		return "", fmt.Errorf("creating temp report: %w", err)
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing temp report: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("replacing report: %w", err)
	}

	return path, nil
}
