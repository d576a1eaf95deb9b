package report

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"handlescope/internal/codec"
	"handlescope/internal/domain"
	"handlescope/internal/metrics"
	"handlescope/internal/repository/sqlite"
)

// ErrWrite marks a report that could not be written. The run is lost when
// this happens, so callers treat it as fatal.
var ErrWrite = errors.New("report write failed")

// Options controls which optional artifacts are produced
type Options struct {
	// FailureLimit caps the failures listed in the reports; <= 0 lists all
	FailureLimit int
	// EvidenceDB writes evidence.db
	EvidenceDB bool
	// Metrics is written to metrics.prom when set
	Metrics *metrics.Recorder
}

// Artifacts lists the paths written for one run. Optional artifacts that
// were skipped or failed are left empty.
type Artifacts struct {
	Dir         string
	FullReport  string
	JSONReport  string
	YAMLReport  string
	URLList     string
	EvidenceDB  string
	Metrics     string
	Manifest    string
	Screenshots string
	ToolOutput  string
}

// Emitter writes the artifacts of a run into its workspace
type Emitter struct {
	ws   *Workspace
	opts Options
	log  *zap.Logger
}

// NewEmitter creates an emitter for ws
func NewEmitter(ws *Workspace, opts Options, log *zap.Logger) *Emitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{ws: ws, opts: opts, log: log}
}

// Emit writes every artifact for inv. The reports and the URL list are
// required and any failure there returns an error wrapping ErrWrite; the
// evidence database and metrics are logged and skipped on failure.
func (e *Emitter) Emit(ctx context.Context, inv *domain.Investigation) (*Artifacts, error) {
	inv.OutputDir = e.ws.Root
	doc := codec.NewDocument(inv, e.opts.FailureLimit)

	a := &Artifacts{
		Dir:         e.ws.Root,
		Screenshots: e.ws.Screenshots,
		ToolOutput:  e.ws.ToolOutput,
	}

	required := []struct {
		name  string
		dest  *string
		write func(io.Writer) error
	}{
		{JSONReportFile, &a.JSONReport, func(w io.Writer) error { return codec.NewJSONCodec().Export(doc, w) }},
		{YAMLReportFile, &a.YAMLReport, func(w io.Writer) error { return codec.NewYAMLCodec().Export(doc, w) }},
		{FullReportFile, &a.FullReport, func(w io.Writer) error { return TextWriter{}.Write(doc, w) }},
		{URLListFile, &a.URLList, func(w io.Writer) error { return WriteURLList(doc.Records, w) }},
	}
	for _, r := range required {
		path := e.ws.Path(r.name)
		if err := writeFile(path, r.write); err != nil {
			return a, fmt.Errorf("%s: %v: %w", r.name, err, ErrWrite)
		}
		*r.dest = path
	}

	if e.opts.EvidenceDB {
		path := e.ws.Path(EvidenceDBFile)
		if err := saveEvidence(ctx, path, inv); err != nil {
			e.log.Warn("Evidence database not written", zap.String("path", path), zap.Error(err))
		} else {
			a.EvidenceDB = path
		}
	}

	if e.opts.Metrics != nil {
		path := e.ws.Path(MetricsFile)
		if err := e.opts.Metrics.WriteTextfile(path); err != nil {
			e.log.Warn("Metrics not written", zap.String("path", path), zap.Error(err))
		} else {
			a.Metrics = path
		}
	}

	entries, err := BuildManifest(e.ws.Root)
	if err != nil {
		return a, fmt.Errorf("%v: %w", err, ErrWrite)
	}
	manifest := e.ws.Path(ManifestFile)
	if err := writeFile(manifest, func(w io.Writer) error { return WriteManifest(entries, w) }); err != nil {
		return a, fmt.Errorf("%s: %v: %w", ManifestFile, err, ErrWrite)
	}
	a.Manifest = manifest

	e.log.Info("Report written",
		zap.String("dir", e.ws.Root),
		zap.Int("records", len(inv.Records)),
		zap.Int("files", len(entries)+1),
	)
	return a, nil
}

// WriteURLList writes one profile URL per line in record order. Email
// accounts have no URL and are left out.
func WriteURLList(records []*domain.IdentityRecord, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if r.Kind != domain.RecordProfileURL || r.URL == "" {
			continue
		}
		if _, err := fmt.Fprintln(bw, r.URL); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func saveEvidence(ctx context.Context, path string, inv *domain.Investigation) error {
	repo, err := sqlite.New(path)
	if err != nil {
		return err
	}
	if err := repo.SaveInvestigation(ctx, inv); err != nil {
		_ = repo.Close()
		return err
	}
	return repo.Close()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
