// Package recorder accumulates accepted samples per operation and exports a
// batch only when it reached the target count.
package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"alma.local/iogen/catalog"
)

var (
	// ErrInsufficientSamples is returned by Finalize when a batch holds fewer
	// samples than the target. The batch is dropped.
	ErrInsufficientSamples = errors.New("insufficient samples")
	ErrBatchFull           = errors.New("batch already holds the target count")
	ErrNoBatch             = errors.New("no open batch")
	ErrEmptySample         = errors.New("sample has no steps")
)

const (
	TrainingDir     = "training"
	ExtendedSuffix  = ".extended"
	DefaultIndexRel = "methods_in_scope.json"
)

// Options configures a Recorder.
type Options struct {
	OutDir   string
	Target   int
	Extended bool
	RunID    uuid.UUID
}

// Batch is the ordered list of samples for one operation signature.
type Batch struct {
	Op      *catalog.Operation
	Samples []Sample
}

// ExportResult describes a written batch.
type ExportResult struct {
	File    string // file name relative to the owner directory
	Path    string
	Samples int
	Bytes   int64
}

// IndexEntry is one row of the summary index.
type IndexEntry struct {
	File       string   `json:"-"`
	RunID      string   `json:"runId"`
	Owner      string   `json:"owner"`
	Name       string   `json:"name"`
	Signature  string   `json:"signature"`
	ReturnType string   `json:"returnType"`
	ParamTypes []string `json:"paramTypes"`
	Samples    int      `json:"samples"`
}

// Recorder is not safe for concurrent use.
type Recorder struct {
	opts    Options
	batches map[string]*Batch
	// keys maps owner/file-key to the signature that claimed it.
	keys  map[string]string
	index []IndexEntry
}

func New(opts Options) (*Recorder, error) {
	if opts.Target <= 0 {
		return nil, fmt.Errorf("target sample count must be positive, got %d", opts.Target)
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}
	return &Recorder{
		opts:    opts,
		batches: make(map[string]*Batch),
		keys:    make(map[string]string),
	}, nil
}

func (r *Recorder) RunID() uuid.UUID { return r.opts.RunID }
func (r *Recorder) Target() int      { return r.opts.Target }

// Begin opens an empty batch for op, discarding any previous one.
func (r *Recorder) Begin(op *catalog.Operation) {
	r.batches[op.Signature()] = &Batch{Op: op}
}

// Record appends s to op's batch.
func (r *Recorder) Record(op *catalog.Operation, s Sample) error {
	if len(s.Steps) == 0 {
		return ErrEmptySample
	}
	b, ok := r.batches[op.Signature()]
	if !ok {
		return fmt.Errorf("%w for %s", ErrNoBatch, op.Signature())
	}
	if len(b.Samples) >= r.opts.Target {
		return ErrBatchFull
	}
	b.Samples = append(b.Samples, s)
	return nil
}

// Count returns the number of samples recorded for op so far.
func (r *Recorder) Count(op *catalog.Operation) int {
	if b, ok := r.batches[op.Signature()]; ok {
		return len(b.Samples)
	}
	return 0
}

// Batch returns the open batch for op.
func (r *Recorder) Batch(op *catalog.Operation) (*Batch, bool) {
	b, ok := r.batches[op.Signature()]
	return b, ok
}

// Abandon drops op's batch without exporting it.
func (r *Recorder) Abandon(op *catalog.Operation) {
	delete(r.batches, op.Signature())
}

// FileKey turns a signature into a file-name-safe key.
func FileKey(signature string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, signature)
}

// fileKey returns the key for sig, adding a hash suffix when another
// signature of the same owner already claimed the plain key.
func (r *Recorder) fileKey(owner, sig string) string {
	key := FileKey(sig)
	if claimed, ok := r.keys[owner+"/"+key]; ok && claimed != sig {
		h := fnv.New32a()
		h.Write([]byte(sig))
		key = fmt.Sprintf("%s_%08x", key, h.Sum32())
	}
	r.keys[owner+"/"+key] = sig
	return key
}

// Finalize exports op's batch when it holds exactly the target count and
// returns ErrInsufficientSamples otherwise. Either way the batch is closed.
func (r *Recorder) Finalize(op *catalog.Operation) (ExportResult, error) {
	sig := op.Signature()
	b, ok := r.batches[sig]
	if !ok {
		return ExportResult{}, fmt.Errorf("%w for %s", ErrNoBatch, sig)
	}
	delete(r.batches, sig)
	if len(b.Samples) != r.opts.Target {
		return ExportResult{}, fmt.Errorf("%w: %s has %d of %d", ErrInsufficientSamples, sig, len(b.Samples), r.opts.Target)
	}

	file := r.fileKey(op.Owner, sig)
	if r.opts.Extended {
		file += ExtendedSuffix
	}
	file += ".json"
	dir := filepath.Join(r.opts.OutDir, TrainingDir, op.Owner)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("create %s: %w", dir, err)
	}

	rows := make([]sampleJSON, len(b.Samples))
	for i, s := range b.Samples {
		rows[i] = s.toJSON()
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return ExportResult{}, fmt.Errorf("encode %s: %w", sig, err)
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return ExportResult{}, fmt.Errorf("write %s: %w", path, err)
	}

	r.index = append(r.index, IndexEntry{
		File:       filepath.ToSlash(filepath.Join(op.Owner, file)),
		RunID:      r.opts.RunID.String(),
		Owner:      op.Owner,
		Name:       op.Name,
		Signature:  sig,
		ReturnType: op.Result.Name,
		ParamTypes: op.ParamNames(),
		Samples:    len(b.Samples),
	})
	return ExportResult{File: file, Path: path, Samples: len(b.Samples), Bytes: int64(len(raw))}, nil
}

// Index returns the exported operations in export order.
func (r *Recorder) Index() []IndexEntry {
	return append([]IndexEntry(nil), r.index...)
}

// WriteIndex writes the summary index, keyed by exported file, to path.
// A relative path is resolved against the output directory.
func (r *Recorder) WriteIndex(path string) (string, error) {
	if path == "" {
		path = DefaultIndexRel
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.opts.OutDir, path)
	}
	byFile := make(map[string]IndexEntry, len(r.index))
	for _, e := range r.index {
		byFile[e.File] = e
	}
	raw, err := json.MarshalIndent(byFile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create index dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write index: %w", err)
	}
	return path, nil
}
