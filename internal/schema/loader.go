package schema

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/aevon-lab/routekit/internal/discovery"
)

// RegistryName labels schema discovery in logs and reports.
const RegistryName = "schemas"

// Loader discovers schema documents below a root directory and registers them
// with the host's namespace.
type Loader struct {
	root      string
	formats   *FormatRegistry
	namespace Namespace
}

// NewLoader creates a schema loader.
func NewLoader(root string, formats *FormatRegistry, ns Namespace) *Loader {
	return &Loader{
		root:      root,
		formats:   formats,
		namespace: ns,
	}
}

// Load walks the schema root once. Per-file failures are recorded in the report and
// never abort the walk; a missing root yields an empty registry.
func (l *Loader) Load(ctx context.Context) (*Registry, *discovery.Report) {
	start := time.Now()
	report := discovery.NewReport(RegistryName, l.root)
	b := newBuilder()

	slog.Info("Loading schemas", "root", l.root, "extensions", l.formats.Extensions())

	err := discovery.Walk(l.root, discovery.Unversioned, discovery.Visitor[discovery.Version]{
		Enter: func(parent discovery.Version, dir discovery.Entry) discovery.Version {
			return discovery.SchemaVersion(parent, dir.Name)
		},
		File: func(v discovery.Version, file discovery.Entry) {
			if f := l.process(ctx, b, file, v); f != nil {
				report.Add(f)
			}
		},
	}, report)
	if err != nil {
		report.Add(discovery.DirectoryError(l.root, err))
	}

	reg := b.build()
	report.Loaded = reg.Len()
	report.Duration = time.Since(start)
	return reg, report
}

func (l *Loader) process(ctx context.Context, b *builder, file discovery.Entry, v discovery.Version) *discovery.Failure {
	format, ok := l.formats.FormatFor(file.Ext())
	if !ok {
		slog.Debug("Skipping non-schema file", "path", file.Path)
		return nil
	}

	start := time.Now()

	content, err := os.ReadFile(file.Path)
	if err != nil {
		return discovery.ReadError(file.Path, err)
	}

	decoder, err := l.formats.GetDecoder(format)
	if err != nil {
		return discovery.LoadError(file.Path, "no decoder for schema format", err)
	}

	raw, err := decoder.Decode(content)
	if err != nil {
		return discovery.ParseError(file.Path, err)
	}
	doc := Document(raw)

	if doc.ID() == "" {
		slog.Warn("Schema missing $id property, adding default", "name", file.Name)
	}
	id := ResolveID(doc, file.Name, v)
	doc[IDField] = id

	if err := l.namespace.AddSchema(ctx, doc); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			first, _ := b.lookup(id)
			return discovery.ConflictError(file.Path, "duplicate schema id",
				&DuplicateIDError{ID: id, Path: file.Path, FirstPath: first.Path})
		}
		return discovery.RegistrationError(file.Path, "failed to register schema", err)
	}

	b.add(Descriptor{
		Name:        file.Name,
		ID:          id,
		Path:        file.Path,
		Version:     v,
		Format:      format,
		Fingerprint: ComputeFingerprint(content),
	})

	slog.Info("Loaded schema", "name", file.Name, "id", id, "version", v.Label(), "duration", time.Since(start))
	return nil
}
