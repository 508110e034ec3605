package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/Descanonge/neba-sub001/config/section"
	"github.com/Descanonge/neba-sub001/config/trait"
	"github.com/Descanonge/neba-sub001/vcs"
)

var (
	// ErrOverwritingCalls is returned when several write calls share a destination.
	ErrOverwritingCalls = errors.New("several calls write to the same destination")
	// ErrUnknownMetadata is returned when asking for a metadata element that does not exist.
	ErrUnknownMetadata = errors.New("unknown metadata element")
	// ErrNoDestination is returned when the destination of a write cannot be deduced.
	ErrNoDestination = errors.New("no destination")
)

// MetadataKey is the write option holding the metadata map.
const MetadataKey = "metadata"

// FileWriterClass is the class of FileWriter.
//
//nolint:gochecknoglobals // class descriptors are immutable definitions.
var FileWriterClass = NewClass("FileWriter", nil, WriterClass)

// MetadataSchema declares the options of metadata generation.
//
//nolint:gochecknoglobals // schemas are immutable definitions.
var MetadataSchema = section.NewSchema("metadata").
	Field("elements", trait.List(trait.String(""),
		trait.WithDefault([]any{
			"written_with_interface",
			"creation_time",
			"creation_script",
			"creation_hostname",
			"creation_params_str",
			"creation_commit",
			"creation_diff",
		}),
		trait.WithHelp("Metadata elements to generate, in order."))).
	Field("add_params", trait.Bool(true,
		trait.WithHelp("Add the interface parameters."))).
	Field("add_git_info", trait.Bool(true,
		trait.WithHelp("Add information about the git repository status."))).
	Field("params_exclude", trait.List(trait.String(""),
		trait.WithDefault([]any{"log."}),
		trait.WithHelp("Prefixes of parameters left out of the metadata."))).
	Field("max_diff_lines", trait.Int(30,
		trait.WithHelp("Maximum number of lines of the git diff."))).
	Field("creation_script", trait.String("",
		trait.WithDefault(nil), trait.WithAllowNone(true),
		trait.WithHelp("Creation script, the running executable if unset."))).
	Field("git_ignore", trait.List(trait.String(""),
		trait.WithHelp("Files and folders left out of the git diff."))).
	MustBuild()

//nolint:gochecknoglobals // fixed mapping.
var skippedElements = map[string][]string{
	"add_params":   {"creation_params", "creation_params_str"},
	"add_git_info": {"creation_commit", "creation_diff"},
}

// Writer writes data.
type Writer interface {
	Module

	Write(ctx context.Context, data any, dest string) error
}

// Call is one write operation.
type Call struct {
	Dest string
	Data any
}

// FileWriter writes data to files with a backend, adding metadata describing how
// the data was created.
type FileWriter struct {
	Base

	Backend      Backend
	WriteOptions map[string]any
	// MetadataOptions are values of MetadataSchema.
	MetadataOptions map[string]any
}

// FileWriterOf returns a constructor of a file writer.
func FileWriterOf(backend Backend) Constructor {
	return func(*Interface, Args) (Module, error) {
		return &FileWriter{Backend: backend}, nil
	}
}

// Class returns FileWriterClass.
func (w *FileWriter) Class() *Class { return FileWriterClass }

// Write writes data to dest, creating its directory if needed. An empty dest is
// replaced by the source of the interface, which must be a single location.
func (w *FileWriter) Write(ctx context.Context, data any, dest string) error {
	if dest == "" {
		if w.di == nil {
			return fmt.Errorf("%w: writer is not attached to an interface", ErrNoDestination)
		}

		source, err := w.di.GetSource()
		if err != nil {
			return err
		}

		if len(source) != 1 {
			return fmt.Errorf("%w: source has %d locations", ErrNoDestination, len(source))
		}

		dest = source[0]
	}

	return w.SendCalls(ctx, []Call{{Dest: dest, Data: data}})
}

// SendCalls checks the calls do not overwrite each other, creates missing
// directories, and runs every call. Failing calls do not stop the others, their
// errors are combined.
func (w *FileWriter) SendCalls(ctx context.Context, calls []Call) error {
	err := CheckOverwritingCalls(calls)
	if err != nil {
		return err
	}

	err = CheckDirectories(calls)
	if err != nil {
		return err
	}

	meta, err := w.Metadata(ctx)
	if err != nil {
		return err
	}

	opts := maps.Clone(w.WriteOptions)
	if opts == nil {
		opts = make(map[string]any, 1)
	}

	opts[MetadataKey] = meta

	var errs error

	for _, call := range calls {
		err = w.Backend.Write(ctx, call.Data, call.Dest, opts)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("writing %q: %w", call.Dest, err))

			continue
		}

		slog.Debug("data written", slog.String("dest", call.Dest))
	}

	return errs
}

// CheckOverwritingCalls returns an error listing destinations shared by several calls.
func CheckOverwritingCalls(calls []Call) error {
	count := make(map[string]int, len(calls))
	for _, call := range calls {
		count[call.Dest]++
	}

	var duplicates []string

	for dest, n := range count {
		if n > 1 {
			duplicates = append(duplicates, dest)
		}
	}

	if len(duplicates) > 0 {
		slices.Sort(duplicates)

		return fmt.Errorf("%w: %s", ErrOverwritingCalls, strings.Join(duplicates, ", "))
	}

	return nil
}

// CheckDirectories creates the missing directories of the destinations.
func CheckDirectories(calls []Call) error {
	seen := make(map[string]bool)

	for _, call := range calls {
		dir := filepath.Dir(call.Dest)
		if seen[dir] {
			continue
		}

		seen[dir] = true

		if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
			continue
		}

		slog.Debug("creating output directory", slog.String("directory", dir))

		err := os.MkdirAll(dir, 0o750)
		if err != nil {
			return fmt.Errorf("creating directory %q: %w", dir, err)
		}
	}

	return nil
}

// Metadata describes how data was created. Each element of the "elements" option
// adds one or more items. Options are MetadataOptions updated with opts.
// An element that cannot be generated is logged and left out.
func (w *FileWriter) Metadata(ctx context.Context, opts ...map[string]any) (map[string]any, error) {
	options, err := section.New(MetadataSchema, append([]map[string]any{w.MetadataOptions}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("metadata options: %w", err)
	}

	g := &metadataGenerator{w: w, options: options, metadata: make(map[string]any)}

	for _, name := range g.elements() {
		element, ok := g.element(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetadata, name)
		}

		v, err := element(ctx)
		if err != nil {
			slog.Warn("failed to generate metadata element",
				slog.String("element", name),
				slog.String("error", err.Error()),
			)

			continue
		}

		if v != nil {
			g.metadata[name] = v
		}
	}

	return g.metadata, nil
}

type metadataGenerator struct {
	w        *FileWriter
	options  *section.Section
	metadata map[string]any
}

func (g *metadataGenerator) elements() []string {
	var skip []string

	for option, elements := range skippedElements {
		if enabled, _ := g.options.GetOr(option, true).(bool); !enabled {
			skip = append(skip, elements...)
		}
	}

	var out []string

	for _, e := range g.stringList("elements") {
		if !slices.Contains(skip, e) {
			out = append(out, e)
		}
	}

	return out
}

func (g *metadataGenerator) stringList(key string) []string {
	values, _ := g.options.GetOr(key, nil).([]any)

	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}

	return out
}

func (g *metadataGenerator) element(name string) (func(context.Context) (any, error), bool) {
	switch name {
	case "written_with_interface":
		return g.writtenWithInterface, true
	case "creation_time":
		return func(context.Context) (any, error) {
			return time.Now().Format(time.DateTime), nil
		}, true
	case "creation_hostname":
		return func(context.Context) (any, error) {
			return os.Hostname()
		}, true
	case "creation_script":
		return g.creationScript, true
	case "creation_params":
		return g.creationParams, true
	case "creation_params_str":
		return g.creationParamsString, true
	case "creation_commit":
		return g.creationCommit, true
	case "creation_diff":
		return g.creationDiff, true
	}

	return nil, false
}

func (g *metadataGenerator) writtenWithInterface(context.Context) (any, error) {
	if g.w.di == nil {
		return nil, fmt.Errorf("%w: writer is not attached to an interface", ErrModuleMissing)
	}

	return g.w.di.String(), nil
}

func (g *metadataGenerator) creationScript(context.Context) (any, error) {
	if script, ok := g.options.GetOr("creation_script", nil).(string); ok {
		return script, nil
	}

	return os.Executable()
}

func (g *metadataGenerator) creationParams(context.Context) (any, error) {
	params := g.w.Parameters()
	if params == nil {
		return nil, fmt.Errorf("%w: %s", ErrModuleMissing, RoleParameters)
	}

	out := params.Flat()
	for _, prefix := range g.stringList("params_exclude") {
		maps.DeleteFunc(out, func(k string, _ any) bool {
			return strings.HasPrefix(k, prefix)
		})
	}

	return out, nil
}

// creationParamsString stores the parameters serialized as JSON in "creation_params".
func (g *metadataGenerator) creationParamsString(ctx context.Context) (any, error) {
	params, err := g.creationParams(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding parameters: %w", err)
	}

	g.metadata["creation_params"] = string(encoded)

	return nil, nil //nolint:nilnil // the element is stored under another name.
}

func (g *metadataGenerator) gitDir() string {
	if script, ok := g.metadata["creation_script"].(string); ok {
		return filepath.Dir(script)
	}

	return "."
}

func (g *metadataGenerator) creationCommit(ctx context.Context) (any, error) {
	hash, ok, err := vcs.Commit(ctx, g.gitDir())
	if err != nil || !ok {
		return nil, err
	}

	return hash, nil
}

// creationDiff stores the diff in "creation_diff_short" and "git_diff_long", only
// when the commit is known.
func (g *metadataGenerator) creationDiff(ctx context.Context) (any, error) {
	if _, ok := g.metadata["creation_commit"]; !ok {
		return nil, nil //nolint:nilnil // nothing to add outside of a repository.
	}

	maxLines, _ := g.options.GetOr("max_diff_lines", 30).(int)

	diff, ok, err := vcs.GetDiff(ctx, g.gitDir(), g.stringList("git_ignore"), maxLines)
	if err != nil || !ok || len(diff.Short) == 0 {
		return nil, err
	}

	g.metadata["creation_diff_short"] = diff.Short
	g.metadata["git_diff_long"] = diff.Lines

	return nil, nil //nolint:nilnil // elements are stored under other names.
}
