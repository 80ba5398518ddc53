package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/avon-lang/avon/lang"
	"github.com/avon-lang/avon/log"
)

// Deploy evaluates a program and writes the file templates it produces.
//
// Deployment is all-or-nothing: every template is collected and every target
// path validated before the first byte is written. With --root, all targets
// are confined beneath the root directory; without it, absolute paths are
// rejected outright.
type Deploy struct {
	Source string   `arg:""             help:"Source file or '-' for stdin"                     name:"source"`
	Args   []string `arg:"" optional:"" help:"Arguments applied to the program's parameters"    name:"args"`

	Root   string `help:"Directory that will contain all written files"                type:"path"`
	Force  bool   `help:"Overwrite existing files"                                     short:"f"`
	Backup bool   `help:"Back up existing files to <name>.bak before overwriting"`
	DryRun bool   `help:"Print planned writes without touching the filesystem"`
}

// plannedFile is a validated write, ready to execute.
type plannedFile struct {
	target  string
	content string
	exists  bool
}

// Run executes the deploy command.
func (d *Deploy) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	name, src, err := readSource(d.Source)
	if err != nil {
		return err
	}

	result, err := evalProgram(src, d.Args)
	if err != nil {
		if lerr, ok := err.(*lang.Error); ok {
			return lerr.With(
				slog.String("command", "deploy"),
				slog.String("source", name),
			)
		}

		return err
	}

	files, err := collectFileTemplates(result)
	if err != nil {
		return ErrDeploy.Wrap(err)
	}

	plan, err := d.planWrites(files)
	if err != nil {
		return ErrDeploy.Wrap(err)
	}

	if d.DryRun {
		for _, p := range plan {
			fmt.Printf("would write %s (%d bytes)\n", p.target, len(p.content))
		}

		return nil
	}

	for _, p := range plan {
		if err := d.writeFile(ctx, p); err != nil {
			return ErrDeploy.Wrap(err)
		}
	}

	log.InfoContext(ctx, "deploy complete",
		slog.Int("files", len(plan)),
		slog.String("source", name),
	)

	return nil
}

// planWrites validates every target path and records which targets already
// exist. It fails without side effects on the first conflict or traversal.
func (d *Deploy) planWrites(files []lang.FileTemplate) ([]plannedFile, error) {
	root := ""

	if d.Root != "" {
		if err := os.MkdirAll(d.Root, defaultDirMode); err != nil {
			return nil, err
		}

		abs, err := filepath.Abs(d.Root)
		if err != nil {
			return nil, err
		}

		// Resolving symlinks up front keeps the containment check honest
		// when the root itself is a link.
		root, err = filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, err
		}
	}

	plan := make([]plannedFile, 0, len(files))

	for _, file := range files {
		target, err := resolveTarget(root, file.Path)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(target)

		exists := err == nil && !info.IsDir()
		if exists && !d.Force && !d.Backup {
			return nil, ErrFileExists.
				With(slog.String("file", target))
		}

		plan = append(plan, plannedFile{
			target:  target,
			content: file.Content,
			exists:  exists,
		})
	}

	return plan, nil
}

// resolveTarget maps a template path onto the real filesystem. With a root,
// the path is stripped of any leading slash and parent components and joined
// beneath it; without one, absolute paths and parent traversal are rejected.
func resolveTarget(root, path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", ErrEscapesRoot.
			With(slog.String("path", path))
	}

	if root == "" {
		if filepath.IsAbs(path) {
			return "", NewError("absolute path requires --root").
				With(slog.String("path", path))
		}

		return filepath.Clean(path), nil
	}

	rel := strings.TrimPrefix(path, "/")

	target := filepath.Join(root, filepath.Clean(rel))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", ErrEscapesRoot.
			With(slog.String("path", path))
	}

	return target, nil
}

// writeFile writes one planned file, backing up any existing target first
// when requested. The content lands in a temp file in the target directory
// and is renamed into place so readers never observe a partial write.
func (d *Deploy) writeFile(ctx context.Context, p plannedFile) error {
	dir := filepath.Dir(p.target)
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return err
	}

	if p.exists && d.Backup {
		data, err := os.ReadFile(p.target)
		if err != nil {
			return err
		}

		if err := os.WriteFile(p.target+".bak", data, defaultFileMode); err != nil {
			return err
		}

		log.DebugContext(ctx, "backed up existing file",
			slog.String("file", p.target),
		)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.target)+".*")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()

	_, werr := tmp.WriteString(p.content)

	cerr := tmp.Close()

	if werr != nil || cerr != nil {
		os.Remove(tmpPath)

		if werr != nil {
			return werr
		}

		return cerr
	}

	if err := os.Chmod(tmpPath, defaultFileMode); err != nil {
		os.Remove(tmpPath)

		return err
	}

	if err := os.Rename(tmpPath, p.target); err != nil {
		os.Remove(tmpPath)

		return err
	}

	log.InfoContext(ctx, "wrote file",
		slog.String("file", p.target),
		slog.Int("bytes", len(p.content)),
	)

	return nil
}

// collectFileTemplates gathers the file templates a deployable value holds.
// The value must be a FileTemplate or a (possibly nested) list of them;
// plain data mixed into lists is skipped, but a bare path is an error since
// it names no content to write.
func collectFileTemplates(v lang.Value) ([]lang.FileTemplate, error) {
	switch val := v.(type) {
	case lang.FileTemplate:
		return []lang.FileTemplate{val}, nil

	case lang.List:
		var out []lang.FileTemplate

		for _, item := range val.Items {
			switch item.(type) {
			case lang.FileTemplate, lang.List:
				collected, err := collectFileTemplates(item)
				if err != nil {
					return nil, err
				}

				out = append(out, collected...)

			case lang.Path:
				return nil, NewError(
					"cannot deploy a bare path, use @path {...} to attach content",
				)

			default:
				// Plain data interleaved with templates is fine to skip.
			}
		}

		return out, nil

	default:
		return nil, NewError(
			"expected a file template or list of file templates, found " +
				v.Type().String(),
		)
	}
}

// File and directory modes for deployed artifacts.
const (
	defaultFileMode os.FileMode = 0o644
	defaultDirMode  os.FileMode = 0o755
)
