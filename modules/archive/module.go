// Package archive implements the release-archive task: the task's resolved
// sources packed into a gzip-compressed tarball.
package archive

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the archive task.
type Input struct {
	// Output is the archive path, relative to the project root.
	Output string `hcl:"output"`
	// Prefix is prepended to every entry name inside the archive, so the
	// tarball unpacks into a single versioned directory.
	Prefix string `hcl:"prefix,optional"`
}

// OnRunArchive packs the task's sources into a tar.gz archive.
func OnRunArchive(ctx context.Context, rc *registry.RunContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	sources, err := rc.Sources()
	if err != nil {
		return errors.Wrap(err, "failed to resolve archive sources")
	}
	if len(sources) == 0 {
		return errors.Errorf("archive %q matched no files", rc.Task.ID())
	}

	outPath := filepath.Join(rc.Project.Root, in.Output)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "failed to create archive")
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, src := range sources {
		if err := addFile(tw, rc.Project.Root, src, in.Prefix); err != nil {
			return errors.Wrapf(err, "failed to archive %q", src)
		}
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(err, "failed to finish tar stream")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "failed to finish gzip stream")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "failed to finish archive")
	}

	logger.Info("Archive written.", "output", in.Output, "files", len(sources))
	return nil
}

// addFile writes one source file into the tar stream.
func addFile(tw *tar.Writer, root, src, prefix string) error {
	path := filepath.Join(root, src)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(filepath.Join(prefix, src))

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(tw, file)
	return err
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("archive", &registry.RegisteredTask{
		NewInput: func() any { return new(Input) },
		Run:      OnRunArchive,
	})
}
