package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
)

// UpdateInput describes the running build. TargetVersion pins a release
// tag; empty means the newest release on the checker's channel.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

type UpdateProgress struct {
	Stage   string
	Message string
}

// install carries state between update stages.
type install struct {
	tag     string
	asset   string
	archive []byte
	binary  []byte
	target  string
}

type stage struct {
	name string
	msg  func(*install) string
	run  func(context.Context, *install) error
}

func (c *Checker) stages() []stage {
	return []stage{
		{"download", func(in *install) string { return "Downloading " + in.tag + "..." }, c.download},
		{"verify", func(*install) string { return "Verifying checksum..." }, c.verifyArchive},
		{"extract", func(*install) string { return "Extracting binary..." }, extract},
		{"apply", func(*install) string { return "Applying update..." }, c.apply},
	}
}

// Update installs a release over the running executable. progress may be
// nil; every stage is also logged.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if progress == nil {
		progress = func(UpdateProgress) {}
	}
	if isDevBuild(input.CurrentVersion) {
		return ErrDevBuild
	}

	asset, err := assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	in := &install{asset: asset}

	if in.tag, err = c.resolveTag(ctx, input, progress); err != nil {
		return err
	}

	log := c.log.With("repo", c.Repository(), "tag", in.tag, "asset", asset)
	for _, s := range c.stages() {
		progress(UpdateProgress{Stage: s.name, Message: s.msg(in)})
		log.Debug("update stage", "stage", s.name)
		if err := s.run(ctx, in); err != nil {
			log.Error("update failed", "stage", s.name, "error", err)
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	log.Info("update installed", "from", input.CurrentVersion, "path", in.target)
	progress(UpdateProgress{Stage: "done", Message: "Updated to " + in.tag})
	return nil
}

func (c *Checker) resolveTag(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) (string, error) {
	if pinned := strings.TrimSpace(input.TargetVersion); pinned != "" {
		v := canonical(pinned)
		if v == "" {
			return "", fmt.Errorf("invalid release version %q", pinned)
		}
		if v == canonical(input.CurrentVersion) {
			return "", ErrAlreadyLatest
		}
		if !strings.HasPrefix(pinned, "v") {
			pinned = "v" + pinned
		}
		return pinned, nil
	}

	progress(UpdateProgress{Stage: "check", Message: fmt.Sprintf("Checking %s for the latest %s release...", c.Repository(), c.channel)})
	res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}
	if !res.UpdateAvailable {
		return "", ErrAlreadyLatest
	}
	return res.LatestVersion, nil
}

func (c *Checker) assetURL(tag, name string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", c.downloadURL, c.owner, c.repo, tag, name)
}

func (c *Checker) download(ctx context.Context, in *install) (err error) {
	in.archive, err = c.fetch(ctx, c.assetURL(in.tag, in.asset))
	return err
}

func (c *Checker) verifyArchive(ctx context.Context, in *install) error {
	listing, err := c.fetch(ctx, c.assetURL(in.tag, "checksums.txt"))
	if err != nil {
		return fmt.Errorf("checksums: %w", err)
	}
	want, err := checksumFor(listing, in.asset)
	if err != nil {
		return err
	}
	return verify(in.archive, want)
}

func extract(_ context.Context, in *install) (err error) {
	in.binary, err = unpack(in.archive, in.asset)
	return err
}

func (c *Checker) apply(_ context.Context, in *install) error {
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	in.target = target
	return replaceExecutable(target, in.binary)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", binaryName+"-selfupdate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
