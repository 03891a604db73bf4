// Package selfupdate finds newer adhyaya releases on GitHub and replaces the
// running binary with one of them.
package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/adhyaya/adhyaya/internal/logger"
)

const binaryName = "adhyaya"

// Channel selects which releases count as candidates.
type Channel string

const (
	// ChannelStable follows GitHub's "latest release", which skips
	// prereleases.
	ChannelStable Channel = "stable"
	// ChannelPrerelease considers every published release, including
	// -rc and -beta tags.
	ChannelPrerelease Channel = "prerelease"
)

// ParseChannel accepts "stable", "prerelease" or "" (stable).
func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case "", ChannelStable:
		return ChannelStable, nil
	case ChannelPrerelease:
		return ChannelPrerelease, nil
	}
	return "", fmt.Errorf("unknown release channel %q", s)
}

// Checker resolves releases for one repository and channel.
type Checker struct {
	client      *http.Client
	apiURL      string
	downloadURL string
	owner       string
	repo        string
	channel     Channel
	log         *logger.Logger
	execPath    func() (string, error)
}

type Option func(*Checker)

// WithBaseURL overrides the GitHub API host.
func WithBaseURL(url string) Option {
	return func(c *Checker) { c.apiURL = strings.TrimRight(url, "/") }
}

// WithDownloadBaseURL overrides the host release assets are fetched from.
func WithDownloadBaseURL(url string) Option {
	return func(c *Checker) { c.downloadURL = strings.TrimRight(url, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRepository points the checker at owner/repo. Blank parts keep the
// current value.
func WithRepository(owner, repo string) Option {
	return func(c *Checker) {
		if owner != "" {
			c.owner = owner
		}
		if repo != "" {
			c.repo = repo
		}
	}
}

func WithChannel(ch Channel) Option {
	return func(c *Checker) { c.channel = ch }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.log = l
		}
	}
}

func withExecPath(fn func() (string, error)) Option {
	return func(c *Checker) { c.execPath = fn }
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:      &http.Client{Timeout: 15 * time.Second},
		apiURL:      "https://api.github.com",
		downloadURL: "https://github.com",
		owner:       binaryName,
		repo:        binaryName,
		channel:     ChannelStable,
		log:         logger.NewNop(),
		execPath:    os.Executable,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repository returns "owner/repo".
func (c *Checker) Repository() string {
	return c.owner + "/" + c.repo
}

// Release is a published release tag.
type Release struct {
	Tag        string `json:"tag_name"`
	URL        string `json:"html_url"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// Latest returns the newest release on the checker's channel.
func (c *Checker) Latest(ctx context.Context) (Release, error) {
	if c.channel == ChannelPrerelease {
		var all []Release
		if err := c.getJSON(ctx, "/releases?per_page=30", &all); err != nil {
			return Release{}, fmt.Errorf("list releases: %w", err)
		}
		return newestOf(all)
	}

	var rel Release
	if err := c.getJSON(ctx, "/releases/latest", &rel); err != nil {
		return Release{}, fmt.Errorf("fetch latest release: %w", err)
	}
	return rel, nil
}

// newestOf picks the highest semver tag among published releases.
func newestOf(all []Release) (Release, error) {
	var best Release
	for _, r := range all {
		v := canonical(r.Tag)
		if r.Draft || v == "" {
			continue
		}
		if best.Tag == "" || semver.Compare(v, canonical(best.Tag)) > 0 {
			best = r
		}
	}
	if best.Tag == "" {
		return Release{}, fmt.Errorf("no published releases with a version tag")
	}
	return best, nil
}

func (c *Checker) getJSON(ctx context.Context, path string, dst any) error {
	url := fmt.Sprintf("%s/repos/%s/%s%s", c.apiURL, c.owner, c.repo, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", binaryName+"-selfupdate")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

type CheckInput struct {
	Version string
}

type CheckResult struct {
	Repository      string
	Channel         Channel
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

// Check compares input.Version with the newest release on the channel.
// Development builds never report an update.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	rel, err := c.Latest(ctx)
	if err != nil {
		c.log.Warn("release check failed", "repo", c.Repository(), "channel", c.channel, "error", err)
		return nil, err
	}

	res := &CheckResult{
		Repository:     c.Repository(),
		Channel:        c.channel,
		CurrentVersion: input.Version,
		LatestVersion:  rel.Tag,
		ReleaseURL:     rel.URL,
	}
	current, latest := canonical(input.Version), canonical(rel.Tag)
	if current != "" && latest != "" {
		res.UpdateAvailable = semver.Compare(latest, current) > 0
	}
	c.log.Debug("release checked", "repo", res.Repository, "channel", res.Channel,
		"current", res.CurrentVersion, "latest", res.LatestVersion, "available", res.UpdateAvailable)
	return res, nil
}

// Summary is the text `adhyaya update --check` prints.
func (r *CheckResult) Summary() string {
	switch {
	case r.UpdateAvailable:
		return fmt.Sprintf("Update available: %s → %s\n%s", r.CurrentVersion, r.LatestVersion, r.ReleaseURL)
	case isDevBuild(r.CurrentVersion):
		return fmt.Sprintf("Development build; the latest %s release of %s is %s.", r.Channel, r.Repository, r.LatestVersion)
	}
	return fmt.Sprintf("Up to date (%s).", r.CurrentVersion)
}

func isDevBuild(v string) bool {
	return v == "" || v == "(devel)" || v == "dev"
}

// canonical returns a "v"-prefixed semver or "" when v is not one.
func canonical(v string) string {
	if isDevBuild(v) {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
