package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrDevBuild            = errors.New("cannot update a development build")
	ErrAlreadyLatest       = errors.New("already running the latest version")
	ErrChecksum            = errors.New("checksum verification failed")
	ErrUnsupportedPlatform = errors.New("no release build for this platform")
)

// Stage names one step of the update flow.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageApply    Stage = "apply"
)

// Progress is called once per stage with a printable message. A nil
// Progress is allowed.
type Progress func(stage Stage, message string)

// releaseAsset names the archive a platform downloads and the binary
// inside it. Releases ship tarballs for linux and darwin and a zip for
// windows, amd64 and arm64 each.
type releaseAsset struct {
	archive string
	binary  string
}

func (c *Checker) releaseAsset(goos, goarch string) (releaseAsset, error) {
	switch goarch {
	case "amd64", "arm64":
	default:
		return releaseAsset{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
	switch goos {
	case "linux", "darwin":
		return releaseAsset{
			archive: fmt.Sprintf("%s_%s_%s.tar.gz", c.repo, goos, goarch),
			binary:  c.repo,
		}, nil
	case "windows":
		return releaseAsset{
			archive: fmt.Sprintf("%s_%s_%s.zip", c.repo, goos, goarch),
			binary:  c.repo + ".exe",
		}, nil
	default:
		return releaseAsset{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
}

func (c *Checker) downloadURL(tag, file string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, file)
}

func (c *Checker) checksumsName() string {
	return c.repo + "_checksums.txt"
}

// Update replaces the running binary with the release named by targetTag,
// or with the latest release when targetTag is empty. It returns the tag
// that was installed.
func (c *Checker) Update(ctx context.Context, currentVersion, targetTag string, report Progress) (string, error) {
	if report == nil {
		report = func(Stage, string) {}
	}
	if currentVersion == "(devel)" {
		return "", ErrDevBuild
	}

	tag := targetTag
	if tag == "" {
		report(StageCheck, "Checking for the latest release...")
		result, err := c.Check(ctx, &CheckInput{Version: currentVersion})
		if err != nil {
			return "", fmt.Errorf("check for updates: %w", err)
		}
		if !result.UpdateAvailable {
			return "", ErrAlreadyLatest
		}
		tag = result.LatestVersion
	}

	asset, err := c.releaseAsset(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}

	// The checksum file comes first so a release missing our platform
	// fails before the large download.
	report(StageDownload, fmt.Sprintf("Downloading %s...", tag))
	sums, err := c.fetchChecksums(ctx, tag)
	if err != nil {
		return "", err
	}
	wantHex, ok := sums[asset.archive]
	if !ok {
		return "", fmt.Errorf("release %s has no checksum for %s", tag, asset.archive)
	}
	archive, err := c.fetch(ctx, c.downloadURL(tag, asset.archive))
	if err != nil {
		return "", fmt.Errorf("download archive: %w", err)
	}

	report(StageVerify, "Verifying checksum...")
	if err := verifyChecksum(archive, wantHex); err != nil {
		return "", err
	}

	report(StageApply, fmt.Sprintf("Installing %s...", tag))
	binary, err := asset.extract(archive)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", asset.binary, err)
	}
	target, err := c.execPath()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	if err := swapBinary(target, binary); err != nil {
		return "", err
	}
	return tag, nil
}

// fetchChecksums downloads and parses the release's checksum file, keyed
// by asset file name.
func (c *Checker) fetchChecksums(ctx context.Context, tag string) (map[string]string, error) {
	data, err := c.fetch(ctx, c.downloadURL(tag, c.checksumsName()))
	if err != nil {
		return nil, fmt.Errorf("download checksums: %w", err)
	}
	sums := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		sums[fields[1]] = fields[0]
	}
	return sums, sc.Err()
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
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

func verifyChecksum(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != wantHex {
		return fmt.Errorf("%w: want %s, got %s", ErrChecksum, wantHex, got)
	}
	return nil
}

func (a releaseAsset) extract(archive []byte) ([]byte, error) {
	if strings.HasSuffix(a.archive, ".zip") {
		return extractZip(archive, a.binary)
	}
	return extractTarGz(archive, a.binary)
}

func extractTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("%q not found in archive", name)
}

func extractZip(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%q not found in archive", name)
}

// swapBinary atomically replaces target with data. The temp file lives in
// the target's directory so the final rename stays on one filesystem, and
// it inherits the target's mode before the swap.
func swapBinary(target string, data []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp, info.Mode()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("install binary: %w", err)
	}
	return nil
}
