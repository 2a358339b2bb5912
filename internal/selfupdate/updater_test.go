package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseAsset(t *testing.T) {
	c := NewChecker()

	tests := []struct {
		goos, goarch string
		wantArchive  string
		wantBinary   string
		wantErr      error
	}{
		{"linux", "amd64", "lernbox_linux_amd64.tar.gz", "lernbox", nil},
		{"linux", "arm64", "lernbox_linux_arm64.tar.gz", "lernbox", nil},
		{"darwin", "amd64", "lernbox_darwin_amd64.tar.gz", "lernbox", nil},
		{"darwin", "arm64", "lernbox_darwin_arm64.tar.gz", "lernbox", nil},
		{"windows", "amd64", "lernbox_windows_amd64.zip", "lernbox.exe", nil},
		{"linux", "386", "", "", ErrUnsupportedPlatform},
		{"freebsd", "amd64", "", "", ErrUnsupportedPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			asset, err := c.releaseAsset(tt.goos, tt.goarch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantArchive, asset.archive)
			assert.Equal(t, tt.wantBinary, asset.binary)
		})
	}
}

func TestFetchChecksums(t *testing.T) {
	body := "abc123  lernbox_linux_amd64.tar.gz\n" +
		"malformed line with too many fields here\n" +
		"\n" +
		"def456  lernbox_darwin_arm64.tar.gz\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lernbox/lernbox/releases/download/v1.2.0/lernbox_checksums.txt", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	c := NewChecker(WithDownloadBaseURL(server.URL))
	sums, err := c.fetchChecksums(context.Background(), "v1.2.0")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"lernbox_linux_amd64.tar.gz":  "abc123",
		"lernbox_darwin_arm64.tar.gz": "def456",
	}, sums)
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(sum[:])))

	err := verifyChecksum(data, "0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		latestTag     string
		wantAvailable bool
	}{
		{"newer release", "v1.0.0", "v2.0.0", true},
		{"same version", "v1.0.0", "v1.0.0", false},
		{"older release", "v2.0.0", "v1.0.0", false},
		{"tag without v prefix", "v1.0.0", "1.1.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com"}`, tt.latestTag)
			}))
			defer server.Close()

			checker := NewChecker(WithBaseURL(server.URL))
			result, err := checker.Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, result.UpdateAvailable)
			assert.Equal(t, tt.latestTag, result.LatestVersion)
		})
	}
}

func TestExtract(t *testing.T) {
	content := []byte("#!/bin/sh\necho lernbox")

	t.Run("tar.gz", func(t *testing.T) {
		asset := releaseAsset{archive: "lernbox_linux_amd64.tar.gz", binary: "lernbox"}
		got, err := asset.extract(buildTarGz(t, "lernbox", content))
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("zip", func(t *testing.T) {
		asset := releaseAsset{archive: "lernbox_windows_amd64.zip", binary: "lernbox.exe"}
		got, err := asset.extract(buildZip(t, "lernbox.exe", content))
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("binary missing", func(t *testing.T) {
		asset := releaseAsset{archive: "lernbox_linux_amd64.tar.gz", binary: "lernbox"}
		_, err := asset.extract(buildTarGz(t, "README.md", content))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestSwapBinary(t *testing.T) {
	target := filepath.Join(t.TempDir(), "lernbox")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

	require.NoError(t, swapBinary(target, []byte("new-binary")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-binary"), got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestUpdate(t *testing.T) {
	asset, err := NewChecker().releaseAsset(runtime.GOOS, runtime.GOARCH)
	require.NoError(t, err)

	content := []byte("new-lernbox-binary")
	var archive []byte
	if filepath.Ext(asset.archive) == ".zip" {
		archive = buildZip(t, asset.binary, content)
	} else {
		archive = buildTarGz(t, asset.binary, content)
	}
	archiveSum := sha256.Sum256(archive)
	checksums := fmt.Sprintf("%s  %s\n", hex.EncodeToString(archiveSum[:]), asset.archive)

	releaseServer := func(t *testing.T, checksums string) *httptest.Server {
		t.Helper()
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/repos/lernbox/lernbox/releases/latest":
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			case "/lernbox/lernbox/releases/download/v2.0.0/lernbox_checksums.txt":
				_, _ = w.Write([]byte(checksums))
			case "/lernbox/lernbox/releases/download/v2.0.0/" + asset.archive:
				_, _ = w.Write(archive)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
	}

	t.Run("latest release installed", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), asset.binary)
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

		server := releaseServer(t, checksums)
		defer server.Close()

		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)

		var stages []Stage
		tag, err := checker.Update(context.Background(), "v1.0.0", "", func(s Stage, _ string) {
			stages = append(stages, s)
		})
		require.NoError(t, err)
		assert.Equal(t, "v2.0.0", tag)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, content, got)

		assert.Equal(t, []Stage{StageCheck, StageDownload, StageVerify, StageApply}, stages)
	})

	t.Run("pinned tag skips the check", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), asset.binary)
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

		server := releaseServer(t, checksums)
		defer server.Close()

		checker := NewChecker(
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)

		var stages []Stage
		tag, err := checker.Update(context.Background(), "v1.0.0", "v2.0.0", func(s Stage, _ string) {
			stages = append(stages, s)
		})
		require.NoError(t, err)
		assert.Equal(t, "v2.0.0", tag)
		assert.NotContains(t, stages, StageCheck)
	})

	t.Run("dev build", func(t *testing.T) {
		_, err := NewChecker().Update(context.Background(), "(devel)", "", nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tag_name":"v1.0.0","html_url":"https://example.com/v1.0.0"}`))
		}))
		defer server.Close()

		checker := NewChecker(WithBaseURL(server.URL))
		_, err := checker.Update(context.Background(), "v1.0.0", "", nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		bad := fmt.Sprintf("%064d  %s\n", 0, asset.archive)
		server := releaseServer(t, bad)
		defer server.Close()

		checker := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		_, err := checker.Update(context.Background(), "v1.0.0", "", nil)
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("release without our platform", func(t *testing.T) {
		server := releaseServer(t, "abc123  some_other_asset.tar.gz\n")
		defer server.Close()

		checker := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		_, err := checker.Update(context.Background(), "v1.0.0", "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no checksum for")
	})

	t.Run("archive download failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/repos/lernbox/lernbox/releases/latest":
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			case "/lernbox/lernbox/releases/download/v2.0.0/lernbox_checksums.txt":
				_, _ = w.Write([]byte(checksums))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		checker := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		_, err := checker.Update(context.Background(), "v1.0.0", "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0755}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create(name)
	require.NoError(t, err)
	_, err = f.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
