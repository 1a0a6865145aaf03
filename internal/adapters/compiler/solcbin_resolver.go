package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// DefaultSolcBinURL hosts the official solc builds
const DefaultSolcBinURL = "https://binaries.soliditylang.org"

const wasmPlatform = "wasm"

// solcList is the list.json published per platform
type solcList struct {
	Builds   []solcBuild       `json:"builds"`
	Releases map[string]string `json:"releases"`
}

type solcBuild struct {
	Path        string `json:"path"`
	Version     string `json:"version"`
	Prerelease  string `json:"prerelease,omitempty"`
	LongVersion string `json:"longVersion"`
	SHA256      string `json:"sha256"`
}

// SolcBinResolver downloads release builds of solc and caches them locally
type SolcBinResolver struct {
	baseURL    string
	cacheDir   string
	platform   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewSolcBinResolver creates a resolver for the host platform caching into
// the user cache directory
func NewSolcBinResolver(log *slog.Logger) *SolcBinResolver {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return NewSolcBinResolverWithOptions(DefaultSolcBinURL, filepath.Join(cacheDir, "aadeploy", "compilers"), HostPlatform(), log)
}

// NewSolcBinResolverWithOptions creates a resolver with an explicit mirror, cache and platform
func NewSolcBinResolverWithOptions(baseURL, cacheDir, platform string, log *slog.Logger) *SolcBinResolver {
	return &SolcBinResolver{
		baseURL:  strings.TrimRight(baseURL, "/"),
		cacheDir: cacheDir,
		platform: platform,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		log: log,
	}
}

// HostPlatform returns the solc-bin platform of this machine, or "wasm" when
// no native build is published for it
func HostPlatform() string {
	switch {
	case runtime.GOOS == "linux" && runtime.GOARCH == "amd64":
		return "linux-amd64"
	case runtime.GOOS == "darwin":
		return "macosx-amd64"
	case runtime.GOOS == "windows" && runtime.GOARCH == "amd64":
		return "windows-amd64"
	default:
		return wasmPlatform
	}
}

// Resolve returns the release build of version, downloading it on first use.
// Versions missing from the native list fall back to the wasm list.
func (r *SolcBinResolver) Resolve(ctx context.Context, version string) (*config.CompilerBuild, error) {
	v, err := goversion.NewSemver(version)
	if err != nil {
		return nil, fmt.Errorf("invalid compiler version %q: %w", version, err)
	}
	if v.Prerelease() != "" {
		return nil, fmt.Errorf("compiler version %s is not a release", version)
	}

	platforms := []string{r.platform}
	if r.platform != wasmPlatform {
		platforms = append(platforms, wasmPlatform)
	}

	for _, platform := range platforms {
		build, err := r.findBuild(ctx, platform, version)
		if err != nil {
			return nil, err
		}
		if build == nil {
			r.log.Debug("no solc build for platform", "platform", platform, "version", version)
			continue
		}

		path, err := r.ensureDownloaded(ctx, platform, build)
		if err != nil {
			return nil, err
		}

		return &config.CompilerBuild{
			CompilerPath: path,
			IsSolcJs:     platform == wasmPlatform,
			Version:      build.Version,
			LongVersion:  build.LongVersion,
		}, nil
	}

	return nil, fmt.Errorf("no solc release build for version %s", version)
}

// findBuild looks the version up in the platform list, refreshing the cached
// list when the version is missing
func (r *SolcBinResolver) findBuild(ctx context.Context, platform, version string) (*solcBuild, error) {
	listPath := filepath.Join(r.cacheDir, platform, "list.json")

	if list, err := readList(listPath); err == nil {
		if build := list.release(version); build != nil {
			return build, nil
		}
	}

	data, err := r.fetch(ctx, fmt.Sprintf("%s/%s/list.json", r.baseURL, platform))
	if err != nil {
		return nil, fmt.Errorf("failed to download solc list for %s: %w", platform, err)
	}

	var list solcList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse solc list for %s: %w", platform, err)
	}

	if err := os.MkdirAll(filepath.Dir(listPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create compiler cache: %w", err)
	}
	if err := os.WriteFile(listPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to cache solc list: %w", err)
	}

	return list.release(version), nil
}

func (l *solcList) release(version string) *solcBuild {
	path, ok := l.Releases[version]
	if !ok {
		return nil
	}
	for i := range l.Builds {
		b := &l.Builds[i]
		if b.Path == path && b.Prerelease == "" {
			return b
		}
	}
	return nil
}

// ensureDownloaded returns the cached compiler path, downloading and
// verifying the build when it's missing or corrupt
func (r *SolcBinResolver) ensureDownloaded(ctx context.Context, platform string, build *solcBuild) (string, error) {
	path := filepath.Join(r.cacheDir, platform, build.Path)

	if data, err := os.ReadFile(path); err == nil {
		if verifySHA256(data, build.SHA256) == nil {
			return path, nil
		}
		r.log.Warn("cached compiler is corrupt, downloading again", "path", path)
	}

	r.log.Info("downloading compiler", "version", build.LongVersion, "platform", platform)

	data, err := r.fetch(ctx, fmt.Sprintf("%s/%s/%s", r.baseURL, platform, build.Path))
	if err != nil {
		return "", fmt.Errorf("failed to download solc %s: %w", build.LongVersion, err)
	}
	if err := verifySHA256(data, build.SHA256); err != nil {
		return "", fmt.Errorf("solc %s: %w", build.LongVersion, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create compiler cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0755); err != nil {
		return "", fmt.Errorf("failed to write compiler: %w", err)
	}

	return path, nil
}

func (r *SolcBinResolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func readList(path string) (*solcList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list solcList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func verifySHA256(data []byte, expected string) error {
	sum := sha256.Sum256(data)
	actual := hex.EncodeToString(sum[:])
	if !strings.EqualFold(actual, strings.TrimPrefix(expected, "0x")) {
		return fmt.Errorf("checksum mismatch: expected %s, got 0x%s", expected, actual)
	}
	return nil
}

// Ensure the adapter implements the interface
var _ usecase.BuildResolver = (*SolcBinResolver)(nil)
