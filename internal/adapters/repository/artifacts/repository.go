package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/sahilm/fuzzy"
)

// Repository indexes the compiled artifacts under the artifacts directory.
// Hardhat/Buidler and Foundry layouts are both understood.
type Repository struct {
	dir     string
	log     *slog.Logger
	mu      sync.RWMutex
	indexed bool
	byKey   map[string]*domain.Artifact   // key: "path:Name"
	byName  map[string][]*domain.Artifact // key: contract name
}

// NewRepository creates a repository over cfg.ArtifactsDir
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return NewRepositoryAt(cfg.ArtifactsDir, log)
}

// NewRepositoryAt creates a repository over an explicit directory
func NewRepositoryAt(dir string, log *slog.Logger) *Repository {
	return &Repository{
		dir:    dir,
		log:    log.With("component", "artifacts"),
		byKey:  make(map[string]*domain.Artifact),
		byName: make(map[string][]*domain.Artifact),
	}
}

// Dir returns the indexed directory
func (r *Repository) Dir() string {
	return r.dir
}

// Index walks the artifacts directory once
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	if _, err := os.Stat(r.dir); err != nil {
		return fmt.Errorf("artifacts directory %s: %w (compile the contracts first)", r.dir, err)
	}

	err := filepath.Walk(r.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		artifact, err := r.parse(path)
		if err != nil {
			r.log.Debug("skipping artifact", "path", path, "error", err)
			return nil
		}
		if artifact != nil {
			r.add(artifact)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}

	r.indexed = true
	r.log.Debug("indexed artifacts", "dir", r.dir, "count", len(r.byKey))
	return nil
}

// Get resolves a contract by name or by path:Name
func (r *Repository) Get(ctx context.Context, name string) (*domain.Artifact, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if strings.Contains(name, ":") {
		if artifact, ok := r.byKey[name]; ok {
			return artifact, nil
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
	}

	matches := r.byName[name]
	if len(matches) == 0 {
		// Fall back to a case-insensitive match
		for candidate, list := range r.byName {
			if strings.EqualFold(candidate, name) {
				matches = append(matches, list...)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return nil, domain.AmbiguousArtifactErr{Name: name, Matches: matches}
	}
}

// Search returns artifacts whose path:Name fuzzily matches pattern, best first
func (r *Repository) Search(ctx context.Context, pattern string) ([]*domain.Artifact, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		return all, nil
	}

	matches := fuzzy.FindFrom(pattern, artifactSource(all))
	results := make([]*domain.Artifact, 0, len(matches))
	for _, match := range matches {
		results = append(results, all[match.Index])
	}
	return results, nil
}

// List returns every indexed artifact sorted by path:Name
func (r *Repository) List(ctx context.Context) ([]*domain.Artifact, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Artifact, 0, len(r.byKey))
	for _, artifact := range r.byKey {
		all = append(all, artifact)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Key() < all[j].Key()
	})
	return all, nil
}

func (r *Repository) add(artifact *domain.Artifact) {
	key := artifact.Key()
	if _, exists := r.byKey[key]; exists {
		return
	}
	r.byKey[key] = artifact
	r.byName[artifact.Name] = append(r.byName[artifact.Name], artifact)
}

// rawArtifact covers both layouts: Hardhat stores bytecode as a string,
// Foundry as {"object": "0x..."} with the source in metadata.
type rawArtifact struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         json.RawMessage `json:"bytecode"`
	DeployedBytecode json.RawMessage `json:"deployedBytecode"`
	Metadata         json.RawMessage `json:"metadata"`
}

type foundryBytecode struct {
	Object string `json:"object"`
}

type foundryMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// parse returns nil, nil for JSON files that are not deployable contracts
func (r *Repository) parse(path string) (*domain.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.ABI) == 0 {
		return nil, nil
	}

	bytecode, format := decodeBytecode(raw.Bytecode)
	deployed, _ := decodeBytecode(raw.DeployedBytecode)
	if bytecode == "" || bytecode == "0x" {
		// interfaces and abstract contracts
		return nil, nil
	}

	name, source := raw.ContractName, raw.SourceName
	if name == "" || source == "" {
		targetSource, targetName := compilationTarget(raw.Metadata)
		if name == "" {
			name = targetName
		}
		if source == "" {
			source = targetSource
		}
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if source == "" {
		// out/<File>.sol/<Name>.json and artifacts/<File>.sol/<Name>.json
		source = filepath.Base(filepath.Dir(path))
	}

	rel, err := filepath.Rel(r.dir, path)
	if err != nil {
		rel = path
	}

	return &domain.Artifact{
		Name:             name,
		SourcePath:       filepath.ToSlash(source),
		ArtifactPath:     filepath.ToSlash(rel),
		Format:           format,
		ABI:              raw.ABI,
		Bytecode:         bytecode,
		DeployedBytecode: deployed,
	}, nil
}

func decodeBytecode(raw json.RawMessage) (string, domain.ArtifactFormat) {
	if len(raw) == 0 {
		return "", domain.ArtifactFormatHardhat
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, domain.ArtifactFormatHardhat
	}
	var obj foundryBytecode
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Object, domain.ArtifactFormatFoundry
	}
	return "", domain.ArtifactFormatHardhat
}

func compilationTarget(raw json.RawMessage) (source, name string) {
	if len(raw) == 0 {
		return "", ""
	}
	var meta foundryMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		// Older solc output embeds metadata as a JSON string
		var embedded string
		if json.Unmarshal(raw, &embedded) != nil || json.Unmarshal([]byte(embedded), &meta) != nil {
			return "", ""
		}
	}
	for s, n := range meta.Settings.CompilationTarget {
		return s, n
	}
	return "", ""
}

type artifactSource []*domain.Artifact

func (s artifactSource) String(i int) string { return s[i].Key() }
func (s artifactSource) Len() int            { return len(s) }
