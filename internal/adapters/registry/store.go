package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
)

const DeploymentsFile = "deployments.json"

// Store persists deployment records under the data directory.
// Records are keyed by network and contract name; the latest deployment wins.
type Store struct {
	dataDir string
	mu      sync.RWMutex
	loaded  bool
	records map[string]*domain.DeploymentRecord
}

// NewStore creates a store rooted at cfg.DataDir
func NewStore(cfg *config.RuntimeConfig) *Store {
	return NewStoreAt(cfg.DataDir)
}

// NewStoreAt creates a store rooted at dataDir
func NewStoreAt(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		records: make(map[string]*domain.DeploymentRecord),
	}
}

func recordKey(network, contractName string) string {
	return network + "/" + contractName
}

func (s *Store) path() string {
	return filepath.Join(s.dataDir, DeploymentsFile)
}

// load reads the registry file once; a missing file is an empty registry
func (s *Store) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", DeploymentsFile, err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return fmt.Errorf("failed to parse %s: %w", DeploymentsFile, err)
	}
	if s.records == nil {
		s.records = make(map[string]*domain.DeploymentRecord)
	}
	s.loaded = true
	return nil
}

func (s *Store) save() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dataDir, err)
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deployments: %w", err)
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", DeploymentsFile, err)
	}
	return os.Rename(tmp, s.path())
}

// Save records a deployment, replacing an earlier one of the same contract on the network
func (s *Store) Save(ctx context.Context, record *domain.DeploymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	s.records[recordKey(record.Network, record.ContractName)] = record
	return s.save()
}

// Get returns the latest deployment of a contract on a network
func (s *Store) Get(ctx context.Context, network, contractName string) (*domain.DeploymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	record, ok := s.records[recordKey(network, contractName)]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", domain.ErrNotFound, contractName, network)
	}
	return record, nil
}

// List returns deployments, optionally limited to one network, sorted by network then name
func (s *Store) List(ctx context.Context, network string) ([]*domain.DeploymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	var result []*domain.DeploymentRecord
	for _, record := range s.records {
		if network != "" && record.Network != network {
			continue
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Network != result[j].Network {
			return result[i].Network < result[j].Network
		}
		return result[i].ContractName < result[j].ContractName
	})
	return result, nil
}
