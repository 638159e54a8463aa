// Package artifact loads compiled contract build artifacts from local build
// output directories.
//
// The store understands the Hardhat layout
// (artifacts/contracts/<sub>/Name.sol/Name.json) and the Truffle layout
// (build/contracts/Name.json). Search paths are explicit and instance-owned;
// there is no process-wide registry.
package artifact

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// DefaultBuildDir is the Hardhat build directory probed inside each search
// path.
const DefaultBuildDir = "artifacts/contracts"

// NotFoundError indicates no search path holds an artifact for the contract.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact: contract %q not found in %d searched locations", e.Name, len(e.Searched))
}

// Store locates and parses contract build artifacts.
type Store struct {
	searchPaths []string
	buildDir    string
}

// Option configures a Store.
type Option func(*Store)

// WithBuildDir overrides the Hardhat build directory probed inside each
// search path.
func WithBuildDir(dir string) Option {
	return func(s *Store) {
		s.buildDir = dir
	}
}

// NewStore creates a store over the given search paths. Every path must be
// an existing directory.
func NewStore(paths []string, opts ...Option) (*Store, error) {
	s := &Store{buildDir: DefaultBuildDir}
	for _, opt := range opts {
		opt(s)
	}
	for _, path := range paths {
		if err := s.AddSearchPath(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddSearchPath appends a directory to the artifact search paths. Duplicate
// paths are ignored.
func (s *Store) AddSearchPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("artifact: resolving %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("artifact: search path %q: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("artifact: search path %q is not a directory", path)
	}
	for _, existing := range s.searchPaths {
		if existing == abs {
			return nil
		}
	}
	s.searchPaths = append(s.searchPaths, abs)
	return nil
}

// SearchPaths returns the configured search paths in order.
func (s *Store) SearchPaths() []string {
	out := make([]string, len(s.searchPaths))
	copy(out, s.searchPaths)
	return out
}

// artifactFile is the subset of a build artifact this package reads.
type artifactFile struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode string          `json:"bytecode"`
}

// patterns returns the relative artifact locations probed for a contract,
// in precedence order.
func (s *Store) patterns(name string) []string {
	return []string{
		filepath.Join(s.buildDir, "main", name+".sol", name+".json"),
		filepath.Join(s.buildDir, name+".sol", name+".json"),
		filepath.Join(s.buildDir, "libs", name+".sol", name+".json"),
		filepath.Join("build", "contracts", name+".json"),
	}
}

// load finds and parses the artifact for a contract.
func (s *Store) load(name string) (*artifactFile, error) {
	searched := make([]string, 0, len(s.searchPaths)*4)
	for _, searchPath := range s.searchPaths {
		for _, pattern := range s.patterns(name) {
			candidate := filepath.Join(searchPath, pattern)
			raw, err := os.ReadFile(candidate)
			if err != nil {
				searched = append(searched, candidate)
				continue
			}
			var parsed artifactFile
			if err := json.Unmarshal(raw, &parsed); err != nil {
				return nil, fmt.Errorf("artifact: invalid artifact at %s: %w", candidate, err)
			}
			return &parsed, nil
		}
	}
	return nil, &NotFoundError{Name: name, Searched: searched}
}

// RawABI returns a contract's ABI as raw JSON.
func (s *Store) RawABI(name string) (json.RawMessage, error) {
	parsed, err := s.load(name)
	if err != nil {
		return nil, err
	}
	if len(parsed.ABI) == 0 {
		return nil, fmt.Errorf("artifact: contract %q has no abi field", name)
	}
	return parsed.ABI, nil
}

// ABI returns a contract's parsed ABI.
func (s *Store) ABI(name string) (abi.ABI, error) {
	raw, err := s.RawABI(name)
	if err != nil {
		return abi.ABI{}, err
	}
	parsed, err := abi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("artifact: contract %q: %w", name, err)
	}
	return parsed, nil
}

// Bytecode returns a contract's deployment bytecode as a hex string.
func (s *Store) Bytecode(name string) (string, error) {
	parsed, err := s.load(name)
	if err != nil {
		return "", err
	}
	if parsed.Bytecode == "" {
		return "0x", nil
	}
	return parsed.Bytecode, nil
}

// List returns the names of every compiled contract found under the search
// paths, sorted and de-duplicated.
func (s *Store) List() ([]string, error) {
	seen := make(map[string]bool)
	for _, searchPath := range s.searchPaths {
		root := filepath.Join(searchPath, s.buildDir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable subtree, keep walking the rest
			}
			if d.IsDir() || filepath.Ext(path) != ".json" {
				return nil
			}
			// Hardhat nests Name.json inside Name.sol directories.
			if filepath.Ext(filepath.Dir(path)) == ".sol" {
				seen[strings.TrimSuffix(d.Name(), ".json")] = true
			}
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact: walking %s: %w", root, err)
		}

		// Truffle keeps a flat Name.json layout.
		truffleDir := filepath.Join(searchPath, "build", "contracts")
		entries, err := os.ReadDir(truffleDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("artifact: reading %s: %w", truffleDir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
				seen[strings.TrimSuffix(entry.Name(), ".json")] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
