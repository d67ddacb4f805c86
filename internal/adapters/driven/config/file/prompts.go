package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/prompts"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptExt is the file extension of prompt templates.
const promptExt = ".txt"

// PromptStore loads LLM prompts from user-editable files on disk.
// Missing or unreadable files fall back to the built-in templates.
//
// The directory and default files are created lazily on the first Load,
// so constructing a store performs no I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.treatyrag/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// User files take precedence; an empty file counts as missing.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if def, ok := prompts.Default(name); ok {
			return def, nil
		}
		if err == nil {
			err = errors.New("empty file")
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Names returns the prompts the store knows defaults for, sorted.
func (s *PromptStore) Names() []string {
	names := make([]string, 0, len(prompts.Defaults()))
	for name := range prompts.Defaults() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// initialise creates the prompt directory, default files and README.
// Failure is remembered; Load still serves built-in defaults.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range prompts.Defaults() {
		path := s.path(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// InitErr reports why the prompt directory could not be prepared, if it couldn't.
func (s *PromptStore) InitErr() error {
	s.initOnce.Do(s.initialise)
	return s.initErr
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+promptExt)
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	var b strings.Builder
	b.WriteString("# Treaty RAG prompts\n\n")
	b.WriteString("Each file holds one template used by reranking, evaluation or briefings.\n")
	b.WriteString("Delete a file to restore its default on the next run.\n\n## Files\n\n")
	for _, name := range s.Names() {
		fmt.Fprintf(&b, "- `%s%s`\n", name, promptExt)
	}
	b.WriteString("\n## Placeholders\n\n")
	b.WriteString("Templates use Go fmt verbs (`%s`, `%d`). Keep the same verbs in the same\n")
	b.WriteString("order when editing; a template that fails to render falls back to the default.\n\n")
	b.WriteString("`treatyrag serve` picks up edits without a restart.\n")
	return os.WriteFile(path, []byte(b.String()), 0o600)
}
