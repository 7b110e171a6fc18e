package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptQueryExpand: `You are an expert legal research assistant. Generate 3 to 5 distinct search
queries based on the user's question. The queries will be used to retrieve
relevant passages from a collection of legal documents.

Guidelines:
1. Translate layman's terms into the legal terminology the source documents
   are likely to use (e.g. "stop order" becomes "temporary injunction").
2. Do not invent specific citations, section numbers, or jurisdictions unless
   the user explicitly provided them. Your role is to find the provision, not
   to assume you already know it.
3. Include at least one broad query for the general concept and at least one
   specific query targeting procedural details, conditions, or exceptions.

Output ONLY the generated queries, one per line. Do not number them or add
any introductory text.

Question: %s`,

	driven.PromptAnswer: `You are a senior legal expert AI. You are given a question and a set of
numbered context passages retrieved from a collection of legal documents.

Answer the question using ONLY the provided context.

Guidelines:
1. Citation is mandatory. After every claim, mark the supporting passage with
   its number in square brackets, e.g. [1] or [2][3]. Cite only passages that
   actually support the claim.
2. Start with a direct answer, then explain the procedural details, steps,
   requirements, or conditions found in the passages.
3. Explicitly mention any provisos or exceptions present in the context.
4. Maintain a professional, objective tone. Do not offer personal legal
   advice or opinions.
5. If the context does not contain the answer, state: "The provided context
   does not contain sufficient information to answer this question." Do not
   invent provisions not present in the passages.

Context:
%s

Question:
%s

Answer:`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.lexrag/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".lexrag", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
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

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Lexrag Prompts

This directory contains customisable prompts used by lexrag's LLM features.

## Files

- ` + "`answer.txt`" + ` - Composes an answer from retrieved passages
- ` + "`query_expand.txt`" + ` - Expands a question into multiple search queries

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command invocation.

## Format Placeholders

Prompts use Go format verbs that are substituted at runtime:

- ` + "`answer.txt`" + `: first %s is the numbered context, second %s is the question
- ` + "`query_expand.txt`" + `: %s is the question

Keep the placeholders intact when editing. Delete a file to restore the
built-in default on the next run.
`

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("create prompts README: %w", err)
	}
	return nil
}
