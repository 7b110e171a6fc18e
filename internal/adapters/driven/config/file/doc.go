// Package file provides file-based configuration and prompt storage.
// Configuration lives in a TOML file under the lexrag data directory;
// prompts are user-editable text files with embedded defaults.
package file
