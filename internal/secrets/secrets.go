// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads local settings from a directory of plain-text files.
// Each file in the directory represents one value: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Recognized key files: ncbi-email, ncbi-tool. NCBI asks heavy E-utilities
// users to identify themselves with these; neither is a credential.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// Key file names.
const (
	KeyEmail = "ncbi-email"
	KeyTool  = "ncbi-tool"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings on logger but do not abort; a nil
// logger discards them.
func Load(dir string, logger *log.Logger) (map[string]string, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "err", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills the NCBI contact fields of cfg from s. Values already set
// (from flags, config file, or environment) win.
func Apply(cfg *types.SearchConfig, s map[string]string) {
	if cfg.Email == "" {
		cfg.Email = s[KeyEmail]
	}
	if cfg.Tool == "" {
		cfg.Tool = s[KeyTool]
	}
}
