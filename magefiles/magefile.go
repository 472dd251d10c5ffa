// Package main contains Mage build targets for pubmed-search developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "pubmed-search"
	cmdPkg  = "./cmd/pubmed-search"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test vets and runs the unit tests for every package.
func Test() error {
	mg.Deps(Vet)
	if err := sh.RunV("go", "test", "./..."); err != nil {
		return fmt.Errorf("go test: %w", err)
	}
	return nil
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Stats prints per-package Go line counts (production and test), the number
// of Test functions, and the word count of the repository's Markdown files.
func Stats() error {
	pkgs, err := goPackageStats(".")
	if err != nil {
		return err
	}
	words, err := markdownWords(".")
	if err != nil {
		return err
	}

	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		names = append(names, name)
	}
	sort.Strings(names)

	var total packageStats
	fmt.Printf("%-28s %8s %8s %6s\n", "PACKAGE", "PROD", "TEST", "TESTS")
	for _, name := range names {
		ps := pkgs[name]
		fmt.Printf("%-28s %8d %8d %6d\n", name, ps.prodLines, ps.testLines, ps.testFuncs)
		total.prodLines += ps.prodLines
		total.testLines += ps.testLines
		total.testFuncs += ps.testFuncs
	}
	fmt.Printf("%-28s %8d %8d %6d\n", "total", total.prodLines, total.testLines, total.testFuncs)
	fmt.Printf("Words (Markdown): %d\n", words)
	return nil
}

type packageStats struct {
	prodLines int
	testLines int
	testFuncs int
}

// goPackageStats counts non-blank Go lines per directory, skipping
// directories that the go tool ignores (leading "_" or ".").
func goPackageStats(root string) (map[string]*packageStats, error) {
	stats := make(map[string]*packageStats)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		dir := filepath.ToSlash(filepath.Dir(path))
		ps, ok := stats[dir]
		if !ok {
			ps = &packageStats{}
			stats[dir] = ps
		}
		isTest := strings.HasSuffix(path, "_test.go")
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !isTest {
				ps.prodLines++
				continue
			}
			ps.testLines++
			if strings.HasPrefix(line, "func Test") {
				ps.testFuncs++
			}
		}
		return nil
	})
	return stats, err
}

// markdownWords counts whitespace-separated words in .md files.
func markdownWords(root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(strings.Fields(string(data)))
		return nil
	})
	return total, err
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == binDir
}
