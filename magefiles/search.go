package main

import "github.com/magefile/mage/sh"

// Search runs a live PubMed query through the CLI, e.g. `mage search metformin`.
func Search(query string) error {
	return sh.RunV("go", "run", cmdPkg, "search", "--verbose", query)
}
