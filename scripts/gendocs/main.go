// Command gendocs renders the CLI, configuration and lint rule reference
// pages under docs/ from the code that defines them.
//
// Usage:
//
//	go run ./scripts/gendocs                  # everything, into docs/
//	go run ./scripts/gendocs -gen=lint -outdir=/tmp/linting
package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"slices"
)

type generator struct {
	name string
	// dir is the default output directory below docs/.
	dir string
	run func(outDir string) error
}

var generators = []generator{
	{"cli", "cli", generateCLIDocs},
	{"config", "reference", generateConfigDocs},
	{"lint", "linting", generateLintDocs},
}

func main() {
	gen := flag.String("gen", "all", "what to generate: cli, config, lint or all")
	outDir := flag.String("outdir", "", "output directory for a single generator (default: docs/<section>)")
	flag.Parse()

	selected := generators
	if *gen != "all" {
		i := slices.IndexFunc(generators, func(g generator) bool { return g.name == *gen })
		if i < 0 {
			log.Fatalf("unknown -gen value %q (use: cli, config, lint, all)", *gen)
		}
		selected = generators[i : i+1]
	}

	root, err := moduleRoot()
	if err != nil {
		log.Fatalf("failed to find module root: %v", err)
	}
	log.Printf("Module root: %s", root)

	for _, g := range selected {
		dir := filepath.Join(root, "docs", g.dir)
		if *outDir != "" && len(selected) == 1 {
			dir = *outDir
		}
		if err := g.run(dir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", g.name, err)
		}
	}
	log.Println("Done!")
}

// moduleRoot returns the nearest directory at or above the working
// directory that holds a go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for ; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		if dir == filepath.Dir(dir) {
			return "", errors.New("no go.mod found")
		}
	}
}
