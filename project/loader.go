package project

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lixenwraith/vi-palette/palette"
)

const (
	DefaultProjectDir  = "palettes"
	DefaultProjectFile = "project.toml"
)

// DefaultProjectPath is checked when no project is given on the command line
var DefaultProjectPath = filepath.Join(DefaultProjectDir, DefaultProjectFile)

//go:embed sample/project.toml
var sampleProject []byte

// Source describes where LoadAuto found its project
type Source struct {
	Path     string // Empty for the embedded sample
	Embedded bool
}

func (s Source) String() string {
	if s.Embedded {
		return "embedded sample"
	}
	return s.Path
}

// LoadAuto loads a project with priority: customPath > DefaultProjectPath > embedded sample
func LoadAuto(customPath string) (*palette.Registry, Source, error) {
	if customPath != "" {
		reg, err := LoadFile(customPath)
		return reg, Source{Path: customPath}, err
	}

	if fileExists(DefaultProjectPath) {
		reg, err := LoadFile(DefaultProjectPath)
		return reg, Source{Path: DefaultProjectPath}, err
	}

	reg, err := LoadSample()
	return reg, Source{Embedded: true}, err
}

// LoadSample builds the project embedded in the binary
func LoadSample() (*palette.Registry, error) {
	doc, err := Decode(sampleProject, "toml")
	if err != nil {
		return nil, fmt.Errorf("embedded sample: %w", err)
	}
	return Build(doc)
}

// LoadFile reads a project file, resolves its includes and builds the registry
func LoadFile(path string) (*palette.Registry, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	reg, err := Build(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load project from %s: %w", path, err)
	}
	return reg, nil
}

// LoadDocument reads a document and appends the palettes of every included document
// Includes are resolved relative to the including file's directory
func LoadDocument(path string) (Document, error) {
	if !fileExists(path) {
		return Document{}, fmt.Errorf("project file not found: %s", path)
	}
	visited := make(map[string]bool)
	doc, err := loadAndResolve(path, visited)
	if err != nil {
		return Document{}, fmt.Errorf("failed to load project from %s: %w", path, err)
	}
	return doc, nil
}

// loadAndResolve recursively loads a document and merges its includes
func loadAndResolve(path string, visited map[string]bool) (Document, error) {
	fullPath, err := filepath.Abs(path)
	if err != nil {
		return Document{}, err
	}

	// Circular include detection
	if visited[fullPath] {
		return Document{}, fmt.Errorf("circular include detected: %s", path)
	}
	visited[fullPath] = true

	c, err := codecForPath(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc Document
	if err := c.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	for _, inc := range doc.Include {
		incPath := inc
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(baseDir, inc)
		}
		log.Printf("project: %s includes %s", path, incPath)
		sub, err := loadAndResolve(incPath, visited)
		if err != nil {
			return Document{}, fmt.Errorf("include %q: %w", inc, err)
		}
		doc.Palettes = append(doc.Palettes, sub.Palettes...)
		doc.NextUUID = max(doc.NextUUID, sub.NextUUID)
	}
	// Consumed during loading
	doc.Include = nil
	return doc, nil
}

// SaveFile writes doc to path in the format its extension selects
func SaveFile(path string, doc Document) error {
	c, err := codecForPath(path)
	if err != nil {
		return err
	}
	out, err := c.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ImportMissing copies ancestors that root references but reg lacks from lib, recursively
// It returns the imported identifiers; references lib cannot satisfy stay dangling
func ImportMissing(reg *palette.Registry, root *palette.Palette, lib palette.Lookup) []string {
	var imported []string
	for {
		progress := false
		for _, id := range palette.MissingAncestors(reg, root) {
			src := lib.FindByString(id)
			if src == nil {
				continue
			}
			c := src.Clone()
			c.UUID = 0
			for i := range c.Entries {
				for _, pc := range c.Entries[i].Mapping.Pieces {
					pc.UUID = 0
				}
			}
			reg.Add(c)
			imported = append(imported, id)
			progress = true
		}
		if !progress {
			return imported
		}
	}
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
