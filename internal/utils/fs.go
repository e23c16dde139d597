package utils

import (
	"os"
	"path/filepath"
)

// AssetsRoot is the directory holding one subdirectory per background.
var AssetsRoot = "backgrounds"

// CacheRoot receives extracted .pkg bundles.
var CacheRoot = "cache"

// BackgroundPaths holds the resolved asset triple for one background.
type BackgroundPaths struct {
	Name   string
	Image  string // main image, empty if unresolved
	Depth  string // depth raster, empty if unresolved
	Config string // config.json, empty if absent (not an error)
	Bundle string // source .pkg, empty when assets are loose files
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".tex"}
var depthExtensions = []string{".webp", ".png", ".jpg", ".tex"}

func firstExisting(dir, stem string, extensions []string) string {
	for _, ext := range extensions {
		p := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// fillFrom resolves any still-missing assets from the given directory.
func (p *BackgroundPaths) fillFrom(dir string) {
	if p.Image == "" {
		p.Image = firstExisting(dir, p.Name, imageExtensions)
	}
	if p.Depth == "" {
		p.Depth = firstExisting(dir, p.Name+"d", depthExtensions)
	}
	if p.Config == "" {
		configPath := filepath.Join(dir, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			p.Config = configPath
		}
	}
}

// ResolveBackground locates the asset triple for a named background.
// Convention: {AssetsRoot}/{name}/{name}.jpg, {name}d.webp, config.json.
// A {name}.pkg bundle inside or next to the directory is reported in
// Bundle so the caller can extract it first. The extracted-bundle cache
// is a second search root: a background directory that only holds a
// .pkg still resolves once extraction has populated the cache.
func ResolveBackground(name string) BackgroundPaths {
	paths := BackgroundPaths{Name: name}

	bundle := filepath.Join(AssetsRoot, name, name+".pkg")
	if _, err := os.Stat(bundle); err != nil {
		bundle = filepath.Join(AssetsRoot, name+".pkg")
		if _, err := os.Stat(bundle); err != nil {
			bundle = ""
		}
	}
	paths.Bundle = bundle

	paths.fillFrom(filepath.Join(AssetsRoot, name))
	paths.fillFrom(filepath.Join(CacheRoot, name))

	return paths
}

// ListBackgrounds enumerates background names available under AssetsRoot.
func ListBackgrounds() []string {
	entries, err := os.ReadDir(AssetsRoot)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names
}
