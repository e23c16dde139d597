package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func withAssetRoots(t *testing.T) (assets, cache string) {
	t.Helper()
	assets = t.TempDir()
	cache = t.TempDir()

	oldAssets, oldCache := AssetsRoot, CacheRoot
	AssetsRoot, CacheRoot = assets, cache
	t.Cleanup(func() { AssetsRoot, CacheRoot = oldAssets, oldCache })
	return assets, cache
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveBackgroundLooseAssets(t *testing.T) {
	assets, _ := withAssetRoots(t)
	touch(t, filepath.Join(assets, "forest", "forest.jpg"))
	touch(t, filepath.Join(assets, "forest", "forestd.webp"))
	touch(t, filepath.Join(assets, "forest", "config.json"))

	paths := ResolveBackground("forest")
	if filepath.Base(paths.Image) != "forest.jpg" {
		t.Errorf("Image = %q, want forest.jpg", paths.Image)
	}
	if filepath.Base(paths.Depth) != "forestd.webp" {
		t.Errorf("Depth = %q, want forestd.webp", paths.Depth)
	}
	if paths.Config == "" {
		t.Error("Config not resolved")
	}
	if paths.Bundle != "" {
		t.Errorf("Bundle = %q, want empty for loose assets", paths.Bundle)
	}
}

func TestResolveBackgroundExtensionFallback(t *testing.T) {
	assets, _ := withAssetRoots(t)
	touch(t, filepath.Join(assets, "city", "city.png"))
	touch(t, filepath.Join(assets, "city", "cityd.png"))

	paths := ResolveBackground("city")
	if filepath.Base(paths.Image) != "city.png" {
		t.Errorf("Image = %q, want city.png", paths.Image)
	}
	if filepath.Base(paths.Depth) != "cityd.png" {
		t.Errorf("Depth = %q, want cityd.png", paths.Depth)
	}
	if paths.Config != "" {
		t.Errorf("Config = %q, want empty when absent", paths.Config)
	}
}

func TestResolveBackgroundBundleAndCache(t *testing.T) {
	assets, cache := withAssetRoots(t)
	touch(t, filepath.Join(assets, "ocean.pkg"))
	touch(t, filepath.Join(cache, "ocean", "ocean.jpg"))
	touch(t, filepath.Join(cache, "ocean", "oceand.webp"))

	paths := ResolveBackground("ocean")
	if filepath.Base(paths.Bundle) != "ocean.pkg" {
		t.Errorf("Bundle = %q, want ocean.pkg", paths.Bundle)
	}
	if paths.Image == "" || paths.Depth == "" {
		t.Errorf("cache fallback not searched: image=%q depth=%q", paths.Image, paths.Depth)
	}
}

func TestResolveBackgroundBundleInsideDirectory(t *testing.T) {
	assets, cache := withAssetRoots(t)
	// Directory exists but only holds the packed bundle; the extracted
	// files live in the cache.
	touch(t, filepath.Join(assets, "ocean", "ocean.pkg"))
	touch(t, filepath.Join(cache, "ocean", "ocean.jpg"))
	touch(t, filepath.Join(cache, "ocean", "oceand.webp"))
	touch(t, filepath.Join(cache, "ocean", "config.json"))

	paths := ResolveBackground("ocean")
	if filepath.Base(paths.Bundle) != "ocean.pkg" {
		t.Errorf("Bundle = %q, want ocean.pkg", paths.Bundle)
	}
	if paths.Image == "" || paths.Depth == "" {
		t.Errorf("cache not consulted for missing assets: image=%q depth=%q",
			paths.Image, paths.Depth)
	}
	if paths.Config == "" {
		t.Error("extracted config.json not resolved from cache")
	}
}

func TestListBackgrounds(t *testing.T) {
	assets, _ := withAssetRoots(t)
	touch(t, filepath.Join(assets, "forest", "forest.jpg"))
	touch(t, filepath.Join(assets, "city", "city.jpg"))
	touch(t, filepath.Join(assets, "stray-file.txt"))

	names := ListBackgrounds()
	if len(names) != 2 {
		t.Fatalf("names = %v, want 2 directories", names)
	}
}
