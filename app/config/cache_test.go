package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
}

func TestCacheLoadsSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "rbc-ukraine", `
name: "RBC Ukraine"
url: "https://www.rbc.ua"
parser: "rbc-ukraine"
settings:
  enabled: true
`)
	writeSourceFile(t, dir, "tech-blog", `
name: "Tech Blog"
url: "https://blog.example.com"
parser: "selector"
selectors:
  article_links: "a.post-link"
  title: "h1.post-title"
settings:
  enabled: false
  max_articles: 25
`)

	cache := NewCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if count := cache.GetConfigCount(); count != 2 {
		t.Fatalf("Expected 2 configs, got %d", count)
	}

	cfg, err := cache.GetConfig("rbc-ukraine")
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if cfg.Name != "rbc-ukraine" {
		t.Errorf("Expected name from filename, got '%s'", cfg.Name)
	}
	if cfg.DisplayName != "RBC Ukraine" {
		t.Errorf("Expected display name 'RBC Ukraine', got '%s'", cfg.DisplayName)
	}
	if cfg.Settings.MaxArticles != 100 {
		t.Errorf("Expected default max_articles of 100, got %d", cfg.Settings.MaxArticles)
	}

	blog, err := cache.GetConfig("tech-blog")
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if blog.Settings.MaxArticles != 25 {
		t.Errorf("Expected explicit max_articles of 25, got %d", blog.Settings.MaxArticles)
	}
	if blog.Selectors.ArticleLinks != "a.post-link" {
		t.Errorf("Expected selector 'a.post-link', got '%s'", blog.Selectors.ArticleLinks)
	}
}

func TestCacheGetConfigByURL(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "rbc-ukraine", `
name: "RBC Ukraine"
url: "https://www.rbc.ua"
parser: "rbc-ukraine"
settings:
  enabled: true
`)

	cache := NewCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	cfg, err := cache.GetConfigByURL("https://www.rbc.ua")
	if err != nil {
		t.Fatalf("GetConfigByURL failed: %v", err)
	}
	if cfg.Name != "rbc-ukraine" {
		t.Errorf("Expected 'rbc-ukraine', got '%s'", cfg.Name)
	}

	if _, err := cache.GetConfigByURL("https://unknown.example.com"); err == nil {
		t.Error("Expected error for unknown URL")
	}
}

func TestCacheGetEnabledConfigs(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "enabled-source", `
name: "Enabled"
url: "https://enabled.example.com"
parser: "selector"
settings:
  enabled: true
`)
	writeSourceFile(t, dir, "disabled-source", `
name: "Disabled"
url: "https://disabled.example.com"
parser: "selector"
settings:
  enabled: false
`)

	cache := NewCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	enabled := cache.GetEnabledConfigs()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled config, got %d", len(enabled))
	}
	if _, ok := enabled["enabled-source"]; !ok {
		t.Error("Expected 'enabled-source' to be enabled")
	}
}

func TestCacheValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing parser", `
name: "No Parser"
url: "https://example.com"
`},
		{"missing url", `
name: "No URL"
parser: "selector"
`},
		{"feed without feed_url", `
name: "Feed"
url: "https://example.com"
parser: "feed"
`},
		{"negative max_articles", `
name: "Negative"
url: "https://example.com"
parser: "selector"
settings:
  max_articles: -5
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSourceFile(t, dir, "invalid", tt.content)

			cache := NewCache(dir)
			if _, err := cache.LoadConfig("invalid"); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestCacheMissingDirectory(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := cache.Run(); err != nil {
		t.Errorf("Expected missing sources directory to be tolerated, got %v", err)
	}
	if count := cache.GetConfigCount(); count != 0 {
		t.Errorf("Expected 0 configs, got %d", count)
	}
}
