package crawler

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/skovalov/news-crawler/app/config"
)

type noopParser struct{}

func (noopParser) ListArticleURLs(ctx context.Context, session *Session, period Period) ([]string, error) {
	return nil, nil
}

func (noopParser) ParseArticle(ctx context.Context, session *Session, url string) (*ParsedArticle, error) {
	return nil, nil
}

func noopFactory(cfg *config.SourceConfig) (SiteParser, error) {
	return noopParser{}, nil
}

func TestRegistryResolvesRegisteredParser(t *testing.T) {
	registry := NewRegistry()
	registry.Register("noop", noopFactory)

	factory, err := registry.Resolve("noop")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	parser, err := factory(&config.SourceConfig{Name: "test"})
	if err != nil {
		t.Fatalf("Factory failed: %v", err)
	}
	if parser == nil {
		t.Fatal("Expected parser instance, got nil")
	}
}

func TestRegistryUnknownParser(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Resolve("nonexistent")
	if err == nil {
		t.Fatal("Expected error for unknown parser")
	}

	var unknownErr *UnknownParserError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected *UnknownParserError, got %T", err)
	}
	if unknownErr.Name != "nonexistent" {
		t.Errorf("Expected error to carry the parser name, got '%s'", unknownErr.Name)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	registry := NewRegistry()
	registry.Register("zebra", noopFactory)
	registry.Register("alpha", noopFactory)
	registry.Register("middle", noopFactory)

	expected := []string{"alpha", "middle", "zebra"}
	if got := registry.Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected names %v, got %v", expected, got)
	}
}
