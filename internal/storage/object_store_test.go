package storage

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestConfigValidate(t *testing.T) {
	cfg := Config{Endpoint: " acc.r2.cloudflarestorage.com ", Bucket: "receipts", PublicBaseURL: "https://cdn.example.com/"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "https://acc.r2.cloudflarestorage.com" || cfg.Region != "auto" || cfg.PublicBaseURL != "https://cdn.example.com" {
		t.Fatalf("unexpected normalized config %+v", cfg)
	}

	missing := []Config{
		{Bucket: "b", PublicBaseURL: "https://x"},
		{Endpoint: "https://e", PublicBaseURL: "https://x"},
		{Endpoint: "https://e", Bucket: "b"},
	}
	for i, c := range missing {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestPublicURL(t *testing.T) {
	if got := PublicURL("https://cdn.example.com/", "/receipts/ORD-1-1.pdf"); got != "https://cdn.example.com/receipts/ORD-1-1.pdf" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestParseStorageClass(t *testing.T) {
	if _, ok := parseStorageClass("  "); ok {
		t.Fatalf("expected blank class to be ignored")
	}
	sc, ok := parseStorageClass("standard")
	if !ok || sc != types.StorageClassStandard {
		t.Fatalf("unexpected class %q", sc)
	}
}
