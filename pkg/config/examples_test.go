package config

import (
	"path/filepath"
	"testing"

	"github.com/plt-rs/plt/pkg/draw"
)

func TestExampleDescriptions(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example descriptions found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			desc, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			fig, err := desc.Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			rec := draw.NewRecorder(fig.Size())
			if err := fig.Draw(rec); err != nil {
				t.Fatalf("Draw: %v", err)
			}
			if len(rec.Primitives()) == 0 {
				t.Error("nothing drawn")
			}
		})
	}
}
