package models

import (
	"runtime"
	"testing"
)

func TestSearchRequest_Normalized(t *testing.T) {
	tests := []struct {
		name          string
		request       SearchRequest
		expectRoots   []string
		expectWorkers int
	}{
		{
			name:          "empty roots default to current directory",
			request:       SearchRequest{Pattern: "x"},
			expectRoots:   []string{"."},
			expectWorkers: runtime.NumCPU(),
		},
		{
			name:          "explicit roots preserved in order",
			request:       SearchRequest{Pattern: "x", Roots: []string{"/b", "/a"}, Workers: 3},
			expectRoots:   []string{"/b", "/a"},
			expectWorkers: 3,
		},
		{
			name:          "zero workers selects CPU count",
			request:       SearchRequest{Pattern: "x", Roots: []string{"."}, Workers: 0},
			expectRoots:   []string{"."},
			expectWorkers: runtime.NumCPU(),
		},
		{
			name:          "negative workers selects CPU count",
			request:       SearchRequest{Pattern: "x", Roots: []string{"."}, Workers: -5},
			expectRoots:   []string{"."},
			expectWorkers: runtime.NumCPU(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.request.Normalized()

			if len(got.Roots) != len(tt.expectRoots) {
				t.Fatalf("Roots = %v, want %v", got.Roots, tt.expectRoots)
			}
			for i, root := range tt.expectRoots {
				if got.Roots[i] != root {
					t.Errorf("Roots[%d] = %q, want %q", i, got.Roots[i], root)
				}
			}
			if got.Workers != tt.expectWorkers {
				t.Errorf("Workers = %d, want %d", got.Workers, tt.expectWorkers)
			}
			if got.Workers < 1 {
				t.Errorf("Workers = %d, want >= 1", got.Workers)
			}
		})
	}
}

func TestSearchRequest_NormalizedExcludeDirs(t *testing.T) {
	t.Run("nil exclude list gets defaults", func(t *testing.T) {
		got := SearchRequest{Pattern: "x"}.Normalized()
		if len(got.ExcludeDirs) != len(DefaultExcludeDirs) {
			t.Fatalf("ExcludeDirs length = %d, want %d", len(got.ExcludeDirs), len(DefaultExcludeDirs))
		}
	})

	t.Run("explicit empty exclude list is preserved", func(t *testing.T) {
		got := SearchRequest{Pattern: "x", ExcludeDirs: []string{}}.Normalized()
		if len(got.ExcludeDirs) != 0 {
			t.Errorf("ExcludeDirs = %v, want empty", got.ExcludeDirs)
		}
	})

	t.Run("custom exclude list is copied", func(t *testing.T) {
		custom := []string{"vendor"}
		got := SearchRequest{Pattern: "x", ExcludeDirs: custom}.Normalized()
		if len(got.ExcludeDirs) != 1 || got.ExcludeDirs[0] != "vendor" {
			t.Fatalf("ExcludeDirs = %v, want [vendor]", got.ExcludeDirs)
		}
		got.ExcludeDirs[0] = "changed"
		if custom[0] != "vendor" {
			t.Error("Normalized should copy the exclude list, not alias it")
		}
	})
}

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   SearchRequest
		expectErr bool
	}{
		{
			name:      "valid literal request",
			request:   SearchRequest{Pattern: "hello", Roots: []string{"."}},
			expectErr: false,
		},
		{
			name:      "valid regex request",
			request:   SearchRequest{Pattern: `fn \w+`, Regex: true, Roots: []string{"."}},
			expectErr: false,
		},
		{
			name:      "empty pattern rejected",
			request:   SearchRequest{Pattern: "", Roots: []string{"."}},
			expectErr: true,
		},
		{
			name:      "negative context rejected",
			request:   SearchRequest{Pattern: "x", ContextLines: -1},
			expectErr: true,
		},
		{
			name:      "zero context accepted",
			request:   SearchRequest{Pattern: "x", ContextLines: 0},
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestSearchOutcome_SoftErrorsSum(t *testing.T) {
	outcome := SearchOutcome{TraversalErrors: 3, FileErrors: 2}
	if got := outcome.SoftErrors(); got != 5 {
		t.Errorf("SoftErrors() = %d, want 5", got)
	}
}
