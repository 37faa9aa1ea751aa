package pipeline

// Notes:
// - Minifier assertions check for tokens the minifier must produce or keep
//   rather than whole outputs, so minor minifier releases don't break them.

import (
	"strings"
	"testing"
)

const formatInput = `<!DOCTYPE html><html><head><style> a { color : red ; } </style>` +
	`<script> var  answer = 42 ; </script></head>` +
	`<body>  <div>   <p>  hello   world  </p>   </div>  </body></html>`

// ---------------------------------------------------------------------------
// TestSelectFormatter
// ---------------------------------------------------------------------------

func TestSelectFormatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		pretty bool
		minify bool
		want   string
	}{
		{"neither", false, false, "pipeline.Passthrough"},
		{"pretty", true, false, "pipeline.PrettyFormatter"},
		{"minify", false, true, "*pipeline.Minifier"},
		{"pretty wins over minify", true, true, "pipeline.PrettyFormatter"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := SelectFormatter(tt.pretty, tt.minify, DefaultMinifyOptions())
			var got string
			switch f.(type) {
			case Passthrough:
				got = "pipeline.Passthrough"
			case PrettyFormatter:
				got = "pipeline.PrettyFormatter"
			case *Minifier:
				got = "*pipeline.Minifier"
			}
			if got != tt.want {
				t.Errorf("SelectFormatter(%v, %v) = %T, want %s", tt.pretty, tt.minify, f, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPassthrough / TestPrettyFormatter
// ---------------------------------------------------------------------------

func TestPassthrough(t *testing.T) {
	t.Parallel()

	got, err := Passthrough{}.Format(formatInput)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got != formatInput {
		t.Errorf("Format() changed its input: %q", got)
	}
}

func TestPrettyFormatter(t *testing.T) {
	t.Parallel()

	got, err := PrettyFormatter{}.Format(mustRender(t, "<div><p>x</p></div>"))
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("Format() = %q, want multi-line output", got)
	}
	for _, tag := range []string{"<html>", "<body>", "<div>", "<p>"} {
		if !strings.Contains(got, tag) {
			t.Errorf("Format() lost %s: %q", tag, got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestMinifier
// ---------------------------------------------------------------------------

func TestMinifier(t *testing.T) {
	t.Parallel()

	t.Run("defaults minify everything", func(t *testing.T) {
		t.Parallel()

		got, err := NewMinifier(DefaultMinifyOptions()).Format(formatInput)
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if len(got) >= len(formatInput) {
			t.Errorf("output (%d bytes) not smaller than input (%d bytes)", len(got), len(formatInput))
		}
		if !strings.Contains(got, "color:red") {
			t.Errorf("CSS not minified: %q", got)
		}
		if strings.Contains(got, "answer = 42") {
			t.Errorf("JS not minified: %q", got)
		}
		for _, tag := range []string{"<html>", "<head>", "<body>", "</p>", "</html>"} {
			if !strings.Contains(got, tag) {
				t.Errorf("document structure lost %s: %q", tag, got)
			}
		}
	})

	t.Run("css and js left alone when disabled", func(t *testing.T) {
		t.Parallel()

		opts := MinifyOptions{CollapseWhitespace: true}
		got, err := NewMinifier(opts).Format(formatInput)
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if !strings.Contains(got, " a { color : red ; } ") {
			t.Errorf("CSS was minified: %q", got)
		}
		if !strings.Contains(got, " var  answer = 42 ; ") {
			t.Errorf("JS was minified: %q", got)
		}
	})

	t.Run("keeping whitespace never shrinks more than collapsing", func(t *testing.T) {
		t.Parallel()

		collapsed, err := NewMinifier(DefaultMinifyOptions()).Format(formatInput)
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		opts := DefaultMinifyOptions()
		opts.CollapseWhitespace = false
		kept, err := NewMinifier(opts).Format(formatInput)
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if len(kept) < len(collapsed) {
			t.Errorf("kept whitespace output (%d) shorter than collapsed (%d)", len(kept), len(collapsed))
		}
	})
}
