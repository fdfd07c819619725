package mermaid

import (
	"strings"
	"testing"

	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flow"
)

func kickoffRows() []flow.Edge {
	return []flow.Edge{
		{FromID: "A", FromLabel: "Project Start", ToID: "B", ToLabel: "Data Collection",
			Connector: "---", Tooltip: "Kickoff notes", URL: "#"},
		{FromID: "A", FromLabel: "Project Start", ToID: "C", ToLabel: "Analysis",
			Connector: "-- some text -->", Tooltip: "Define requirements", URL: "https://example.com/data", Notes: "Note B"},
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestCompile(t *testing.T) {
	d, err := Compile(kickoffRows(), Options{Theme: ThemeNeutral, Orientation: TopDown})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	want := []string{
		"%%{init: {'theme': 'neutral'}}%%",
		"flowchart TD",
		`    A["Project Start"] --- B["Data Collection"]`,
		`    A["Project Start"] -- some text --> C["Analysis"]`,
		`    click A "#" "Kickoff notes"`,
	}
	got := lines(d.Source)
	if len(got) != len(want) {
		t.Fatalf("Compile() produced %d lines, want %d:\n%s", len(got), len(want), d.Source)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	if d.Edges != 2 {
		t.Errorf("Edges = %d, want 2", d.Edges)
	}
	if d.Bindings != 1 {
		t.Errorf("Bindings = %d, want 1", d.Bindings)
	}
	if len(d.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", d.Warnings)
	}
	if !strings.HasSuffix(d.Source, "\n") {
		t.Error("Source should end with a newline")
	}
}

func TestCompileDefaults(t *testing.T) {
	d, err := Compile(nil, Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	want := "%%{init: {'theme': 'default'}}%%\nflowchart TD\n"
	if d.Source != want {
		t.Errorf("Source = %q, want %q", d.Source, want)
	}
}

func TestCompileOrientation(t *testing.T) {
	d, err := Compile(kickoffRows(), Options{Orientation: LeftRight})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if got := lines(d.Source)[1]; got != "flowchart LR" {
		t.Errorf("direction line = %q, want %q", got, "flowchart LR")
	}
	if strings.Contains(d.Source, "flowchart TD") {
		t.Error("LR source should not contain a TD directive")
	}
}

func TestCompileThemeVerbatim(t *testing.T) {
	d, err := Compile(nil, Options{Theme: "base"})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if !strings.HasPrefix(d.Source, "%%{init: {'theme': 'base'}}%%\n") {
		t.Errorf("theme not embedded verbatim: %q", d.Source)
	}
}

func TestCompileDeterministic(t *testing.T) {
	rows := flow.Sample()
	opts := Options{Theme: ThemeForest, Orientation: LeftRight}

	first, err := Compile(rows, opts)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Compile(rows, opts)
		if err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
		if again.Source != first.Source {
			t.Fatalf("Compile() not deterministic:\n%s\n---\n%s", first.Source, again.Source)
		}
	}
}

func TestCompileEscapesQuotes(t *testing.T) {
	rows := []flow.Edge{{
		FromID: "A", FromLabel: `The "start"`,
		ToID: "B", ToLabel: `"end"`,
		Tooltip: `say "hi"`, URL: "https://example.com/?q=\"x\"",
	}}

	d, err := Compile(rows, Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	for _, want := range []string{
		`A["The \"start\""] --> B["\"end\""]`,
		`click A "https://example.com/?q=\"x\"" "say \"hi\""`,
	} {
		if !strings.Contains(d.Source, want) {
			t.Errorf("Source missing %q:\n%s", want, d.Source)
		}
	}

	// Every quote in the body lines must either delimit a token or be escaped.
	for _, line := range lines(d.Source)[2:] {
		unescaped := strings.Count(line, `"`) - strings.Count(line, `\"`)
		if unescaped%2 != 0 {
			t.Errorf("unbalanced quotes in %q", line)
		}
	}
}

func TestCompileClickBindings(t *testing.T) {
	tests := []struct {
		name string
		rows []flow.Edge
		want []string
	}{
		{
			name: "url only",
			rows: []flow.Edge{{FromID: "A", ToID: "B", URL: "https://a"}},
			want: []string{`    click A "https://a" ""`},
		},
		{
			name: "tooltip only keeps placeholder",
			rows: []flow.Edge{{FromID: "A", ToID: "B", Tooltip: "tip"}},
			want: []string{`    click A "#" "tip"`},
		},
		{
			name: "neither",
			rows: []flow.Edge{{FromID: "A", ToID: "B", URL: "#"}},
			want: nil,
		},
		{
			name: "blank url and tooltip",
			rows: []flow.Edge{{FromID: "A", ToID: "B", URL: "  ", Tooltip: " "}},
			want: nil,
		},
		{
			name: "first occurrence wins even when empty",
			rows: []flow.Edge{
				{FromID: "A", ToID: "B"},
				{FromID: "A", ToID: "C", URL: "https://later", Tooltip: "later"},
			},
			want: nil,
		},
		{
			name: "first-seen order",
			rows: []flow.Edge{
				{FromID: "C", ToID: "D", Tooltip: "c"},
				{FromID: "A", ToID: "C", Tooltip: "a"},
				{FromID: "C", ToID: "A", Tooltip: "c2"},
			},
			want: []string{`    click C "#" "c"`, `    click A "#" "a"`},
		},
		{
			name: "targets get no binding",
			rows: []flow.Edge{{FromID: "A", ToID: "B", Tooltip: "a"}, {FromID: "A", ToID: "C"}},
			want: []string{`    click A "#" "a"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Compile(tt.rows, Options{})
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			var got []string
			for _, l := range lines(d.Source) {
				if strings.HasPrefix(l, "    click ") {
					got = append(got, l)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("click lines = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("click line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if d.Bindings != len(tt.want) {
				t.Errorf("Bindings = %d, want %d", d.Bindings, len(tt.want))
			}
		})
	}
}

func TestCompileDefaultConnector(t *testing.T) {
	d, err := Compile([]flow.Edge{{FromID: "A", FromLabel: "a", ToID: "B", ToLabel: "b"}}, Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if !strings.Contains(d.Source, `    A["a"] --> B["b"]`) {
		t.Errorf("expected default connector:\n%s", d.Source)
	}
}

func TestCompileTrimsIdentifiers(t *testing.T) {
	d, err := Compile([]flow.Edge{{FromID: " A ", FromLabel: "a", ToID: "\tB", ToLabel: "b", Connector: " --- "}}, Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if !strings.Contains(d.Source, `    A["a"] --- B["b"]`) {
		t.Errorf("identifiers not trimmed:\n%s", d.Source)
	}
}

func TestCompileMalformedLenient(t *testing.T) {
	rows := []flow.Edge{
		{FromID: "A", FromLabel: "a", ToID: "B", ToLabel: "b", Tooltip: "a"},
		{FromID: "", FromLabel: "x", ToID: "C", ToLabel: "c"},
		{FromID: "bad id", FromLabel: "y", ToID: "D", ToLabel: "d", Tooltip: "bad"},
		{FromID: "C", FromLabel: "c", ToID: "E", ToLabel: "e"},
	}

	d, err := Compile(rows, Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if d.Edges != 2 {
		t.Errorf("Edges = %d, want 2", d.Edges)
	}
	if len(d.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2", d.Warnings)
	}
	for i, want := range []string{"row 1: from_id:", "row 2: from_id:"} {
		if !errors.Is(d.Warnings[i], errors.ErrCodeMalformedEdge) {
			t.Errorf("warning %d code = %v, want MALFORMED_EDGE", i, errors.GetCode(d.Warnings[i]))
		}
		if !strings.Contains(d.Warnings[i].Error(), want) {
			t.Errorf("warning %d = %v, want %q", i, d.Warnings[i], want)
		}
	}
	if strings.Contains(d.Source, "bad id") {
		t.Errorf("malformed identifier leaked into source:\n%s", d.Source)
	}
	if d.Bindings != 1 {
		t.Errorf("Bindings = %d, want 1 (skipped rows bind nothing)", d.Bindings)
	}
}

func TestCompileMalformedStrict(t *testing.T) {
	rows := []flow.Edge{
		{FromID: "A", ToID: "B"},
		{FromID: "A", ToID: " "},
	}

	d, err := Compile(rows, Options{Strict: true})
	if err == nil {
		t.Fatalf("Compile() = %v, want error", d)
	}
	if !errors.Is(err, errors.ErrCodeMalformedEdge) {
		t.Errorf("error code = %v, want MALFORMED_EDGE", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "row 1: to_id:") {
		t.Errorf("error = %v, want row 1 to_id", err)
	}
}

func TestCompileMultilineText(t *testing.T) {
	rows := []flow.Edge{
		{FromID: "A", FromLabel: "line1\nline2", ToID: "B", ToLabel: "b"},
		{FromID: "A", FromLabel: "a", ToID: "C", ToLabel: "c", Tooltip: "tip\nmore"},
		{FromID: "D", FromLabel: "d", ToID: "E", ToLabel: "e", Tooltip: "ok"},
	}

	d, err := Compile(rows, Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if d.Edges != 1 {
		t.Errorf("Edges = %d, want 1", d.Edges)
	}
	if len(d.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2", d.Warnings)
	}
	for i, want := range []string{"row 0: from_label:", "row 1: tooltip:"} {
		if !strings.Contains(d.Warnings[i].Error(), want) {
			t.Errorf("warning %d = %v, want %q", i, d.Warnings[i], want)
		}
	}

	want := []string{
		"%%{init: {'theme': 'default'}}%%",
		"flowchart TD",
		`    D["d"] --> E["e"]`,
		`    click D "#" "ok"`,
	}
	got := lines(d.Source)
	if len(got) != len(want) {
		t.Fatalf("Compile() produced %d lines, want %d:\n%s", len(got), len(want), d.Source)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := Compile(rows, Options{Strict: true}); !errors.Is(err, errors.ErrCodeMalformedEdge) {
		t.Errorf("strict Compile() error = %v, want MALFORMED_EDGE", err)
	}
}

func TestReorient(t *testing.T) {
	src := "%%{init: {'theme': 'default'}}%%\nflowchart TD\n    A --> B\n"

	tests := []struct {
		name   string
		source string
		o      Orientation
		want   string
	}{
		{"to LR", src, LeftRight, strings.Replace(src, "flowchart TD", "flowchart LR", 1)},
		{"TD is no-op", src, TopDown, src},
		{"empty is no-op", src, "", src},
		{"missing directive", "graph TD\nA-->B\n", LeftRight, "graph TD\nA-->B\n"},
		{"only first occurrence", "flowchart TD\nflowchart TD\n", LeftRight, "flowchart LR\nflowchart TD\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reorient(tt.source, tt.o); got != tt.want {
				t.Errorf("Reorient() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReorientMatchesCompile(t *testing.T) {
	rows := flow.Sample()
	td, _ := Compile(rows, Options{Orientation: TopDown})
	lr, _ := Compile(rows, Options{Orientation: LeftRight})

	if got := Reorient(td.Source, LeftRight); got != lr.Source {
		t.Errorf("Reorient(TD) != Compile(LR):\n%s\n---\n%s", got, lr.Source)
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"", ThemeDefault, false},
		{"dark", ThemeDark, false},
		{" Neutral ", ThemeNeutral, false},
		{"FOREST", ThemeForest, false},
		{"base", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidTheme) {
			t.Errorf("ParseTheme(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseTheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"", TopDown, false},
		{"TD", TopDown, false},
		{"lr", LeftRight, false},
		{"BT", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrientation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidOrientation) {
			t.Errorf("ParseOrientation(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseOrientation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
