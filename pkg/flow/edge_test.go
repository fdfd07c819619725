package flow

import (
	"strings"
	"testing"

	"github.com/matzehuels/mermaidflow/pkg/errors"
)

func TestNormalize(t *testing.T) {
	in := Edge{
		FromID:    "  A ",
		FromLabel: "\tProject Start ",
		ToID:      "B\n",
		ToLabel:   " Data Collection",
		Connector: " --- ",
		Tooltip:   " Kickoff ",
		URL:       " https://example.com ",
		Notes:     " note ",
	}
	want := Edge{
		FromID:    "A",
		FromLabel: "Project Start",
		ToID:      "B",
		ToLabel:   "Data Collection",
		Connector: "---",
		Tooltip:   "Kickoff",
		URL:       "https://example.com",
		Notes:     "note",
	}

	got := Normalize(in)
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
	if again := Normalize(got); again != got {
		t.Errorf("Normalize() not idempotent: %+v != %+v", again, got)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`say "hi"`, `say \"hi\"`},
		{`"`, `\"`},
		{"", ""},
		{`back\slash`, `back\slash`},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEdgeDefaults(t *testing.T) {
	var e Edge
	if got := e.ConnectorOrDefault(); got != DefaultConnector {
		t.Errorf("ConnectorOrDefault() = %q, want %q", got, DefaultConnector)
	}
	if got := e.URLOrPlaceholder(); got != NoURL {
		t.Errorf("URLOrPlaceholder() = %q, want %q", got, NoURL)
	}

	e = Edge{Connector: "-.->", URL: "https://example.com"}
	if got := e.ConnectorOrDefault(); got != "-.->" {
		t.Errorf("ConnectorOrDefault() = %q, want %q", got, "-.->")
	}
	if got := e.URLOrPlaceholder(); got != "https://example.com" {
		t.Errorf("URLOrPlaceholder() = %q", got)
	}
}

func TestNodes(t *testing.T) {
	nodes := Nodes(Sample())

	wantIDs := []string{"A", "B", "C", "D", "E"}
	if len(nodes) != len(wantIDs) {
		t.Fatalf("Nodes() len = %d, want %d", len(nodes), len(wantIDs))
	}
	for i, id := range wantIDs {
		if nodes[i].ID != id {
			t.Errorf("Nodes()[%d].ID = %q, want %q", i, nodes[i].ID, id)
		}
	}
	if nodes[0].Label != "Project Start" {
		t.Errorf("Nodes()[0].Label = %q, want %q", nodes[0].Label, "Project Start")
	}
}

func TestNodesSkipsEmpty(t *testing.T) {
	nodes := Nodes([]Edge{{FromID: " ", ToID: "B"}})
	if len(nodes) != 1 || nodes[0].ID != "B" {
		t.Errorf("Nodes() = %+v, want only B", nodes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		edge      Edge
		wantField string
	}{
		{"valid", Edge{FromID: "A", ToID: "B", Connector: "-->"}, ""},
		{"empty connector ok", Edge{FromID: "A", ToID: "B"}, ""},
		{"missing from", Edge{ToID: "B"}, FieldFromID},
		{"missing to", Edge{FromID: "A"}, FieldToID},
		{"unsafe from", Edge{FromID: "A B", ToID: "B"}, FieldFromID},
		{"unsafe to", Edge{FromID: "A", ToID: "B]"}, FieldToID},
		{"multiline connector", Edge{FromID: "A", ToID: "B", Connector: "--\n>"}, FieldConnector},
		{"multiline from label", Edge{FromID: "A", FromLabel: "line1\nline2", ToID: "B"}, FieldFromLabel},
		{"multiline to label", Edge{FromID: "A", ToID: "B", ToLabel: "x\r\ny"}, FieldToLabel},
		{"multiline tooltip", Edge{FromID: "A", ToID: "B", Tooltip: "tip\nmore"}, FieldTooltip},
		{"multiline url", Edge{FromID: "A", ToID: "B", URL: "https://example.com/\nx"}, FieldURL},
		{"tab in label ok", Edge{FromID: "A", FromLabel: "a\tb", ToID: "B"}, ""},
		{"multiline notes ok", Edge{FromID: "A", ToID: "B", Notes: "first\nsecond"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(7, tt.edge)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeMalformedEdge) {
				t.Fatalf("Validate() error = %v, want MALFORMED_EDGE", err)
			}
			msg := errors.UserMessage(err)
			if !strings.HasPrefix(msg, "row 7: "+tt.wantField+":") {
				t.Errorf("message = %q, want row 7 and field %s", msg, tt.wantField)
			}
		})
	}
}

func TestSample(t *testing.T) {
	rows := Sample()
	if len(rows) != 4 {
		t.Fatalf("Sample() len = %d, want 4", len(rows))
	}
	for i, r := range rows {
		if err := Validate(i, r); err != nil {
			t.Errorf("Sample()[%d] invalid: %v", i, err)
		}
	}
	if rows[0].URL != NoURL {
		t.Errorf("first sample row URL = %q, want placeholder", rows[0].URL)
	}
}
