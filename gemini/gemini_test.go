package gemini

import (
	"strings"
	"testing"

	"github.com/srgchrksv/echocast/models"
)

func TestCleanQueries(t *testing.T) {
	queries, err := cleanQueries([]string{
		"  solar panel efficiency 2024 ",
		"residential solar cost",
		"Solar Panel Efficiency 2024", // duplicate, different case
		"",
		"solar panel recycling",
	})
	if err != nil {
		t.Fatalf("cleanQueries failed: %v", err)
	}
	want := []string{
		"solar panel efficiency 2024",
		"residential solar cost",
		"solar panel recycling",
	}
	if len(queries) != len(want) {
		t.Fatalf("got %d queries, want %d: %v", len(queries), len(want), queries)
	}
	for i := range want {
		if queries[i] != want[i] {
			t.Errorf("query %d = %q, want %q", i, queries[i], want[i])
		}
	}
}

func TestCleanQueriesCapsAtEight(t *testing.T) {
	raw := make([]string, 12)
	for i := range raw {
		raw[i] = strings.Repeat("q", i+1)
	}
	queries, err := cleanQueries(raw)
	if err != nil {
		t.Fatalf("cleanQueries failed: %v", err)
	}
	if len(queries) != maxQueries {
		t.Errorf("got %d queries, want %d", len(queries), maxQueries)
	}
}

func TestCleanQueriesTooFew(t *testing.T) {
	if _, err := cleanQueries([]string{"one", "two"}); err == nil {
		t.Fatal("want error for fewer than three queries")
	}
	if _, err := cleanQueries(nil); err == nil {
		t.Fatal("want error for empty query list")
	}
}

func TestValidateScriptDropsMalformedLines(t *testing.T) {
	lines := []models.Segment{
		{Speaker: "Host", Text: "Welcome to the show."},
		{Speaker: "Narrator", Text: "An unknown role."},
		{Speaker: "Guest", Text: "   "},
		{Speaker: " Guest ", Text: "Thanks for having me."},
	}
	script, err := validateScript(lines, 2400, 8000)
	if err != nil {
		t.Fatalf("validateScript failed: %v", err)
	}
	if len(script) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(script), script)
	}
	if script[0].Speaker != models.SpeakerHost || script[1].Speaker != models.SpeakerGuest {
		t.Errorf("unexpected speakers: %+v", script)
	}
	for _, line := range script {
		if line.Speaker != models.SpeakerHost && line.Speaker != models.SpeakerGuest {
			t.Errorf("speaker %q outside the two-role set", line.Speaker)
		}
	}
}

func TestValidateScriptTruncatesLongLines(t *testing.T) {
	lines := []models.Segment{
		{Speaker: "Host", Text: strings.Repeat("a", 3000)},
	}
	script, err := validateScript(lines, 2400, 8000)
	if err != nil {
		t.Fatalf("validateScript failed: %v", err)
	}
	if len(script[0].Text) != 2400 {
		t.Errorf("line length = %d, want 2400", len(script[0].Text))
	}
}

func TestValidateScriptEnforcesTotalBudget(t *testing.T) {
	lines := []models.Segment{
		{Speaker: "Host", Text: strings.Repeat("a", 400)},
		{Speaker: "Guest", Text: strings.Repeat("b", 400)},
		{Speaker: "Host", Text: strings.Repeat("c", 400)},
	}
	script, err := validateScript(lines, 2400, 1000)
	if err != nil {
		t.Fatalf("validateScript failed: %v", err)
	}
	// Third line would push the total past 1000, so it gets dropped whole.
	if len(script) != 2 {
		t.Errorf("got %d lines, want 2", len(script))
	}
}

func TestValidateScriptEmptyIsFatal(t *testing.T) {
	lines := []models.Segment{
		{Speaker: "Narrator", Text: "wrong role"},
		{Speaker: "Host", Text: ""},
	}
	if _, err := validateScript(lines, 2400, 8000); err == nil {
		t.Fatal("want error when no valid lines remain")
	}
}

func TestFormatSources(t *testing.T) {
	results := []models.SearchResult{
		{URL: "https://a", Title: "A", Text: "alpha text"},
		{URL: "https://b", Title: "B", Text: "beta text"},
	}
	out := formatSources(results, 0)
	if !strings.Contains(out, "--- Source 1 ---") || !strings.Contains(out, "--- Source 2 ---") {
		t.Errorf("missing source headers:\n%s", out)
	}
	if !strings.Contains(out, "URL: https://b") {
		t.Errorf("missing second source URL")
	}
}

func TestFormatSourcesTruncates(t *testing.T) {
	results := []models.SearchResult{
		{URL: "https://a", Title: "A", Text: strings.Repeat("x", 500)},
	}
	out := formatSources(results, 100)
	if !strings.HasSuffix(out, truncationMarker) {
		t.Errorf("missing truncation marker")
	}
	if len(out) > 100+len(truncationMarker) {
		t.Errorf("formatted sources too long: %d", len(out))
	}
}

func TestTruncateRespectsRuneBoundaries(t *testing.T) {
	s := "héllo wörld"
	for max := 0; max <= len(s); max++ {
		got := truncate(s, max)
		if len(got) > max {
			t.Errorf("truncate(%q, %d) = %q, too long", s, max, got)
		}
		if !strings.HasPrefix(s, got) {
			t.Errorf("truncate(%q, %d) = %q, not a prefix", s, max, got)
		}
	}
}
