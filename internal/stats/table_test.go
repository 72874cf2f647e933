package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Kind", "WPM", "Accuracy"}
	rows := [][]string{
		{"solo", "62", "97%"},
		{"room", "105", "88%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Kind WPM Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "solo  62      97%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "room 105      88%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
