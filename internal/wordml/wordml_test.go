package wordml

import (
	"strings"
	"testing"
)

const sampleMarkup = `<w:document><w:body>` +
	`<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:jc w:val="center"/></w:pPr>` +
	`<w:r><w:rPr><w:b/><w:sz w:val="28"/><w:rFonts w:ascii="Calibri"/></w:rPr><w:t>EXPERIENCE</w:t></w:r></w:p>` +
	`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>` +
	`<w:r><w:t>Managed team of 5 developers</w:t></w:r></w:p>` +
	`<w:p><w:r><w:rPr><w:i/></w:rPr><w:t>Built APIs &amp; tools</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func TestParse_RunsAndText(t *testing.T) {
	doc := Parse(sampleMarkup)

	if len(doc.Paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(doc.Paragraphs))
	}
	if len(doc.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(doc.Runs))
	}

	if doc.Runs[0].Text != "EXPERIENCE" {
		t.Errorf("run 0 text = %q, want EXPERIENCE", doc.Runs[0].Text)
	}
	if doc.Runs[2].Text != "Built APIs & tools" {
		t.Errorf("run 2 text = %q, want unescaped ampersand", doc.Runs[2].Text)
	}
}

func TestParse_RunProperties(t *testing.T) {
	doc := Parse(sampleMarkup)

	heading := doc.Runs[0].Props
	if !heading.Bold {
		t.Error("heading run should be bold")
	}
	if heading.FontSizePt != 14 {
		t.Errorf("heading size = %v pt, want 14 (28 half-points)", heading.FontSizePt)
	}
	if heading.FontFamily != "Calibri" {
		t.Errorf("heading font = %q, want Calibri", heading.FontFamily)
	}

	if !doc.Runs[2].Props.Italic {
		t.Error("third run should be italic")
	}
	if doc.Runs[1].Props.Bold {
		t.Error("bullet run should not inherit heading bold")
	}
}

func TestParse_ParagraphProperties(t *testing.T) {
	doc := Parse(sampleMarkup)

	if doc.Paragraphs[0].Props.HeadingLevel != 1 {
		t.Errorf("heading level = %d, want 1", doc.Paragraphs[0].Props.HeadingLevel)
	}
	if doc.Paragraphs[0].Props.Alignment != "center" {
		t.Errorf("alignment = %q, want center", doc.Paragraphs[0].Props.Alignment)
	}
	if !doc.Paragraphs[1].Props.ListItem {
		t.Error("second paragraph should be a list item")
	}
	if doc.Paragraphs[2].Props.ListItem {
		t.Error("third paragraph should not be a list item")
	}
}

func TestApply_ReplacesOnlyInnerText(t *testing.T) {
	doc := Parse(sampleMarkup)

	out := doc.Apply(map[int]string{
		1: "Led cross-functional team of 5 developers",
	})

	if !strings.Contains(out, "<w:t>Led cross-functional team of 5 developers</w:t>") {
		t.Errorf("replacement text not spliced into run: %s", out)
	}
	if strings.Contains(out, "Managed team of 5 developers") {
		t.Error("original bullet text still present after replacement")
	}
	if !strings.Contains(out, `<w:pStyle w:val="Heading1"/>`) {
		t.Error("surrounding structure nodes were disturbed")
	}
	if !strings.Contains(out, "Built APIs &amp; tools") {
		t.Error("unrelated run was modified")
	}
}

func TestApply_EscapesReservedCharacters(t *testing.T) {
	doc := Parse(sampleMarkup)

	out := doc.Apply(map[int]string{2: "Shipped <fast> & safe"})

	if !strings.Contains(out, "Shipped &lt;fast&gt; &amp; safe") {
		t.Errorf("replacement not escaped: %s", out)
	}
}

func TestApply_EmptyReplacementsIsVerbatim(t *testing.T) {
	doc := Parse(sampleMarkup)

	if out := doc.Apply(nil); out != sampleMarkup {
		t.Error("empty replacement map should return the markup verbatim")
	}
	if out := doc.Apply(map[int]string{}); out != sampleMarkup {
		t.Error("zero-length replacement map should return the markup verbatim")
	}
}

func TestPlainText(t *testing.T) {
	doc := Parse(sampleMarkup)

	want := "EXPERIENCE\nManaged team of 5 developers\nBuilt APIs & tools"
	if got := doc.PlainText(); got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
}

func TestEscapeUnescapeSymmetry(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Plain text", input: "Managed team of 5 developers"},
		{name: "Reserved characters", input: `a < b && c > "d" + 'e'`},
		{name: "Empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unescape(Escape(tt.input)); got != tt.input {
				t.Errorf("Unescape(Escape(%q)) = %q", tt.input, got)
			}
		})
	}
}
