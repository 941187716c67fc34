// Package wordml provides a minimal view over WordprocessingML markup
// (the word/document.xml member of a DOCX container). It indexes every
// text run by its byte offsets so a single run's inner text can be
// replaced without disturbing any surrounding formatting or structure
// nodes.
package wordml

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// RunProperties is the styling attached to one text run.
type RunProperties struct {
	Bold       bool
	Italic     bool
	FontSizePt float64
	FontFamily string
}

// ParagraphProperties is the styling and list classification of a paragraph.
type ParagraphProperties struct {
	Alignment    string
	HeadingLevel int
	ListItem     bool
	ListLevel    int
}

// Run is one <w:t> text node. Start and End are the byte offsets of the
// escaped inner text within the document markup.
type Run struct {
	Start int
	End   int
	Text  string
	Props RunProperties
}

// Paragraph is one <w:p> node with its runs in document order.
type Paragraph struct {
	Props ParagraphProperties
	Runs  []int // indexes into Document.Runs
	Text  string
}

// Document is a parsed document.xml member. The original markup is kept
// verbatim; edits are expressed as run-indexed replacements and applied in
// a single splice pass.
type Document struct {
	Markup     string
	Paragraphs []Paragraph
	Runs       []Run
}

var (
	paragraphRe = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>|<w:p/>`)
	textRunRe   = regexp.MustCompile(`(?s)<w:t(?: [^>]*)?>(.*?)</w:t>`)
	boldRe      = regexp.MustCompile(`<w:b(?:\s*/|\s[^>]*)?>`)
	italicRe    = regexp.MustCompile(`<w:i(?:\s*/|\s[^>]*)?>`)
	sizeRe      = regexp.MustCompile(`<w:sz w:val="(\d+)"`)
	fontRe      = regexp.MustCompile(`<w:rFonts [^>]*w:ascii="([^"]+)"`)
	alignRe     = regexp.MustCompile(`<w:jc w:val="([^"]+)"`)
	headingRe   = regexp.MustCompile(`<w:pStyle w:val="(?:Heading|heading)(\d)"`)
	numPrRe     = regexp.MustCompile(`<w:numPr>`)
	listLevelRe = regexp.MustCompile(`<w:ilvl w:val="(\d+)"`)
	rPrRe       = regexp.MustCompile(`(?s)<w:rPr>.*?</w:rPr>`)
	pPrRe       = regexp.MustCompile(`(?s)<w:pPr>.*?</w:pPr>`)
)

// Parse indexes the paragraphs and text runs of a document.xml member.
// Markup it does not recognize is left untouched and carried through
// verbatim by Apply.
func Parse(markup string) *Document {
	doc := &Document{Markup: markup}

	for _, pLoc := range paragraphRe.FindAllStringIndex(markup, -1) {
		pMarkup := markup[pLoc[0]:pLoc[1]]
		para := Paragraph{Props: parseParagraphProps(pMarkup)}

		for _, tLoc := range textRunRe.FindAllStringSubmatchIndex(pMarkup, -1) {
			start := pLoc[0] + tLoc[2]
			end := pLoc[0] + tLoc[3]
			run := Run{
				Start: start,
				End:   end,
				Text:  Unescape(markup[start:end]),
				Props: parseRunProps(runContext(pMarkup, tLoc[0])),
			}
			para.Runs = append(para.Runs, len(doc.Runs))
			para.Text += run.Text
			doc.Runs = append(doc.Runs, run)
		}
		doc.Paragraphs = append(doc.Paragraphs, para)
	}
	return doc
}

// runContext returns the <w:rPr> block, if any, of the run whose <w:t>
// starts at tStart within the paragraph markup.
func runContext(pMarkup string, tStart int) string {
	runOpen := strings.LastIndex(pMarkup[:tStart], "<w:r>")
	if alt := strings.LastIndex(pMarkup[:tStart], "<w:r "); alt > runOpen {
		runOpen = alt
	}
	if runOpen == -1 {
		return ""
	}
	if m := rPrRe.FindString(pMarkup[runOpen:tStart]); m != "" {
		return m
	}
	return ""
}

func parseRunProps(rPr string) RunProperties {
	props := RunProperties{
		Bold:   boldRe.MatchString(rPr),
		Italic: italicRe.MatchString(rPr),
	}
	if m := sizeRe.FindStringSubmatch(rPr); m != nil {
		if halfPoints, err := strconv.Atoi(m[1]); err == nil {
			props.FontSizePt = float64(halfPoints) / 2
		}
	}
	if m := fontRe.FindStringSubmatch(rPr); m != nil {
		props.FontFamily = m[1]
	}
	return props
}

func parseParagraphProps(pMarkup string) ParagraphProperties {
	pPr := pPrRe.FindString(pMarkup)
	props := ParagraphProperties{}
	if m := alignRe.FindStringSubmatch(pPr); m != nil {
		props.Alignment = m[1]
	}
	if m := headingRe.FindStringSubmatch(pPr); m != nil {
		props.HeadingLevel, _ = strconv.Atoi(m[1])
	}
	if numPrRe.MatchString(pPr) {
		props.ListItem = true
		if m := listLevelRe.FindStringSubmatch(pPr); m != nil {
			props.ListLevel, _ = strconv.Atoi(m[1])
		}
	}
	return props
}

// Apply splices replacement text into the given runs and returns the new
// markup. Replacement values are escaped; every byte outside the replaced
// inner-text ranges is carried through unchanged. An empty replacement map
// returns the markup verbatim.
func (d *Document) Apply(replacements map[int]string) string {
	if len(replacements) == 0 {
		return d.Markup
	}

	indexes := make([]int, 0, len(replacements))
	for i := range replacements {
		if i >= 0 && i < len(d.Runs) {
			indexes = append(indexes, i)
		}
	}
	sort.Ints(indexes)

	var sb strings.Builder
	prev := 0
	for _, i := range indexes {
		run := d.Runs[i]
		sb.WriteString(d.Markup[prev:run.Start])
		sb.WriteString(Escape(replacements[i]))
		prev = run.End
	}
	sb.WriteString(d.Markup[prev:])
	return sb.String()
}

// PlainText flattens the document to paragraph-per-line text.
func (d *Document) PlainText() string {
	lines := make([]string, 0, len(d.Paragraphs))
	for _, p := range d.Paragraphs {
		lines = append(lines, p.Text)
	}
	return strings.Join(lines, "\n")
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// Escape encodes the reserved markup characters of a text value.
func Escape(s string) string { return escaper.Replace(s) }

// Unescape decodes the reserved markup characters of a text value.
func Unescape(s string) string { return unescaper.Replace(s) }
