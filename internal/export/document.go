package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/lifelist/internal/model"
)

// DefaultLinesPerPage fits a printed A4 page in a monospace font
const DefaultLinesPerPage = 54

// Document is a paginated plain-text rendering of a bucket list
type Document struct {
	Title string
	Pages [][]string
}

// NewDocument lays out goals under a header with summary counts. Goals are
// listed in the order given; a goal's lines never split across pages.
func NewDocument(goals []model.Goal, profileName string, now time.Time, linesPerPage int) *Document {
	if linesPerPage < 10 {
		linesPerPage = DefaultLinesPerPage
	}

	title := "My Bucket List"
	if profileName != "" {
		title = profileName + "'s Bucket List"
	}

	done := 0
	for _, g := range goals {
		if g.Completed {
			done++
		}
	}

	header := []string{
		title,
		strings.Repeat("=", len(title)),
		"Generated " + now.Format("January 2, 2006"),
		fmt.Sprintf("%d goals, %d completed, %d remaining", len(goals), done, len(goals)-done),
		"",
	}

	d := &Document{Title: title}
	page := append([]string{}, header...)
	for i, g := range goals {
		block := goalLines(i+1, g)
		if len(page)+len(block) > linesPerPage && len(page) > 0 {
			d.Pages = append(d.Pages, page)
			page = nil
		}
		page = append(page, block...)
	}
	d.Pages = append(d.Pages, page)

	total := len(d.Pages)
	for i := range d.Pages {
		d.Pages[i] = append(d.Pages[i], "", fmt.Sprintf("Page %d of %d", i+1, total))
	}
	return d
}

func goalLines(n int, g model.Goal) []string {
	mark := "[TODO]"
	if g.Completed {
		mark = "[DONE]"
	}
	lines := []string{fmt.Sprintf("%3d. %s %s (%s)", n, mark, g.Text, g.Category)}
	if g.Completed && g.CompletedAt != nil {
		lines = append(lines, "       Completed "+g.CompletedAt.Format("January 2, 2006"))
	}
	if g.Completed && g.CompletionNote != "" {
		for _, l := range Wrap(g.CompletionNote, 70) {
			lines = append(lines, "       "+l)
		}
	}
	return lines
}

// Render joins pages with form feeds
func (d *Document) Render() string {
	pages := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		pages[i] = strings.Join(p, "\n")
	}
	return strings.Join(pages, "\n\f") + "\n"
}

// Wrap breaks text into lines of at most width characters at word boundaries.
// Words longer than width are split.
func Wrap(text string, width int) []string {
	var (
		lines []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
	}
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			flush()
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= width:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			flush()
			cur = append(cur, w...)
		}
	}
	flush()
	return lines
}
