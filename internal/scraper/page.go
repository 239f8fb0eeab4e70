package scraper

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/davidbz/costwatch/internal/domain"
	"github.com/davidbz/costwatch/internal/snapshot"
)

var dollarAmount = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)

// lineBreaks are the elements that end a line of visible text.
// Table cells only add a space so a pricing row reads as one line.
//
//nolint:gochecknoglobals // Read-only lookup table
var lineBreaks = map[atom.Atom]bool{
	atom.Br: true, atom.P: true, atom.Div: true, atom.Li: true,
	atom.Tr: true, atom.Table: true, atom.Thead: true, atom.Tbody: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Section: true, atom.Article: true, atom.Ul: true, atom.Ol: true, atom.Pre: true,
}

// modelMatcher maps a model name as written on the docs page to its document id.
type modelMatcher struct {
	needle string
	id     string
}

// modelMatchers are tried in order and the first match wins, so the longer
// version strings come before their prefixes.
//
//nolint:gochecknoglobals // Read-only lookup table
var modelMatchers = []modelMatcher{
	{needle: "opus 4.5", id: snapshot.ModelID(domain.ModelOpus45)},
	{needle: "opus 4.1", id: snapshot.ModelID(domain.ModelOpus41)},
	{needle: "opus 4", id: snapshot.ModelID("opus-4")},
	{needle: "sonnet 4.5", id: snapshot.ModelID(domain.ModelSonnet45)},
	{needle: "sonnet 4", id: snapshot.ModelID(domain.ModelSonnet4)},
	{needle: "haiku 4.5", id: snapshot.ModelID(domain.ModelHaiku45)},
	{needle: "haiku 3.5", id: snapshot.ModelID(domain.ModelHaiku35)},
}

// TextLines flattens an HTML or plain text page into lines of visible text.
// Script and style contents are dropped and whitespace is collapsed.
func TextLines(r io.Reader) ([]string, error) {
	var (
		lines   []string
		current strings.Builder
		hidden  int
	)

	flush := func() {
		if line := strings.Join(strings.Fields(current.String()), " "); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return lines, err
			}
			return lines, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			if tt == html.StartTagToken && (tag == atom.Script || tag == atom.Style) {
				hidden++
			}
			if lineBreaks[tag] {
				flush()
			} else if tag == atom.Td || tag == atom.Th {
				current.WriteByte(' ')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			if (tag == atom.Script || tag == atom.Style) && hidden > 0 {
				hidden--
			}
			if lineBreaks[tag] {
				flush()
			}

		case html.TextToken:
			if hidden > 0 {
				continue
			}

			text := string(z.Text())
			if strings.TrimSpace(text) == "" {
				current.WriteByte(' ')
				continue
			}

			for i, part := range strings.Split(text, "\n") {
				if i > 0 {
					flush()
				}
				current.WriteString(part)
			}

		case html.CommentToken, html.DoctypeToken:
		}
	}
}

// ParseModelPrices reads per-model rates from lines such as
// "Claude Opus 4.5 | $5 / MTok | $25 / MTok".
// The first dollar amount on a line is the input rate and the last is the output rate.
// A later line for the same model replaces an earlier one.
func ParseModelPrices(lines []string) map[string]ModelPrice {
	models := make(map[string]ModelPrice)

	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "claude") || !strings.Contains(lower, "mtok") {
			continue
		}

		amounts := dollarAmount.FindAllStringSubmatch(line, -1)
		if len(amounts) < 2 {
			continue
		}

		input, errIn := strconv.ParseFloat(amounts[0][1], 64)
		output, errOut := strconv.ParseFloat(amounts[len(amounts)-1][1], 64)
		if errIn != nil || errOut != nil {
			continue
		}

		for _, matcher := range modelMatchers {
			if strings.Contains(lower, matcher.needle) {
				models[matcher.id] = ModelPrice{Input: input, Output: output}
				break
			}
		}
	}

	return models
}

// countPriceMentions counts dollar amounts across lines.
func countPriceMentions(lines []string) int {
	count := 0
	for _, line := range lines {
		count += len(dollarAmount.FindAllStringIndex(line, -1))
	}
	return count
}
