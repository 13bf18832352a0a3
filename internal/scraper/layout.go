package scraper

import (
	"fmt"
	"sort"

	"github.com/PuerkitoBio/goquery"
)

// Field names a value extracted from a game page
type Field string

const (
	FieldTeamOneName       Field = "team_one_name"
	FieldTeamTwoName       Field = "team_two_name"
	FieldTeamOneAttribute  Field = "team_one_attribute"
	FieldTeamTwoAttribute  Field = "team_two_attribute"
	FieldHomeMoneyLine     Field = "home_money_line"
	FieldAwayMoneyLine     Field = "away_money_line"
	FieldTeamOnePrediction Field = "team_one_prediction"
	FieldTeamTwoPrediction Field = "team_two_prediction"
)

// Locator selects the Index-th element matched by Selector
type Locator struct {
	Selector string
	Index    int
	Optional bool
}

// Layout describes where each field lives on a page.
//
// Counts maps a selector to the number of matches a well-formed page has: positive means
// exactly that many, negative means at least that many (absolute value).
type Layout struct {
	Fields map[Field]Locator
	Counts map[string]int
}

// ESPN markup. The money line container matches six cells per game (spread, total and
// moneyline for each team); the moneyline cells sit at index 2 and 5.
const (
	teamNameSelector       = "span.rteQ"
	teamAttributeSelector  = "div.Touj.AsfG.ucZk.Umfe"
	moneyLineSelector      = "div.nfCS.iygL.FuEs"
	teamOnePredictSelector = "div.matchupPredictor__teamValue.matchupPredictor__teamValue--b"
	teamTwoPredictSelector = "div.matchupPredictor__teamValue.matchupPredictor__teamValue--a"

	// ScheduleLinkSelector matches the anchors on schedule pages that may point at games
	ScheduleLinkSelector = "a.AnchorLink"
)

// DefaultLayout is the ESPN game page layout
var DefaultLayout = Layout{
	Fields: map[Field]Locator{
		FieldTeamOneName:       {Selector: teamNameSelector, Index: 0},
		FieldTeamTwoName:       {Selector: teamNameSelector, Index: 1},
		FieldTeamOneAttribute:  {Selector: teamAttributeSelector, Index: 0, Optional: true},
		FieldTeamTwoAttribute:  {Selector: teamAttributeSelector, Index: 1, Optional: true},
		FieldHomeMoneyLine:     {Selector: moneyLineSelector, Index: 2},
		FieldAwayMoneyLine:     {Selector: moneyLineSelector, Index: 5},
		FieldTeamOnePrediction: {Selector: teamOnePredictSelector, Index: 0},
		FieldTeamTwoPrediction: {Selector: teamTwoPredictSelector, Index: 0},
	},
	Counts: map[string]int{
		teamNameSelector:  2,
		moneyLineSelector: -6,
	},
}

// page wraps a parsed document with the layout used to read it.
// Selections are cached per selector since several fields share one.
type page struct {
	doc    *goquery.Document
	layout Layout
	cache  map[string]*goquery.Selection
}

func newPage(doc *goquery.Document, layout Layout) *page {
	return &page{doc: doc, layout: layout, cache: make(map[string]*goquery.Selection)}
}

func (p *page) find(selector string) *goquery.Selection {
	if sel, ok := p.cache[selector]; ok {
		return sel
	}
	sel := p.doc.Find(selector)
	p.cache[selector] = sel
	return sel
}

// checkCounts verifies every count constraint in the layout
func (p *page) checkCounts() error {
	selectors := make([]string, 0, len(p.layout.Counts))
	for selector := range p.layout.Counts {
		selectors = append(selectors, selector)
	}
	sort.Strings(selectors)

	for _, selector := range selectors {
		want := p.layout.Counts[selector]
		got := p.find(selector).Length()
		switch {
		case want > 0 && got != want:
			return fmt.Errorf("%w: found %d elements for %q, want %d", ErrLayoutMismatch, got, selector, want)
		case want < 0 && got < -want:
			return fmt.Errorf("%w: found %d elements for %q, want at least %d", ErrLayoutMismatch, got, selector, -want)
		}
	}
	return nil
}

// text returns the trimmed text for field. ok is false when the element is missing;
// a missing required field is an error, a missing optional field is not.
func (p *page) text(field Field) (value string, ok bool, err error) {
	loc, exists := p.layout.Fields[field]
	if !exists {
		return "", false, fmt.Errorf("%w: no locator for field %s", ErrLayoutMismatch, field)
	}

	sel := p.find(loc.Selector)
	if loc.Index >= sel.Length() {
		if loc.Optional {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %s not found (%q index %d, %d matches)",
			ErrLayoutMismatch, field, loc.Selector, loc.Index, sel.Length())
	}

	return trimText(sel.Eq(loc.Index).Text()), true, nil
}
