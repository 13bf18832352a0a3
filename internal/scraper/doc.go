// Package scraper provides HTTP fetching and HTML parsing for ESPN basketball pages.
//
// The scraper package lists game identifiers from league schedule pages and extracts
// team names, money lines and matchup predictor percentages from game pages. Element
// selection is driven by a single Layout table so a change in ESPN's markup means
// editing one entry rather than hunting for literals.
package scraper
