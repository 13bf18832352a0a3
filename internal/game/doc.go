// Package game provides the league and game record types shared by the scraper,
// the pipeline and the sinks.
//
// Leagues map to fixed ESPN URL templates for schedule and game pages. A Record holds
// the fields extracted from one game page and converts to two sink rows, one per team.
package game
