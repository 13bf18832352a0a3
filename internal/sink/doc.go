// Package sink provides append-only row stores for extracted game rows.
//
// Every sink takes rows in the fixed column order team name, prediction, money line,
// game ID, league tag, and places them after whatever the store already holds. Sinks
// never compute offsets or rewrite existing rows.
package sink
