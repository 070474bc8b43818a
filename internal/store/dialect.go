package store

import (
	"strconv"
	"strings"
)

// Dialect captures the differences between the supported SQL engines.
// Queries are written with ? placeholders and rebound per dialect.
type Dialect struct {
	Name     string
	JSONType string
	TimeType string
	numbered bool
}

var (
	Postgres = Dialect{Name: "postgres", JSONType: "JSONB", TimeType: "TIMESTAMPTZ", numbered: true}
	SQLite   = Dialect{Name: "sqlite3", JSONType: "TEXT", TimeType: "TIMESTAMP"}
)

// DialectFor maps a matching.store setting to its dialect.
func DialectFor(name string) (Dialect, bool) {
	switch name {
	case "postgres", "postgresql":
		return Postgres, true
	case "sqlite", "sqlite3":
		return SQLite, true
	}
	return Dialect{}, false
}

// Rebind turns ? placeholders into $1, $2, ... for numbered dialects.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
