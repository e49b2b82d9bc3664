// Package discovery finds dataset releases on the Receita Federal file index.
//
// The index is a plain HTML directory listing with (label, link, date)
// columns per row. A row is a valid release when its date parses as
// "2006-01-02 15:04" and its link is not a temporary/staging path. The
// newest release is the one with the maximum date; ties are broken
// arbitrarily.
package discovery
