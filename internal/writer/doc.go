// Package writer persists market data as append-only files.
//
// Every destination is a line-delimited UTF-8 file with a fixed header row
// written once at creation. Writers only ever append; nothing rewrites prior
// content, so a file interrupted mid-capture is still valid up to its last
// complete line.
package writer
