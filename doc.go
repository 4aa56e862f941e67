// Package stock keeps track of stock items: how many units of each named
// item are held, against an optional total capacity. It is designed to be
// local-first: the whole stock is a small, human-readable JSON file that
// can be edited, diffed and versioned.
//
// The core functionalities include:
//   - Ledger Management: adding and removing units of named items, with a
//     removal clamped at what is held and an optional capacity checked on
//     every addition.
//   - Status: the total held, what remains before capacity, and whether
//     that remaining room is low.
//   - Data Persistence: a lenient snapshot decoder that recovers what it can
//     from a hand-edited file, a deterministic encoder, and stores that write
//     snapshots atomically.
//   - Exchange: importing stock from other JSON documents and exporting it
//     as a spreadsheet.
//
// This package serves as the foundational logic for the `stk` command-line
// tool.
package stock
