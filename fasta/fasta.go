// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package fasta parses FASTA input into a sequence database.
// Letters outside the alphabet fold to the ambiguity code as part
// of encoding; the core never sees raw input bytes.
package fasta

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/bigalign/seqdb"
)

// ErrUnknownParser is returned by Lookup for parser names absent
// from the registry.
var ErrUnknownParser = errors.E(errors.NotExist, "unknown parser")

// A Parser reads sequence records from r into db.
type Parser func(r io.Reader, db *seqdb.Database) error

var (
	parsersMu sync.Mutex
	parsers   = map[string]Parser{"fasta": Parse}
)

// RegisterParser adds a parser to the registry.
func RegisterParser(name string, p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	parsers[name] = p
}

// Lookup returns the named parser, or ErrUnknownParser. "default"
// names the FASTA parser.
func Lookup(name string) (Parser, error) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	if name == "default" {
		name = "fasta"
	}
	p, ok := parsers[name]
	if !ok {
		return nil, errors.E("fasta: "+name, ErrUnknownParser)
	}
	return p, nil
}

// Parse reads FASTA records from r into db. A record is a '>'
// header line followed by any number of sequence lines; blank
// lines are skipped. Content before the first header is an error.
func Parse(r io.Reader, db *seqdb.Database) error {
	var (
		scanner     = bufio.NewScanner(r)
		description string
		seq         strings.Builder
		open        bool
	)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	flush := func() {
		if open {
			db.Append(description, seq.String())
			seq.Reset()
		}
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line[0] == '>':
			flush()
			description = strings.TrimSpace(line[1:])
			open = true
		case !open:
			return errors.E(errors.Invalid, "fasta: sequence data before first header")
		default:
			seq.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.E("fasta: read", err)
	}
	flush()
	return nil
}

// ParseFile parses the named FASTA file into db.
func ParseFile(path string, db *seqdb.Database) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.E("fasta: open "+path, err)
	}
	defer f.Close()
	return Parse(f, db)
}
