package main

import (
	"fmt"
	"io"
	"sync"

	"ktm-can-service/ktm"
)

// printSink writes one rendered line per record.
type printSink struct {
	mu     sync.Mutex
	w      io.Writer
	fields bool
}

func newPrintSink(w io.Writer, fields bool) *printSink {
	return &printSink{w: w, fields: fields}
}

func (s *printSink) SendRecord(r ktm.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.CANID()
	text := ktm.Render(r)
	if u, ok := r.(ktm.Unmapped); ok {
		text = u.Hex()
	}

	if _, err := fmt.Fprintf(s.w, "0x%03X %-18s %s\n", id, ktm.NameOf(id), text); err != nil {
		return err
	}

	if s.fields {
		if _, err := fmt.Fprintf(s.w, "      %s\n", r.Fields()); err != nil {
			return err
		}
	}
	return nil
}
