// Package sse пишет события в формате text/event-stream.
package sse

import (
	"bytes"
	"io"
)

type Event struct {
	ID    []byte
	Event []byte
	Data  []byte
}

// MarshalTo записывает событие в w. Многострочные данные разбиваются на
// отдельные строки data:, как того требует спецификация SSE.
func (e *Event) MarshalTo(w io.Writer) error {
	if len(e.ID) > 0 {
		if _, err := w.Write(append(append([]byte("id: "), e.ID...), '\n')); err != nil {
			return err
		}
	}
	if len(e.Event) > 0 {
		if _, err := w.Write(append(append([]byte("event: "), e.Event...), '\n')); err != nil {
			return err
		}
	}
	for _, line := range bytes.Split(e.Data, []byte("\n")) {
		if _, err := w.Write(append(append([]byte("data: "), line...), '\n')); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte("\n"))
	return err
}
