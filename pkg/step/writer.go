package step

import (
	"fmt"
	"strings"
	"time"
)

// Instance is one partial entity of a complex instance, or the sole entity
// of a simple one.
type Instance struct {
	Type   string
	Params []Param
}

// Entity is a numbered record of the data section.
type Entity struct {
	ID    Ref
	Parts []Instance // one part for simple instances
}

// Type returns the type name of a simple entity and "" for complex ones.
func (e Entity) Type() string {
	if len(e.Parts) == 1 {
		return e.Parts[0].Type
	}
	return ""
}

// Params returns the parameters of a simple entity.
func (e Entity) Params() []Param {
	if len(e.Parts) == 1 {
		return e.Parts[0].Params
	}
	return nil
}

// Writer is the entity list of one export. Ids start at 1 and are assigned
// in creation order; they are never reused or skipped.
type Writer struct {
	entities []Entity
	err      error // first rejected entity
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Add appends a simple entity and returns its id.
func (w *Writer) Add(typ string, params ...Param) Ref {
	return w.AddComplex(Instance{Type: typ, Params: params})
}

// AddComplex appends a complex entity made of parts and returns its id.
func (w *Writer) AddComplex(parts ...Instance) Ref {
	id := Ref(len(w.entities) + 1)
	for _, p := range parts {
		if f, bad := firstNonFinite(p.Params); bad && w.err == nil {
			w.err = fmt.Errorf("%w: #%d %s has value %v", ErrNonFinite, id, p.Type, f)
		}
	}
	w.entities = append(w.entities, Entity{ID: id, Parts: parts})
	return id
}

// Err returns the first entity rejected for a non-finite real, if any.
func (w *Writer) Err() error { return w.err }

// Len returns the number of entities.
func (w *Writer) Len() int { return len(w.entities) }

// Entity returns the entity with id r.
func (w *Writer) Entity(r Ref) (Entity, bool) {
	if r < 1 || int(r) > len(w.entities) {
		return Entity{}, false
	}
	return w.entities[r-1], true
}

// Entities returns every entity in id order.
func (w *Writer) Entities() []Entity { return w.entities }

// Count returns how many simple entities of type typ exist.
func (w *Writer) Count(typ string) int {
	n := 0
	for _, e := range w.entities {
		if e.Type() == typ {
			n++
		}
	}
	return n
}

// Header carries the HEADER section fields.
type Header struct {
	Description  string
	Name         string
	Timestamp    time.Time
	Author       string
	Organization string
	System       string
}

// Schema is the only schema written.
const Schema = "CONFIG_CONTROL_DESIGN"

// Bytes renders the full exchange file. It fails if any entity was
// rejected by Add.
func (w *Writer) Bytes(h Header) ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	var b strings.Builder
	b.WriteString("ISO-10303-21;\nHEADER;\n")
	writeRecord(&b, "FILE_DESCRIPTION", List{List{String(h.Description)}, String("2;1")})
	writeRecord(&b, "FILE_NAME", List{
		String(h.Name),
		String(h.Timestamp.UTC().Format("2006-01-02T15:04:05")),
		List{String(h.Author)},
		List{String(h.Organization)},
		String(h.System),
		String(h.System),
		String(""),
	})
	writeRecord(&b, "FILE_SCHEMA", List{List{String(Schema)}})
	b.WriteString("ENDSEC;\nDATA;\n")
	for _, e := range w.entities {
		fmt.Fprintf(&b, "#%d = ", e.ID)
		if len(e.Parts) == 1 {
			writeInstance(&b, e.Parts[0])
		} else {
			b.WriteString("( ")
			for _, p := range e.Parts {
				writeInstance(&b, p)
				b.WriteByte(' ')
			}
			b.WriteByte(')')
		}
		b.WriteString(" ;\n")
	}
	b.WriteString("ENDSEC;\nEND-ISO-10303-21;\n")
	return []byte(b.String()), nil
}

func writeRecord(b *strings.Builder, typ string, params List) {
	writeInstance(b, Instance{Type: typ, Params: params})
	b.WriteString(";\n")
}

func writeInstance(b *strings.Builder, in Instance) {
	b.WriteString(in.Type)
	if len(in.Params) == 0 {
		b.WriteString(" ()")
		return
	}
	b.WriteString(" ( ")
	for i, p := range in.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		p.appendTo(b)
	}
	b.WriteString(" )")
}
