package gen

import (
	"gopkg.microglot.org/tsproto.go/internal/idl"
	"gopkg.microglot.org/tsproto.go/internal/optional"
	"gopkg.microglot.org/tsproto.go/internal/options"
)

type VisitKind uint8

const (
	VisitEnum    VisitKind = 1
	VisitMessage VisitKind = 2
)

// Visit is one message or enum in generation order.
type Visit struct {
	Kind VisitKind
	// TSName is the TypeScript declaration name, Outer_Inner for nested
	// types.
	TSName string
	// FullName is the qualified protobuf name without a leading dot.
	FullName string
	Message  *idl.Message
	Enum     *idl.Enum
	Comment  optional.Optional[idl.Comment]
}

// ServiceVisit is one service with its source comment.
type ServiceVisit struct {
	Service *idl.Service
	Comment optional.Optional[idl.Comment]
}

// Visits is the traversal of a file. Types holds enums and messages in the
// order their declarations are emitted: at every level enums first, then each
// message followed by everything nested in it.
type Visits struct {
	Types    []Visit
	Services []ServiceVisit
}

// Messages returns only the message visits, in order.
func (v Visits) Messages() []Visit {
	var out []Visit
	for _, t := range v.Types {
		if t.Kind == VisitMessage {
			out = append(out, t)
		}
	}
	return out
}

// Enums returns only the enum visits, in order.
func (v Visits) Enums() []Visit {
	var out []Visit
	for _, t := range v.Types {
		if t.Kind == VisitEnum {
			out = append(out, t)
		}
	}
	return out
}

// Walk traverses a file. The traversal is a pure function of the image and
// the options so repeated walks produce identical results.
func Walk(image *idl.Image, file *idl.File, o options.Options) Visits {
	w := &walker{image: image, file: file, opts: o}
	w.level(file.Enums, file.Messages)
	for _, s := range file.Services {
		w.out.Services = append(w.out.Services, ServiceVisit{
			Service: s,
			Comment: file.Source.Lookup(s.Path),
		})
	}
	return w.out
}

type walker struct {
	image *idl.Image
	file  *idl.File
	opts  options.Options
	out   Visits
}

func (w *walker) level(enums []idl.EnumHandle, messages []idl.MessageHandle) {
	for _, h := range enums {
		e := w.image.Enum(h)
		w.out.Types = append(w.out.Types, Visit{
			Kind:     VisitEnum,
			TSName:   tsEnumName(w.image, w.opts, e),
			FullName: e.FullName,
			Enum:     e,
			Comment:  w.file.Source.Lookup(e.Path),
		})
	}
	for _, h := range messages {
		m := w.image.Message(h)
		w.out.Types = append(w.out.Types, Visit{
			Kind:     VisitMessage,
			TSName:   tsMessageName(w.image, w.opts, m),
			FullName: m.FullName,
			Message:  m,
			Comment:  w.file.Source.Lookup(m.Path),
		})
		w.level(m.Enums, m.Nested)
	}
}
