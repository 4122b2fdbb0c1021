package operation

import (
	"fmt"
	"image"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// JournalVersion is the journal format written by WriteJournal.
const JournalVersion = 1

// Header describes the pristine image a journal's operations apply to.
type Header struct {
	Width      int
	Height     int
	Background string // hex color of the blank canvas, empty for transparent
}

// Size returns the header dimensions as a point.
func (h Header) Size() image.Point { return image.Pt(h.Width, h.Height) }

type journalDoc struct {
	Version    int            `yaml:"version"`
	Width      int            `yaml:"width"`
	Height     int            `yaml:"height"`
	Background string         `yaml:"background,omitempty"`
	Operations []journalEntry `yaml:"operations"`
}

type journalEntry struct {
	ID          string    `yaml:"id"`
	Tool        string    `yaml:"tool"`
	Description string    `yaml:"description,omitempty"`
	Created     time.Time `yaml:"created"`
	Params      yaml.Node `yaml:"params"`
}

// WriteJournal encodes a header and an ordered list of operations as YAML.
// Payloads are embedded as structured YAML rather than opaque strings.
func WriteJournal(w io.Writer, h Header, ops []*Operation) error {
	doc := journalDoc{
		Version:    JournalVersion,
		Width:      h.Width,
		Height:     h.Height,
		Background: h.Background,
		Operations: make([]journalEntry, 0, len(ops)),
	}
	for _, op := range ops {
		if op.size != h.Size() {
			return fmt.Errorf("%w: %s recorded at %v, journal is %v", ErrInvalidOperation, op, op.size, h.Size())
		}
		var node yaml.Node
		if err := yaml.Unmarshal(op.payload, &node); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedPayload, op, err)
		}
		params := node
		if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
			params = *node.Content[0]
		}
		doc.Operations = append(doc.Operations, journalEntry{
			ID:          op.ID(),
			Tool:        op.toolID,
			Description: op.description,
			Created:     op.created,
			Params:      params,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding journal: %w", err)
	}
	return enc.Close()
}

// ReadJournal decodes a journal written by WriteJournal.
func ReadJournal(r io.Reader) (Header, []*Operation, error) {
	var doc journalDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Header{}, nil, fmt.Errorf("decoding journal: %w", err)
	}
	if doc.Version != JournalVersion {
		return Header{}, nil, fmt.Errorf("%w: %d", ErrJournalVersion, doc.Version)
	}

	h := Header{Width: doc.Width, Height: doc.Height, Background: doc.Background}
	ops := make([]*Operation, 0, len(doc.Operations))
	for i, entry := range doc.Operations {
		payload, err := yaml.Marshal(&entry.Params)
		if err != nil {
			return Header{}, nil, fmt.Errorf("journal entry %d: %w", i, err)
		}
		op, err := Restore(entry.ID, entry.Tool, h.Size(), entry.Created, payload, WithDescription(entry.Description))
		if err != nil {
			return Header{}, nil, fmt.Errorf("journal entry %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return h, ops, nil
}
