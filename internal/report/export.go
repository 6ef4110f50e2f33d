package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/muurk/klipper-analyzer/internal/firmware"
	"github.com/muurk/klipper-analyzer/internal/version"
)

// Document is the machine-readable form of an analysis.
type Document struct {
	Generator string `json:"generator" yaml:"generator"`

	File    string  `json:"file" yaml:"file"`
	Size    int     `json:"size" yaml:"size"`
	Valid   bool    `json:"valid" yaml:"valid"`
	Verdict Verdict `json:"verdict" yaml:"verdict"`

	VectorTable firmware.VectorTable `json:"vector_table" yaml:"vector_table"`
	LinkBase    firmware.LinkBase    `json:"link_base" yaml:"link_base"`

	// LinkBaseHex repeats LinkBase.Address in the notation firmware configs use.
	LinkBaseHex string `json:"link_base_hex" yaml:"link_base_hex"`

	// Bootloader is nil when the link base lies below flash.
	Bootloader *firmware.OffsetClass `json:"bootloader,omitempty" yaml:"bootloader,omitempty"`

	Crystal *firmware.Crystal `json:"crystal,omitempty" yaml:"crystal,omitempty"`

	DictionaryOffset *int           `json:"dictionary_offset,omitempty" yaml:"dictionary_offset,omitempty"`
	Dictionary       map[string]any `json:"dictionary,omitempty" yaml:"dictionary,omitempty"`
}

// NewDocument flattens an analysis into a Document.
func NewDocument(name string, a *firmware.Analysis) *Document {
	doc := &Document{
		Generator:   version.UserAgent(),
		File:        name,
		Size:        a.Size,
		Valid:       a.Valid(),
		Verdict:     Classify(a),
		VectorTable: a.VectorTable,
		LinkBase:    a.LinkBase,
		LinkBaseHex: Hex32(a.LinkBase.Address),
	}
	if class, ok := a.Offset(); ok {
		doc.Bootloader = &class
	}
	if a.HasDictionary() {
		off := a.DictionaryOffset
		crystal := a.Crystal
		doc.DictionaryOffset = &off
		doc.Crystal = &crystal
		doc.Dictionary = a.Dictionary.Plain()
	}
	return doc
}

// WriteJSON writes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(d)
}

// WriteYAML writes the document as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}
