// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/bibcloud/pkg/types"
)

const (
	rootTag     = "dblp"
	xmlDecl     = `version="1.0" encoding="UTF-8"`
	keyAttr     = "key"
	xmlProcInst = "xml"
)

// newDocument returns an empty cache document with a UTF-8 declaration and
// a <dblp> root.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst(xmlProcInst, xmlDecl)
	doc.CreateText("\n")
	root := doc.CreateElement(rootTag)
	root.CreateText("\n")
	doc.CreateText("\n")
	return doc
}

// readDocument parses a DBLP XML document. Non-UTF-8 encodings are decoded
// through the declared charset and HTML named entities are accepted.
func readDocument(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return doc, nil
}

// setUTF8 rewrites the XML declaration, since the tree is always written
// as UTF-8.
func setUTF8(doc *etree.Document) {
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == xmlProcInst {
			pi.Inst = xmlDecl
			return
		}
	}
}

// recordElement returns the first DBLP record element of doc. A DBLP
// response wraps the record in <dblp>; a stored SQLite row is the bare
// record element.
func recordElement(doc *etree.Document) (*etree.Element, error) {
	root := doc.Root()
	if root.Tag != rootTag {
		if root.SelectAttr(keyAttr) == nil {
			return nil, fmt.Errorf("%w: <%s> has no key", ErrInvalidRecord, root.Tag)
		}
		return root, nil
	}
	for _, el := range root.ChildElements() {
		if el.SelectAttr(keyAttr) != nil {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: no record element", ErrInvalidRecord)
}

// parseRecord converts a record element into a Record. Field values are the
// concatenated character data of the child and all its descendants, so
// markup such as <i> inside a title is flattened.
func parseRecord(el *etree.Element) (types.Record, error) {
	key := strings.TrimSpace(el.SelectAttrValue(keyAttr, ""))
	if key == "" {
		return types.Record{}, fmt.Errorf("%w: <%s> has an empty key", ErrInvalidRecord, el.Tag)
	}
	rec := types.Record{Key: key, Type: types.RecordType(el.Tag)}
	for _, child := range el.ChildElements() {
		rec.Fields = append(rec.Fields, types.Field{
			Name:  child.Tag,
			Value: innerText(child),
		})
	}
	return rec, nil
}

func innerText(el *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return b.String()
}

// parseResponse extracts the single record carried by a DBLP response
// document. It returns the record and a detached copy of its element.
func parseResponse(data []byte) (types.Record, *etree.Element, error) {
	doc, err := readDocument(data)
	if err != nil {
		return types.Record{}, nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	el, err := recordElement(doc)
	if err != nil {
		return types.Record{}, nil, err
	}
	rec, err := parseRecord(el)
	if err != nil {
		return types.Record{}, nil, err
	}
	return rec, el.Copy(), nil
}
