// Package sketch parses the textual stroke-document format:
//
//	sketch doodle v1 {
//	  canvas 640 480 {
//	    background: "photo.png"
//	  }
//	  stroke {
//	    width: 4.0
//	    color: #0c32c8
//	    points: [12.5 20, 14 22.5, 18 30]
//	  }
//	}
//
// String and scalar positions accept ${path.to.value} placeholders that are
// resolved against caller-supplied data at build time.
package sketch

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sketchLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Placeholder", Pattern: `\$\{[^}\n]+\}`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(sketchLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// File is the root AST node for a sketch file.
type File struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'sketch' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/canvas/stroke).
type Section struct {
	Meta   *MetaSection   `parser:"  @@"`
	Canvas *CanvasSection `parser:"| @@"`
	Stroke *StrokeSection `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Canvas != nil:
		return "canvas"
	case s.Stroke != nil:
		return "stroke"
	default:
		return "unknown"
	}
}

// MetaSection captures document metadata assignments.
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// CanvasSection declares the canvas size and optional canvas properties
// (currently the background image).
type CanvasSection struct {
	Width  string `parser:"'canvas' @(Number | Placeholder)"`
	Height string `parser:"@(Number | Placeholder)"`
	Block  *Block `parser:"( @@ )?"`
}

// StrokeSection declares one stroke. Section order in the file is z-order.
type StrokeSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Block *Block         `parser:"'stroke' @@"`
}

// Block is a delimited list of assignments.
type Block struct {
	Assignments []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Get returns the value assigned to key, or nil.
func (b *Block) Get(key string) *Value {
	if b == nil {
		return nil
	}
	for _, a := range b.Assignments {
		if a.Key == key {
			return a.Value
		}
	}
	return nil
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Value represents a property value.
type Value struct {
	String      *StringLiteral `parser:"  @String"`
	Color       *string        `parser:"| @Color"`
	Number      *string        `parser:"| @Number"`
	Placeholder *string        `parser:"| @Placeholder"`
	Points      *PointList     `parser:"| @@"`
}

// PointList captures `[ x y, x y, ... ]` point sequences.
type PointList struct {
	Pairs []*PointPair `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// PointPair is one x/y coordinate pair.
type PointPair struct {
	X string `parser:"@Number"`
	Y string `parser:"@Number"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses sketch content from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString parses sketch content from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
