// Package loader turns a report file into the plain text handed to the model.
package loader

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	ExtJSON = ".json"
	ExtXML  = ".xml"
)

var (
	// ErrUnsupportedFormat is wrapped by Load for paths that are neither JSON nor XML.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	errInvalidUTF8 = errors.New("file is not valid UTF-8")
)

// Error is returned by Load. Its message keeps the "Error" prefix callers
// have historically matched on.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if errors.Is(e.Err, ErrUnsupportedFormat) {
		return fmt.Sprintf("Error: Unsupported file format for %s", e.Path)
	}
	return fmt.Sprintf("Error reading file: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SupportedExtensions lists the suffixes Load understands.
func SupportedExtensions() []string {
	return []string{ExtJSON, ExtXML}
}

// Load reads path and normalizes its content:
//   - .json files are re-indented with two spaces, keeping key order.
//   - .xml files become one "Tag: text" line per element with non-blank text.
//
// The extension match is case-insensitive. The file is read before the
// extension is looked at, so an unreadable file always reports the read error.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &Error{Path: path, Err: errInvalidUTF8}
	}

	lower := strings.ToLower(path)
	var out string
	switch {
	case strings.HasSuffix(lower, ExtJSON):
		out, err = indentJSON(data)
	case strings.HasSuffix(lower, ExtXML):
		out, err = flattenXML(data)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return "", &Error{Path: path, Err: err}
	}
	return out, nil
}

func indentJSON(data []byte) (string, error) {
	data = bytes.TrimSpace(data)

	// Unmarshal for the descriptive syntax error; Indent keeps source key order.
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// entityDeclRe matches internal general entities in a DOCTYPE subset.
// Parameter entities and external (SYSTEM/PUBLIC) entities do not match.
var entityDeclRe = regexp.MustCompile(`<!ENTITY\s+([^\s%"'>]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

type element struct {
	tag  string
	text strings.Builder
}

// flattenXML walks elements in document order. An element's text is the
// character data between its start tag and its first child or end tag.
func flattenXML(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	// Load has already verified the bytes are UTF-8, so any declared
	// encoding is read as-is.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	dec.Entity = map[string]string{}

	var (
		elems      []*element
		stack      []*element
		collecting bool
		rootClosed bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.Directive:
			for _, m := range entityDeclRe.FindAllSubmatch(t, -1) {
				dec.Entity[string(m[1])] = string(m[2]) + string(m[3])
			}
		case xml.StartElement:
			if rootClosed {
				line, _ := dec.InputPos()
				return "", fmt.Errorf("junk after document element: line %d", line)
			}
			el := &element{tag: t.Name.Local}
			elems = append(elems, el)
			stack = append(stack, el)
			collecting = true
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			collecting = false
			if len(stack) == 0 {
				rootClosed = true
			}
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					line, _ := dec.InputPos()
					return "", fmt.Errorf("text outside document element: line %d", line)
				}
				continue
			}
			if collecting {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if len(elems) == 0 {
		return "", errors.New("no element found")
	}

	lines := make([]string, 0, len(elems))
	for _, el := range elems {
		text := strings.TrimSpace(el.text.String())
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", capitalize(el.tag), text))
	}
	return strings.Join(lines, "\n"), nil
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
