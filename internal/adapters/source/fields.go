package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	xpp "github.com/mmcdole/goxpp"
	"golang.org/x/net/html/charset"
)

var atomNamespaces = map[string]bool{
	"":                            true,
	"http://www.w3.org/2005/Atom": true,
	"http://purl.org/atom/ns#":    true,
}

// EntryFields carries what the Atom tree drops for one entry: the declared
// type of each text construct, and publisher or rating children written in
// the feed's own namespace.
type EntryFields struct {
	TitleType   string
	SummaryType string
	ContentType string
	Publisher   string
	Rating      string
}

// scanEntryFields walks the feed document and returns one EntryFields per
// top-level entry, in document order.
func scanEntryFields(doc []byte) ([]EntryFields, error) {
	p := xpp.NewXMLPullParser(bytes.NewReader(doc), false, charset.NewReaderLabel)

	if tok, err := nextTag(p); err != nil {
		return nil, err
	} else if tok != xpp.StartTag {
		return nil, fmt.Errorf("feed has no root element")
	}

	var out []EntryFields
	for {
		tok, err := nextTag(p)
		if err != nil {
			return nil, err
		}
		if tok == xpp.EndTag {
			return out, nil
		}
		if !isAtomElement(p) || !strings.EqualFold(p.Name, "entry") {
			if err := p.Skip(); err != nil {
				return nil, err
			}
			continue
		}
		fields, err := scanEntry(p)
		if err != nil {
			return nil, err
		}
		out = append(out, fields)
	}
}

func scanEntry(p *xpp.XMLPullParser) (EntryFields, error) {
	var f EntryFields
	for {
		tok, err := nextTag(p)
		if err != nil {
			return f, err
		}
		if tok == xpp.EndTag {
			return f, nil
		}
		if !isAtomElement(p) {
			if err := p.Skip(); err != nil {
				return f, err
			}
			continue
		}

		var target *string
		switch strings.ToLower(p.Name) {
		case "title":
			f.TitleType = textType(p)
		case "summary":
			f.SummaryType = textType(p)
		case "content":
			f.ContentType = textType(p)
		case "publisher":
			target = &f.Publisher
		case "rating":
			target = &f.Rating
		}
		if target == nil {
			if err := p.Skip(); err != nil {
				return f, err
			}
			continue
		}

		v := strings.TrimSpace(p.Attribute("value"))
		text, err := elementText(p)
		if err != nil {
			return f, err
		}
		if text != "" {
			v = text
		}
		if *target == "" {
			*target = v
		}
	}
}

// nextTag advances to the next start or end tag, passing over character data.
func nextTag(p *xpp.XMLPullParser) (xpp.XMLEventType, error) {
	for {
		tok, err := p.Next()
		if err != nil {
			return tok, err
		}
		switch tok {
		case xpp.StartTag, xpp.EndTag:
			return tok, nil
		case xpp.EndDocument:
			return tok, io.ErrUnexpectedEOF
		}
	}
}

// elementText consumes the current element and returns its trimmed text,
// including the text of any nested elements.
func elementText(p *xpp.XMLPullParser) (string, error) {
	var sb strings.Builder
	for depth := 1; depth > 0; {
		tok, err := p.Next()
		if err != nil {
			return "", err
		}
		switch tok {
		case xpp.StartTag:
			depth++
		case xpp.EndTag:
			depth--
		case xpp.Text:
			sb.WriteString(p.Text)
		case xpp.EndDocument:
			return "", io.ErrUnexpectedEOF
		}
	}
	return strings.Join(strings.Fields(sb.String()), " "), nil
}

func isAtomElement(p *xpp.XMLPullParser) bool {
	return atomNamespaces[strings.TrimSpace(p.Space)]
}

func textType(p *xpp.XMLPullParser) string {
	return strings.ToLower(strings.TrimSpace(p.Attribute("type")))
}

// textValue flattens an Atom text construct. Only html and xhtml content is
// parsed as markup; text content keeps literal angle brackets.
func textValue(s, typ string) string {
	if strings.Contains(typ, "html") {
		return plainText(s)
	}
	return strings.Join(strings.Fields(s), " ")
}
