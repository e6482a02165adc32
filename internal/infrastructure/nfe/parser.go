// Lectura de notas fiscales eletrônicas (NFe, layout 4.00) enviadas por el proveedor.
// Se extrae solo lo necesario para conferir el pedido: cabecera y líneas det/prod.

package nfe

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/reconciliation"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"
	"golang.org/x/text/encoding/charmap"
)

// DefaultMaxDocumentSize límite práctico de un XML de NFe (10 MiB).
const DefaultMaxDocumentSize int64 = 10 << 20

// Parser convierte el XML en entity.InvoiceDocument.
type Parser struct {
	maxSize int64
}

// NewParser crea el parser. maxSize <= 0 usa DefaultMaxDocumentSize.
func NewParser(maxSize int64) *Parser {
	if maxSize <= 0 {
		maxSize = DefaultMaxDocumentSize
	}
	return &Parser{maxSize: maxSize}
}

// MaxSize tamaño máximo aceptado en bytes.
func (p *Parser) MaxSize() int64 { return p.maxSize }

// Parse interpreta el documento. Solo falla si el XML no se puede leer; los
// campos ausentes quedan vacíos y los números ilegibles en cero.
func (p *Parser) Parse(raw []byte) (*entity.InvoiceDocument, error) {
	if int64(len(raw)) > p.maxSize {
		return nil, fmt.Errorf("%w: %w (%d bytes, máximo %d)", domain.ErrDocumentFormat, domain.ErrDocumentTooLarge, len(raw), p.maxSize)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentFormat, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: documento sin raíz", domain.ErrDocumentFormat)
	}

	inf := root.FindElement("//infNFe")
	if inf == nil {
		inf = root
	}

	out := &entity.InvoiceDocument{
		Number:         text(inf, "ide/nNF"),
		Series:         text(inf, "ide/serie"),
		DeclaredTotal:  number(inf, "total/ICMSTot/vNF"),
		IssuerName:     text(inf, "emit/xNome"),
		IssuerTaxID:    taxID(inf.FindElement("emit")),
		RecipientName:  text(inf, "dest/xNome"),
		RecipientTaxID: taxID(inf.FindElement("dest")),
		AccessKey:      accessKey(root, inf),
		Fingerprint:    fingerprint(raw),
	}
	out.EmittedAtRaw = text(inf, "ide/dhEmi")
	if out.EmittedAtRaw == "" {
		out.EmittedAtRaw = text(inf, "ide/dEmi")
	}
	out.EmittedAt = parseEmission(out.EmittedAtRaw)

	for _, det := range inf.SelectElements("det") {
		prod := det.SelectElement("prod")
		if prod == nil {
			continue
		}
		desc := text(prod, "xProd")
		out.Items = append(out.Items, entity.InvoiceLineItem{
			SupplierCode: text(prod, "cProd"),
			Description:  desc,
			MatchCode:    reconciliation.NormalizeCode(desc),
			Quantity:     number(prod, "qCom"),
			UnitPrice:    number(prod, "vUnCom"),
			LineTotal:    number(prod, "vProd"),
		})
	}
	return out, nil
}

func text(e *etree.Element, path string) string {
	if e == nil {
		return ""
	}
	if el := e.FindElement(path); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

func number(e *etree.Element, path string) decimal.Decimal {
	v, err := decimal.NewFromString(text(e, path))
	if err != nil {
		return decimal.Zero
	}
	return v
}

func taxID(party *etree.Element) string {
	if v := text(party, "CNPJ"); v != "" {
		return v
	}
	return text(party, "CPF")
}

// accessKey usa el atributo Id de infNFe ("NFe" + 44 dígitos) o, si falta, el protocolo.
func accessKey(root, inf *etree.Element) string {
	if id := strings.TrimSpace(inf.SelectAttrValue("Id", "")); id != "" {
		return strings.TrimPrefix(id, "NFe")
	}
	return text(root, "//protNFe/infProt/chNFe")
}

var emissionLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseEmission(raw string) time.Time {
	for _, layout := range emissionLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// charsetReader acepta las codificaciones latinas que algunos emisores aún declaran.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "utf-8", "utf8", "":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", charset)
	}
}

// fingerprint SHA-256 del documento canonicalizado (C14N); si no se puede
// canonicalizar se usa el contenido tal cual.
func fingerprint(raw []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Entity = map[string]string{}
	dec.CharsetReader = charsetReader
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		canonical = raw
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
