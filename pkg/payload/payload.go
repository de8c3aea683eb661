// Package payload serializes HRC-20 operation intents into the canonical,
// whitespace-free ASCII documents embedded in reveal redeem scripts.
//
// Grounded on the teacher codebase's pkg/tx/builder.go explicit
// byte-buffer-by-field construction style (build the wire form by
// appending field-by-field in a fixed order, never via a generic
// marshaler that could reorder or whitespace keys), generalized from
// transaction wire encoding to a string builder over the HRC-20 field
// table (spec.md §4.3).
package payload

import (
	"fmt"
	"strconv"
	"strings"
)

// Op names the HRC-20 operation kind. The wire value is always the
// lowercase string written into the "op" field.
type Op string

const (
	OpDeploy   Op = "deploy"
	OpMint     Op = "mint"
	OpTransfer Op = "transfer"
	OpBurn     Op = "burn"
	OpList     Op = "list"
	OpSend     Op = "send"
)

// protocolTag is the fixed value of the leading "p" field in every
// HRC-20 document.
const protocolTag = "hrc-20"

// Option is an explicit present/absent wrapper for optional string fields,
// replacing the nullable-field convention the source expresses dynamically
// (spec.md §9, "Option-typed payload fields").
type Option struct {
	set   bool
	value string
}

// Some wraps a present value.
func Some(v string) Option { return Option{set: true, value: v} }

// None is the absent value.
var None = Option{}

// IsSet reports whether the option carries a value.
func (o Option) IsSet() bool { return o.set }

// Value returns the wrapped value; callers must check IsSet first.
func (o Option) Value() string { return o.value }

// field is one emitted key/value pair in document order.
type field struct {
	key   string
	value string
}

// builder accumulates fields in the order they are appended and renders
// them as a single whitespace-free brace-enclosed document.
type builder struct {
	fields []field
}

func (b *builder) required(key, value string) {
	b.fields = append(b.fields, field{key, value})
}

func (b *builder) optional(key string, v Option) {
	if v.IsSet() {
		b.fields = append(b.fields, field{key, v.Value()})
	}
}

func (b *builder) render() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range b.fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(f.key)
		sb.WriteString(`":"`)
		sb.WriteString(f.value)
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String()
}

// Deploy is the tick-mode token-deployment intent: p, op, tick, max, lim,
// then optional to, dec, pre (spec.md §4.3).
type Deploy struct {
	Tick string
	Max  string
	Lim  string
	To   Option
	Dec  Option // always rendered as a quoted decimal string even though its source is an integer.
	Pre  Option
}

// Serialize renders the canonical document for a tick-mode deploy.
func (d Deploy) Serialize() string {
	b := &builder{}
	b.required("p", protocolTag)
	b.required("op", string(OpDeploy))
	b.required("tick", d.Tick)
	b.required("max", d.Max)
	b.required("lim", d.Lim)
	b.optional("to", d.To)
	b.optional("dec", d.Dec)
	b.optional("pre", d.Pre)
	return b.render()
}

// DeployIssue is the issue-mode token-deployment intent: p, op, name, max,
// mod, then optional to, dec, pre.
type DeployIssue struct {
	Name string
	Max  string
	Mod  string
	To   Option
	Dec  Option
	Pre  Option
}

// Serialize renders the canonical document for an issue-mode deploy.
func (d DeployIssue) Serialize() string {
	b := &builder{}
	b.required("p", protocolTag)
	b.required("op", string(OpDeploy))
	b.required("name", d.Name)
	b.required("max", d.Max)
	b.required("mod", d.Mod)
	b.optional("to", d.To)
	b.optional("dec", d.Dec)
	b.optional("pre", d.Pre)
	return b.render()
}

// Mint is the token-mint intent: p, op, tick, then optional to.
type Mint struct {
	Tick string
	To   Option
}

// Serialize renders the canonical document for a mint.
func (m Mint) Serialize() string {
	b := &builder{}
	b.required("p", protocolTag)
	b.required("op", string(OpMint))
	b.required("tick", m.Tick)
	b.optional("to", m.To)
	return b.render()
}

// Transfer is the token-transfer intent: p, op, tick, amt, to, all required.
type Transfer struct {
	Tick string
	Amt  string
	To   string
}

// Serialize renders the canonical document for a transfer.
func (t Transfer) Serialize() string {
	b := &builder{}
	b.required("p", protocolTag)
	b.required("op", string(OpTransfer))
	b.required("tick", t.Tick)
	b.required("amt", t.Amt)
	b.required("to", t.To)
	return b.render()
}

// Burn is the token-burn intent: p, op, tick, amt, all required.
type Burn struct {
	Tick string
	Amt  string
}

// Serialize renders the canonical document for a burn.
func (bn Burn) Serialize() string {
	b := &builder{}
	b.required("p", protocolTag)
	b.required("op", string(OpBurn))
	b.required("tick", bn.Tick)
	b.required("amt", bn.Amt)
	return b.render()
}

// List is the marketplace-listing intent: p, op, tick (lowercased), amt.
type List struct {
	Tick string
	Amt  string
}

// Serialize renders the canonical document for a list, lowercasing tick
// per indexer convention (spec.md §4.3).
func (l List) Serialize() string {
	b := &builder{}
	b.required("p", protocolTag)
	b.required("op", string(OpList))
	b.required("tick", strings.ToLower(l.Tick))
	b.required("amt", l.Amt)
	return b.render()
}

// Send is the marketplace-transfer intent: p, op, tick (lowercased).
type Send struct {
	Tick string
}

// Serialize renders the canonical document for a send, lowercasing tick.
func (s Send) Serialize() string {
	b := &builder{}
	b.required("p", protocolTag)
	b.required("op", string(OpSend))
	b.required("tick", strings.ToLower(s.Tick))
	return b.render()
}

// Operation is implemented by every HRC-20 intent variant.
type Operation interface {
	Serialize() string
}

var (
	_ Operation = Deploy{}
	_ Operation = DeployIssue{}
	_ Operation = Mint{}
	_ Operation = Transfer{}
	_ Operation = Burn{}
	_ Operation = List{}
	_ Operation = Send{}
)

// DecString renders an unsigned decimal count as the quoted-string form
// "dec" requires, even though the source value is an integer
// (spec.md §4.3).
func DecString(n uint8) string {
	return strconv.FormatUint(uint64(n), 10)
}

// Bytes is a convenience wrapper returning the ASCII document as []byte,
// ready to embed in the reveal envelope (pkg/script.BuildEnvelope).
func Bytes(op Operation) []byte {
	return []byte(op.Serialize())
}

// ParseOp extracts the "op" field from a previously serialized document,
// for estimate_fees-style dispatch that only needs the operation kind
// (spec.md §4.4). Returns an error if no "op" field is present.
func ParseOp(doc []byte) (Op, error) {
	const key = `"op":"`
	idx := strings.Index(string(doc), key)
	if idx < 0 {
		return "", fmt.Errorf("payload: no \"op\" field in document")
	}
	rest := string(doc)[idx+len(key):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", fmt.Errorf("payload: malformed \"op\" field")
	}
	return Op(rest[:end]), nil
}
