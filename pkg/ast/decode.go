package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrUnknownKind  = errors.New("unknown term kind")
	ErrInvalidValue = errors.New("invalid value")
)

// DecodeError reports a malformed node together with its JSON path.
type DecodeError struct {
	Path string
	Kind NodeKind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("decode %s at %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// SyntaxError is produced when the front end embedded an Error node in the
// tree instead of failing outright.
type SyntaxError struct {
	Message  string
	FullText string
	Location Location
}

func (e *SyntaxError) Error() string {
	if e.FullText != "" {
		return fmt.Sprintf("syntax error: %s: %s", e.Message, e.FullText)
	}
	return fmt.Sprintf("syntax error: %s", e.Message)
}

type termCategoryDecoder func(obj map[string]any, kind NodeKind, path string) (Term, bool, error)

var termDecoders []termCategoryDecoder

func init() {
	termDecoders = []termCategoryDecoder{
		decodeLiteralTerms,
		decodeFunctionTerms,
		decodeControlFlowTerms,
		decodeTupleTerms,
	}
}

// DecodeFile reads a whole program (the File object) from r.
func DecodeFile(r io.Reader) (*File, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ast: empty input")
		}
		return nil, fmt.Errorf("ast: parse: %w", err)
	}
	if raw == nil {
		return nil, &DecodeError{Path: "$", Err: fmt.Errorf("%w: expected object, got null", ErrInvalidValue)}
	}
	if err := expectEnd(decoder); err != nil {
		return nil, err
	}
	return decodeFileObject(raw)
}

// DecodeTerm decodes a single term object.
func DecodeTerm(data []byte) (Term, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ast: parse: %w", err)
	}
	if err := expectEnd(decoder); err != nil {
		return nil, err
	}
	return decodeTerm(raw, "$")
}

// expectEnd rejects anything but whitespace after the first JSON value.
func expectEnd(decoder *json.Decoder) error {
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return &DecodeError{Path: "$", Err: fmt.Errorf("%w: trailing data after the first JSON value", ErrInvalidValue)}
	}
	return nil
}

// EncodeFile writes f in the same shape DecodeFile accepts.
func EncodeFile(w io.Writer, f *File) error {
	if f == nil {
		return fmt.Errorf("ast: nil file")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f)
}

func decodeFileObject(obj map[string]any) (*File, error) {
	name, err := optionalString(obj, "name", "$")
	if err != nil {
		return nil, err
	}
	rawExpr, ok := obj["expression"]
	if !ok {
		return nil, &DecodeError{Path: "$", Err: fmt.Errorf("%w: expression", ErrMissingField)}
	}
	expr, err := decodeTerm(rawExpr, "expression")
	if err != nil {
		return nil, err
	}
	loc, err := decodeLocation(obj["location"], "location")
	if err != nil {
		return nil, err
	}
	return &File{Name: name, Expression: expr, Location: loc}, nil
}

func decodeTerm(raw any, path string) (Term, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w: expected object, got %s", ErrInvalidValue, describeJSON(raw))}
	}
	kindText, _ := obj["kind"].(string)
	if kindText == "" {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w: kind", ErrMissingField)}
	}
	kind := NodeKind(kindText)
	loc, err := decodeLocation(obj["location"], path+".location")
	if err != nil {
		return nil, err
	}
	if kind == NodeError {
		message, _ := obj["message"].(string)
		fullText, _ := obj["full_text"].(string)
		return nil, &SyntaxError{Message: message, FullText: fullText, Location: loc}
	}
	for _, decoder := range termDecoders {
		term, handled, err := decoder(obj, kind, path)
		if err != nil {
			return nil, err
		}
		if handled {
			SetLocation(term, loc)
			return term, nil
		}
	}
	return nil, &DecodeError{Path: path, Kind: kind, Err: ErrUnknownKind}
}

func decodeLiteralTerms(obj map[string]any, kind NodeKind, path string) (Term, bool, error) {
	switch kind {
	case NodeIntegerLiteral:
		value, err := integerField(obj, "value", path, kind)
		if err != nil {
			return nil, true, err
		}
		return NewIntegerLiteral(value), true, nil
	case NodeStringLiteral:
		raw, err := requireField(obj, "value", path, kind)
		if err != nil {
			return nil, true, err
		}
		value, ok := raw.(string)
		if !ok {
			return nil, true, invalidField(path, "value", kind, "string", raw)
		}
		return NewStringLiteral(value), true, nil
	case NodeBooleanLiteral:
		raw, err := requireField(obj, "value", path, kind)
		if err != nil {
			return nil, true, err
		}
		value, ok := raw.(bool)
		if !ok {
			return nil, true, invalidField(path, "value", kind, "bool", raw)
		}
		return NewBooleanLiteral(value), true, nil
	case NodeIdentifier:
		id, err := decodeIdentifier(obj, path)
		if err != nil {
			return nil, true, err
		}
		return id, true, nil
	default:
		return nil, false, nil
	}
}

func decodeFunctionTerms(obj map[string]any, kind NodeKind, path string) (Term, bool, error) {
	switch kind {
	case NodeFunction:
		raw, err := requireField(obj, "parameters", path, kind)
		if err != nil {
			return nil, true, err
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, true, invalidField(path, "parameters", kind, "array", raw)
		}
		params := make([]*Identifier, 0, len(items))
		for idx, item := range items {
			id, err := decodeIdentifierValue(item, fmt.Sprintf("%s.parameters[%d]", path, idx))
			if err != nil {
				return nil, true, err
			}
			params = append(params, id)
		}
		body, err := termField(obj, "value", path, kind)
		if err != nil {
			return nil, true, err
		}
		return NewFunctionExpression(params, body), true, nil
	case NodeCall:
		callee, err := termField(obj, "callee", path, kind)
		if err != nil {
			return nil, true, err
		}
		raw, err := requireField(obj, "arguments", path, kind)
		if err != nil {
			return nil, true, err
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, true, invalidField(path, "arguments", kind, "array", raw)
		}
		args := make([]Term, 0, len(items))
		for idx, item := range items {
			arg, err := decodeTerm(item, fmt.Sprintf("%s.arguments[%d]", path, idx))
			if err != nil {
				return nil, true, err
			}
			args = append(args, arg)
		}
		return NewCallExpression(callee, args), true, nil
	default:
		return nil, false, nil
	}
}

func decodeControlFlowTerms(obj map[string]any, kind NodeKind, path string) (Term, bool, error) {
	switch kind {
	case NodeBinary:
		raw, err := requireField(obj, "op", path, kind)
		if err != nil {
			return nil, true, err
		}
		opText, ok := raw.(string)
		if !ok {
			return nil, true, invalidField(path, "op", kind, "string", raw)
		}
		op := BinaryOp(opText)
		if !op.Valid() {
			return nil, true, &DecodeError{Path: path + ".op", Kind: kind, Err: fmt.Errorf("%w: unknown operator %q", ErrInvalidValue, opText)}
		}
		left, err := termField(obj, "lhs", path, kind)
		if err != nil {
			return nil, true, err
		}
		right, err := termField(obj, "rhs", path, kind)
		if err != nil {
			return nil, true, err
		}
		return NewBinaryExpression(op, left, right), true, nil
	case NodeIf:
		cond, err := termField(obj, "condition", path, kind)
		if err != nil {
			return nil, true, err
		}
		then, err := termField(obj, "then", path, kind)
		if err != nil {
			return nil, true, err
		}
		otherwise, err := termField(obj, "otherwise", path, kind)
		if err != nil {
			return nil, true, err
		}
		return NewIfExpression(cond, then, otherwise), true, nil
	case NodeLet:
		rawName, err := requireField(obj, "name", path, kind)
		if err != nil {
			return nil, true, err
		}
		name, err := decodeIdentifierValue(rawName, path+".name")
		if err != nil {
			return nil, true, err
		}
		value, err := termField(obj, "value", path, kind)
		if err != nil {
			return nil, true, err
		}
		next, err := termField(obj, "next", path, kind)
		if err != nil {
			return nil, true, err
		}
		return NewLetExpression(name, value, next), true, nil
	case NodePrint:
		value, err := termField(obj, "value", path, kind)
		if err != nil {
			return nil, true, err
		}
		return NewPrintExpression(value), true, nil
	default:
		return nil, false, nil
	}
}

func decodeTupleTerms(obj map[string]any, kind NodeKind, path string) (Term, bool, error) {
	switch kind {
	case NodeTuple:
		first, err := termField(obj, "first", path, kind)
		if err != nil {
			return nil, true, err
		}
		second, err := termField(obj, "second", path, kind)
		if err != nil {
			return nil, true, err
		}
		return NewTupleExpression(first, second), true, nil
	case NodeFirst:
		value, err := termField(obj, "value", path, kind)
		if err != nil {
			return nil, true, err
		}
		return NewFirstExpression(value), true, nil
	case NodeSecond:
		value, err := termField(obj, "value", path, kind)
		if err != nil {
			return nil, true, err
		}
		return NewSecondExpression(value), true, nil
	default:
		return nil, false, nil
	}
}

// Binders (Let names, parameters) are Var objects whose kind tag the front end
// may omit.
func decodeIdentifierValue(raw any, path string) (*Identifier, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: path, Kind: NodeIdentifier, Err: fmt.Errorf("%w: expected object, got %s", ErrInvalidValue, describeJSON(raw))}
	}
	if kind, present := obj["kind"]; present && kind != string(NodeIdentifier) {
		return nil, &DecodeError{Path: path, Kind: NodeIdentifier, Err: fmt.Errorf("%w: binder kind %v", ErrInvalidValue, kind)}
	}
	id, err := decodeIdentifier(obj, path)
	if err != nil {
		return nil, err
	}
	loc, err := decodeLocation(obj["location"], path+".location")
	if err != nil {
		return nil, err
	}
	SetLocation(id, loc)
	return id, nil
}

func decodeIdentifier(obj map[string]any, path string) (*Identifier, error) {
	raw, err := requireField(obj, "text", path, NodeIdentifier)
	if err != nil {
		return nil, err
	}
	text, ok := raw.(string)
	if !ok || text == "" {
		return nil, invalidField(path, "text", NodeIdentifier, "non-empty string", raw)
	}
	return NewIdentifier(text), nil
}

func decodeLocation(raw any, path string) (Location, error) {
	if raw == nil {
		return Location{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return Location{}, &DecodeError{Path: path, Err: fmt.Errorf("%w: expected object, got %s", ErrInvalidValue, describeJSON(raw))}
	}
	var loc Location
	var err error
	if _, ok := obj["start"]; ok {
		var start int64
		if start, err = integerField(obj, "start", path, ""); err != nil {
			return Location{}, err
		}
		loc.Start = int(start)
	}
	if _, ok := obj["end"]; ok {
		var end int64
		if end, err = integerField(obj, "end", path, ""); err != nil {
			return Location{}, err
		}
		loc.End = int(end)
	}
	if loc.Filename, err = optionalString(obj, "filename", path); err != nil {
		return Location{}, err
	}
	return loc, nil
}

func requireField(obj map[string]any, name, path string, kind NodeKind) (any, error) {
	raw, ok := obj[name]
	if !ok || raw == nil {
		return nil, &DecodeError{Path: path, Kind: kind, Err: fmt.Errorf("%w: %s", ErrMissingField, name)}
	}
	return raw, nil
}

func termField(obj map[string]any, name, path string, kind NodeKind) (Term, error) {
	raw, err := requireField(obj, name, path, kind)
	if err != nil {
		return nil, err
	}
	return decodeTerm(raw, path+"."+name)
}

func integerField(obj map[string]any, name, path string, kind NodeKind) (int64, error) {
	raw, err := requireField(obj, name, path, kind)
	if err != nil {
		return 0, err
	}
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
	case float64:
		if v == float64(int64(v)) {
			return int64(v), nil
		}
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, invalidField(path, name, kind, "64-bit integer", raw)
}

func optionalString(obj map[string]any, name, path string) (string, error) {
	raw, ok := obj[name]
	if !ok || raw == nil {
		return "", nil
	}
	text, ok := raw.(string)
	if !ok {
		return "", invalidField(path, name, "", "string", raw)
	}
	return text, nil
}

func invalidField(path, name string, kind NodeKind, want string, got any) error {
	return &DecodeError{
		Path: path + "." + name,
		Kind: kind,
		Err:  fmt.Errorf("%w: expected %s, got %s", ErrInvalidValue, want, describeJSON(got)),
	}
}

func describeJSON(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%T", raw)
	}
}
