package hir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v2"

	"mojes/internal/source"
)

// WireFormat selects the serialisation of function documents.
type WireFormat uint8

const (
	WireJSON WireFormat = iota
	WireYAML
	WireMsgpack
)

func (f WireFormat) String() string {
	switch f {
	case WireJSON:
		return "json"
	case WireYAML:
		return "yaml"
	case WireMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseWireFormat maps a format name to WireFormat.
func ParseWireFormat(name string) (WireFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return WireJSON, nil
	case "yaml", "yml":
		return WireYAML, nil
	case "msgpack", "mp":
		return WireMsgpack, nil
	}
	return 0, fmt.Errorf("unknown wire format %q (want json, yaml or msgpack)", name)
}

// WireFormatFromPath picks the format from a file extension.
func WireFormatFromPath(path string) (WireFormat, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return 0, fmt.Errorf("%s: no file extension", path)
	}
	f, err := ParseWireFormat(ext)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// DecodeError reports a malformed node inside a document.
type DecodeError struct {
	Path string // node path, e.g. functions[2].body.stmts[0].value
	Msg  string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return e.Path + ": " + e.Msg
}

// ErrEmptyDocument is returned when a document holds no functions.
var ErrEmptyDocument = errors.New("document contains no functions")

type wireDoc struct {
	Functions []*wireFunc `json:"functions" yaml:"functions" msgpack:"functions"`
}

type wireParam struct {
	Name string      `json:"name" yaml:"name" msgpack:"name"`
	Type string      `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Pos  *source.Pos `json:"pos,omitempty" yaml:"pos,omitempty" msgpack:"pos,omitempty"`
}

type wireFunc struct {
	Name   string      `json:"name" yaml:"name" msgpack:"name"`
	Params []wireParam `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params,omitempty"`
	Result string      `json:"result,omitempty" yaml:"result,omitempty" msgpack:"result,omitempty"`
	Body   *wireBlock  `json:"body" yaml:"body" msgpack:"body"`
	Pos    *source.Pos `json:"pos,omitempty" yaml:"pos,omitempty" msgpack:"pos,omitempty"`
}

type wireBlock struct {
	Stmts []*wireStmt `json:"stmts,omitempty" yaml:"stmts,omitempty" msgpack:"stmts,omitempty"`
	Tail  *wireExpr   `json:"tail,omitempty" yaml:"tail,omitempty" msgpack:"tail,omitempty"`
}

type wirePattern struct {
	Kind    string    `json:"kind" yaml:"kind" msgpack:"kind"`
	Binding string    `json:"binding,omitempty" yaml:"binding,omitempty" msgpack:"binding,omitempty"`
	Mutable bool      `json:"mutable,omitempty" yaml:"mutable,omitempty" msgpack:"mutable,omitempty"`
	Literal *wireExpr `json:"literal,omitempty" yaml:"literal,omitempty" msgpack:"literal,omitempty"`
}

type wireArm struct {
	Pattern wirePattern `json:"pattern" yaml:"pattern" msgpack:"pattern"`
	Body    *wireBlock  `json:"body" yaml:"body" msgpack:"body"`
}

type wireStmt struct {
	Kind        string      `json:"kind" yaml:"kind" msgpack:"kind"`
	Pos         *source.Pos `json:"pos,omitempty" yaml:"pos,omitempty" msgpack:"pos,omitempty"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Mutable     bool        `json:"mutable,omitempty" yaml:"mutable,omitempty" msgpack:"mutable,omitempty"`
	Conditional bool        `json:"conditional,omitempty" yaml:"conditional,omitempty" msgpack:"conditional,omitempty"`
	Value       *wireExpr   `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Cond        *wireExpr   `json:"cond,omitempty" yaml:"cond,omitempty" msgpack:"cond,omitempty"`
	Index       string      `json:"index,omitempty" yaml:"index,omitempty" msgpack:"index,omitempty"`
	Binding     string      `json:"binding,omitempty" yaml:"binding,omitempty" msgpack:"binding,omitempty"`
	Enumerate   bool        `json:"enumerate,omitempty" yaml:"enumerate,omitempty" msgpack:"enumerate,omitempty"`
	Iterable    *wireExpr   `json:"iterable,omitempty" yaml:"iterable,omitempty" msgpack:"iterable,omitempty"`
	Body        *wireBlock  `json:"body,omitempty" yaml:"body,omitempty" msgpack:"body,omitempty"`
	Scrutinee   string      `json:"scrutinee,omitempty" yaml:"scrutinee,omitempty" msgpack:"scrutinee,omitempty"`
	IfLet       bool        `json:"if_let,omitempty" yaml:"if_let,omitempty" msgpack:"if_let,omitempty"`
	Arms        []*wireArm  `json:"arms,omitempty" yaml:"arms,omitempty" msgpack:"arms,omitempty"`
}

type wireExpr struct {
	Kind      string      `json:"kind" yaml:"kind" msgpack:"kind"`
	Pos       *source.Pos `json:"pos,omitempty" yaml:"pos,omitempty" msgpack:"pos,omitempty"`
	Lit       string      `json:"lit,omitempty" yaml:"lit,omitempty" msgpack:"lit,omitempty"`
	Text      string      `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Name      string      `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Segments  []string    `json:"segments,omitempty" yaml:"segments,omitempty" msgpack:"segments,omitempty"`
	Op        string      `json:"op,omitempty" yaml:"op,omitempty" msgpack:"op,omitempty"`
	Operand   *wireExpr   `json:"operand,omitempty" yaml:"operand,omitempty" msgpack:"operand,omitempty"`
	Left      *wireExpr   `json:"left,omitempty" yaml:"left,omitempty" msgpack:"left,omitempty"`
	Right     *wireExpr   `json:"right,omitempty" yaml:"right,omitempty" msgpack:"right,omitempty"`
	Callee    *wireExpr   `json:"callee,omitempty" yaml:"callee,omitempty" msgpack:"callee,omitempty"`
	Receiver  *wireExpr   `json:"receiver,omitempty" yaml:"receiver,omitempty" msgpack:"receiver,omitempty"`
	Method    string      `json:"method,omitempty" yaml:"method,omitempty" msgpack:"method,omitempty"`
	Field     string      `json:"field,omitempty" yaml:"field,omitempty" msgpack:"field,omitempty"`
	Index     *wireExpr   `json:"index,omitempty" yaml:"index,omitempty" msgpack:"index,omitempty"`
	Args      []*wireExpr `json:"args,omitempty" yaml:"args,omitempty" msgpack:"args,omitempty"`
	Parts     []string    `json:"parts,omitempty" yaml:"parts,omitempty" msgpack:"parts,omitempty"`
	Params    []string    `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params,omitempty"`
	Captures  []string    `json:"captures,omitempty" yaml:"captures,omitempty" msgpack:"captures,omitempty"`
	Move      bool        `json:"move,omitempty" yaml:"move,omitempty" msgpack:"move,omitempty"`
	Body      *wireBlock  `json:"body,omitempty" yaml:"body,omitempty" msgpack:"body,omitempty"`
	Scrutinee *wireExpr   `json:"scrutinee,omitempty" yaml:"scrutinee,omitempty" msgpack:"scrutinee,omitempty"`
	Binding   string      `json:"binding,omitempty" yaml:"binding,omitempty" msgpack:"binding,omitempty"`
	Mutable   bool        `json:"mutable,omitempty" yaml:"mutable,omitempty" msgpack:"mutable,omitempty"`
	Some      *wireBlock  `json:"some,omitempty" yaml:"some,omitempty" msgpack:"some,omitempty"`
	None      *wireBlock  `json:"none,omitempty" yaml:"none,omitempty" msgpack:"none,omitempty"`
	Inner     *wireExpr   `json:"inner,omitempty" yaml:"inner,omitempty" msgpack:"inner,omitempty"`
	Start     *wireExpr   `json:"start,omitempty" yaml:"start,omitempty" msgpack:"start,omitempty"`
	End       *wireExpr   `json:"end,omitempty" yaml:"end,omitempty" msgpack:"end,omitempty"`
	Inclusive bool        `json:"inclusive,omitempty" yaml:"inclusive,omitempty" msgpack:"inclusive,omitempty"`
	Type      string      `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Value     *wireExpr   `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
}

var (
	exprKindNames = map[ExprKind]string{
		ExprLiteral:     "literal",
		ExprIdent:       "ident",
		ExprPath:        "path",
		ExprUnary:       "unary",
		ExprBinary:      "binary",
		ExprCall:        "call",
		ExprMethodCall:  "method_call",
		ExprField:       "field",
		ExprIndex:       "index",
		ExprFormat:      "format",
		ExprClosure:     "closure",
		ExprOptionMatch: "option_match",
		ExprNewShared:   "new_shared",
		ExprRange:       "range",
		ExprCast:        "cast",
	}
	stmtKindNames = map[StmtKind]string{
		StmtLet:     "let",
		StmtExpr:    "expr",
		StmtWhile:   "while",
		StmtForEach: "for_each",
		StmtIfMatch: "if_match",
		StmtReturn:  "return",
	}
)

// Encode serialises functions as a {functions: [...]} document.
func Encode(funcs []*Func, format WireFormat) ([]byte, error) {
	doc := wireDoc{Functions: make([]*wireFunc, 0, len(funcs))}
	for _, f := range funcs {
		doc.Functions = append(doc.Functions, funcToWire(f))
	}
	switch format {
	case WireJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case WireYAML:
		return yaml.Marshal(doc)
	case WireMsgpack:
		return msgpack.Marshal(doc)
	}
	return nil, fmt.Errorf("unsupported wire format %d", format)
}

// Decode parses a document holding either one function or {functions: [...]}.
func Decode(data []byte, format WireFormat) ([]*Func, error) {
	var doc wireDoc
	if err := unmarshal(data, format, &doc); err != nil {
		return nil, err
	}
	if len(doc.Functions) == 0 {
		var single wireFunc
		if err := unmarshal(data, format, &single); err != nil {
			return nil, err
		}
		if single.Name == "" {
			return nil, ErrEmptyDocument
		}
		doc.Functions = []*wireFunc{&single}
	}
	out := make([]*Func, 0, len(doc.Functions))
	for i, wf := range doc.Functions {
		f, err := funcFromWire(wf, fmt.Sprintf("functions[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func unmarshal(data []byte, format WireFormat, v interface{}) error {
	var err error
	switch format {
	case WireJSON:
		err = json.Unmarshal(data, v)
	case WireYAML:
		err = yaml.Unmarshal(data, v)
	case WireMsgpack:
		err = msgpack.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported wire format %d", format)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", format, err)
	}
	return nil
}

func posPtr(p source.Pos) *source.Pos {
	if p == (source.Pos{}) {
		return nil
	}
	return &p
}

func posVal(p *source.Pos) source.Pos {
	if p == nil {
		return source.Pos{}
	}
	return *p
}

func funcToWire(f *Func) *wireFunc {
	wf := &wireFunc{Name: f.Name, Result: f.Result, Body: blockToWire(f.Body), Pos: posPtr(f.Pos)}
	for _, p := range f.Params {
		wf.Params = append(wf.Params, wireParam{Name: p.Name, Type: p.Type, Pos: posPtr(p.Pos)})
	}
	return wf
}

func blockToWire(b *Block) *wireBlock {
	if b == nil {
		return nil
	}
	wb := &wireBlock{Tail: exprToWire(b.Tail)}
	for _, s := range b.Stmts {
		wb.Stmts = append(wb.Stmts, stmtToWire(s))
	}
	return wb
}

func stmtToWire(s *Stmt) *wireStmt {
	ws := &wireStmt{Kind: stmtKindNames[s.Kind], Pos: posPtr(s.Pos)}
	switch data := s.Data.(type) {
	case LetData:
		ws.Name = data.Name
		ws.Mutable = data.Mutable
		ws.Conditional = data.IsConditionalValue
		ws.Value = exprToWire(data.Value)
	case ExprStmtData:
		ws.Value = exprToWire(data.Expr)
	case WhileData:
		ws.Cond = exprToWire(data.Cond)
		ws.Body = blockToWire(data.Body)
	case ForEachData:
		ws.Index = data.Index
		ws.Binding = data.Binding
		ws.Mutable = data.Mutable
		ws.Enumerate = data.Enumerate
		ws.Iterable = exprToWire(data.Iterable)
		ws.Body = blockToWire(data.Body)
	case IfMatchData:
		ws.Scrutinee = data.Scrutinee.String()
		ws.Value = exprToWire(data.Value)
		ws.IfLet = data.IfLet
		for _, arm := range data.Arms {
			ws.Arms = append(ws.Arms, &wireArm{
				Pattern: wirePattern{Kind: arm.Pattern.Kind.String(), Binding: arm.Pattern.Binding, Mutable: arm.Pattern.Mutable, Literal: exprToWire(arm.Pattern.Literal)},
				Body:    blockToWire(arm.Body),
			})
		}
	case ReturnData:
		ws.Value = exprToWire(data.Value)
	}
	return ws
}

func exprsToWire(es []*Expr) []*wireExpr {
	if len(es) == 0 {
		return nil
	}
	out := make([]*wireExpr, len(es))
	for i, e := range es {
		out[i] = exprToWire(e)
	}
	return out
}

func exprToWire(e *Expr) *wireExpr {
	if e == nil {
		return nil
	}
	we := &wireExpr{Kind: exprKindNames[e.Kind], Pos: posPtr(e.Pos)}
	switch data := e.Data.(type) {
	case LiteralData:
		we.Lit = data.Kind.String()
		we.Text = data.Text
	case IdentData:
		we.Name = data.Name
	case PathData:
		we.Segments = data.Segments
	case UnaryData:
		we.Op = data.Op
		we.Operand = exprToWire(data.Operand)
	case BinaryData:
		we.Op = data.Op
		we.Left = exprToWire(data.Left)
		we.Right = exprToWire(data.Right)
	case CallData:
		we.Callee = exprToWire(data.Callee)
		we.Args = exprsToWire(data.Args)
	case MethodCallData:
		we.Receiver = exprToWire(data.Receiver)
		we.Method = data.Method
		we.Args = exprsToWire(data.Args)
	case FieldData:
		we.Receiver = exprToWire(data.Receiver)
		we.Field = data.Field
	case IndexData:
		we.Receiver = exprToWire(data.Receiver)
		we.Index = exprToWire(data.Index)
	case FormatData:
		we.Parts = data.Parts
		we.Args = exprsToWire(data.Args)
	case ClosureData:
		we.Params = data.Params
		we.Captures = data.Captures
		we.Move = data.Move
		we.Body = blockToWire(data.Body)
	case OptionMatchData:
		we.Scrutinee = exprToWire(data.Scrutinee)
		we.Binding = data.Binding
		we.Mutable = data.Mutable
		we.Some = blockToWire(data.Some)
		we.None = blockToWire(data.None)
	case NewSharedData:
		we.Inner = exprToWire(data.Inner)
	case RangeData:
		we.Start = exprToWire(data.Start)
		we.End = exprToWire(data.End)
		we.Inclusive = data.Inclusive
	case CastData:
		we.Value = exprToWire(data.Value)
		we.Type = data.Type
	}
	return we
}

func funcFromWire(wf *wireFunc, path string) (*Func, error) {
	if wf == nil {
		return nil, &DecodeError{Path: path, Msg: "null function"}
	}
	if wf.Name == "" {
		return nil, &DecodeError{Path: path, Msg: "function without a name"}
	}
	body, err := blockFromWire(wf.Body, path+".body")
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = &Block{}
	}
	f := &Func{Name: wf.Name, Result: wf.Result, Body: body, Pos: posVal(wf.Pos)}
	for _, p := range wf.Params {
		f.Params = append(f.Params, Param{Name: p.Name, Type: p.Type, Pos: posVal(p.Pos)})
	}
	return f, nil
}

func blockFromWire(wb *wireBlock, path string) (*Block, error) {
	if wb == nil {
		return nil, nil
	}
	b := &Block{}
	for i, ws := range wb.Stmts {
		s, err := stmtFromWire(ws, fmt.Sprintf("%s.stmts[%d]", path, i))
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	tail, err := exprFromWire(wb.Tail, path+".tail")
	if err != nil {
		return nil, err
	}
	b.Tail = tail
	return b, nil
}

func requireExpr(we *wireExpr, path string) (*Expr, error) {
	if we == nil {
		return nil, &DecodeError{Path: path, Msg: "missing expression"}
	}
	return exprFromWire(we, path)
}

func requireBlock(wb *wireBlock, path string) (*Block, error) {
	b, err := blockFromWire(wb, path)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return &Block{}, nil
	}
	return b, nil
}

func stmtFromWire(ws *wireStmt, path string) (*Stmt, error) {
	if ws == nil {
		return nil, &DecodeError{Path: path, Msg: "null statement"}
	}
	s := &Stmt{Pos: posVal(ws.Pos)}
	var err error
	switch ws.Kind {
	case "let":
		data := LetData{Name: ws.Name, Mutable: ws.Mutable, IsConditionalValue: ws.Conditional}
		if data.Value, err = exprFromWire(ws.Value, path+".value"); err != nil {
			return nil, err
		}
		s.Kind, s.Data = StmtLet, data
	case "expr":
		data := ExprStmtData{}
		if data.Expr, err = requireExpr(ws.Value, path+".value"); err != nil {
			return nil, err
		}
		s.Kind, s.Data = StmtExpr, data
	case "while":
		data := WhileData{}
		if data.Cond, err = requireExpr(ws.Cond, path+".cond"); err != nil {
			return nil, err
		}
		if data.Body, err = requireBlock(ws.Body, path+".body"); err != nil {
			return nil, err
		}
		s.Kind, s.Data = StmtWhile, data
	case "for_each":
		data := ForEachData{Index: ws.Index, Binding: ws.Binding, Mutable: ws.Mutable, Enumerate: ws.Enumerate}
		if data.Iterable, err = requireExpr(ws.Iterable, path+".iterable"); err != nil {
			return nil, err
		}
		if data.Body, err = requireBlock(ws.Body, path+".body"); err != nil {
			return nil, err
		}
		s.Kind, s.Data = StmtForEach, data
	case "if_match":
		data := IfMatchData{IfLet: ws.IfLet}
		switch ws.Scrutinee {
		case "option":
			data.Scrutinee = ScrutineeOption
		case "bool":
			data.Scrutinee = ScrutineeBool
		case "value":
			data.Scrutinee = ScrutineeValue
		default:
			return nil, &DecodeError{Path: path + ".scrutinee", Msg: fmt.Sprintf("unknown scrutinee kind %q", ws.Scrutinee)}
		}
		if data.Value, err = requireExpr(ws.Value, path+".value"); err != nil {
			return nil, err
		}
		for i, wa := range ws.Arms {
			arm, armErr := armFromWire(wa, fmt.Sprintf("%s.arms[%d]", path, i))
			if armErr != nil {
				return nil, armErr
			}
			data.Arms = append(data.Arms, arm)
		}
		s.Kind, s.Data = StmtIfMatch, data
	case "return":
		data := ReturnData{}
		if data.Value, err = exprFromWire(ws.Value, path+".value"); err != nil {
			return nil, err
		}
		s.Kind, s.Data = StmtReturn, data
	default:
		return nil, &DecodeError{Path: path, Msg: fmt.Sprintf("unknown statement kind %q", ws.Kind)}
	}
	return s, nil
}

func armFromWire(wa *wireArm, path string) (Arm, error) {
	if wa == nil {
		return Arm{}, &DecodeError{Path: path, Msg: "null arm"}
	}
	var arm Arm
	switch wa.Pattern.Kind {
	case "some":
		arm.Pattern = Pattern{Kind: PatSome, Binding: wa.Pattern.Binding, Mutable: wa.Pattern.Mutable}
	case "none":
		arm.Pattern = Pattern{Kind: PatNone}
	case "true":
		arm.Pattern = Pattern{Kind: PatTrue}
	case "false":
		arm.Pattern = Pattern{Kind: PatFalse}
	case "wildcard", "_":
		arm.Pattern = Pattern{Kind: PatWildcard}
	case "literal":
		lit, err := requireExpr(wa.Pattern.Literal, path+".pattern.literal")
		if err != nil {
			return Arm{}, err
		}
		arm.Pattern = Pattern{Kind: PatLiteral, Literal: lit}
	default:
		return Arm{}, &DecodeError{Path: path + ".pattern", Msg: fmt.Sprintf("unknown pattern kind %q", wa.Pattern.Kind)}
	}
	body, err := requireBlock(wa.Body, path+".body")
	if err != nil {
		return Arm{}, err
	}
	arm.Body = body
	return arm, nil
}

func exprsFromWire(wes []*wireExpr, path string) ([]*Expr, error) {
	out := make([]*Expr, 0, len(wes))
	for i, we := range wes {
		e, err := requireExpr(we, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func exprFromWire(we *wireExpr, path string) (*Expr, error) {
	if we == nil {
		return nil, nil
	}
	e := &Expr{Pos: posVal(we.Pos)}
	var err error
	switch we.Kind {
	case "literal":
		data := LiteralData{Text: we.Text}
		switch we.Lit {
		case "int":
			data.Kind = LiteralInt
		case "float":
			data.Kind = LiteralFloat
		case "bool":
			data.Kind = LiteralBool
		case "string":
			data.Kind = LiteralString
		case "unit":
			data.Kind = LiteralUnit
		default:
			return nil, &DecodeError{Path: path + ".lit", Msg: fmt.Sprintf("unknown literal kind %q", we.Lit)}
		}
		e.Kind, e.Data = ExprLiteral, data
	case "ident":
		if we.Name == "" {
			return nil, &DecodeError{Path: path, Msg: "identifier without a name"}
		}
		e.Kind, e.Data = ExprIdent, IdentData{Name: we.Name}
	case "path":
		if len(we.Segments) == 0 {
			return nil, &DecodeError{Path: path, Msg: "empty path"}
		}
		e.Kind, e.Data = ExprPath, PathData{Segments: we.Segments}
	case "unary":
		data := UnaryData{Op: we.Op}
		if data.Operand, err = requireExpr(we.Operand, path+".operand"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprUnary, data
	case "binary":
		data := BinaryData{Op: we.Op}
		if data.Left, err = requireExpr(we.Left, path+".left"); err != nil {
			return nil, err
		}
		if data.Right, err = requireExpr(we.Right, path+".right"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprBinary, data
	case "call":
		data := CallData{}
		if data.Callee, err = requireExpr(we.Callee, path+".callee"); err != nil {
			return nil, err
		}
		if data.Args, err = exprsFromWire(we.Args, path+".args"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprCall, data
	case "method_call":
		data := MethodCallData{Method: we.Method}
		if data.Receiver, err = requireExpr(we.Receiver, path+".receiver"); err != nil {
			return nil, err
		}
		if data.Args, err = exprsFromWire(we.Args, path+".args"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprMethodCall, data
	case "field":
		data := FieldData{Field: we.Field}
		if data.Receiver, err = requireExpr(we.Receiver, path+".receiver"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprField, data
	case "index":
		data := IndexData{}
		if data.Receiver, err = requireExpr(we.Receiver, path+".receiver"); err != nil {
			return nil, err
		}
		if data.Index, err = requireExpr(we.Index, path+".index"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprIndex, data
	case "format":
		data := FormatData{Parts: we.Parts}
		if data.Args, err = exprsFromWire(we.Args, path+".args"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprFormat, data
	case "closure":
		data := ClosureData{Params: we.Params, Captures: we.Captures, Move: we.Move}
		if data.Body, err = requireBlock(we.Body, path+".body"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprClosure, data
	case "option_match":
		data := OptionMatchData{Binding: we.Binding, Mutable: we.Mutable}
		if data.Scrutinee, err = requireExpr(we.Scrutinee, path+".scrutinee"); err != nil {
			return nil, err
		}
		if data.Some, err = blockFromWire(we.Some, path+".some"); err != nil {
			return nil, err
		}
		if data.None, err = blockFromWire(we.None, path+".none"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprOptionMatch, data
	case "new_shared":
		data := NewSharedData{}
		if data.Inner, err = requireExpr(we.Inner, path+".inner"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprNewShared, data
	case "range":
		data := RangeData{Inclusive: we.Inclusive}
		if data.Start, err = requireExpr(we.Start, path+".start"); err != nil {
			return nil, err
		}
		if data.End, err = requireExpr(we.End, path+".end"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprRange, data
	case "cast":
		data := CastData{Type: we.Type}
		if data.Value, err = requireExpr(we.Value, path+".value"); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ExprCast, data
	default:
		return nil, &DecodeError{Path: path, Msg: fmt.Sprintf("unknown expression kind %q", we.Kind)}
	}
	return e, nil
}
