//nolint:errcheck // Type assertions are checked by construction
package hir

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Printer is used to dump IR to a Rust-like text format.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new IR printer.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes the functions to the writer, separated by blank lines.
func Dump(w io.Writer, funcs []*Func) error {
	p := NewPrinter(w)
	for i, f := range funcs {
		if i > 0 {
			p.printf("\n")
		}
		if err := p.PrintFunc(f); err != nil {
			return err
		}
	}
	return nil
}

// PrintFunc prints a function.
func (p *Printer) PrintFunc(f *Func) error {
	if f == nil {
		return fmt.Errorf("nil function")
	}
	p.printf("fn %s(", f.Name)
	for i, param := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s", param.Name)
		if param.Type != "" {
			p.printf(": %s", param.Type)
		}
	}
	p.printf(")")
	if f.ReturnsValue() {
		p.printf(" -> %s", f.Result)
	}
	p.printf(" {\n")
	p.indent++
	p.printBlock(f.Body)
	p.indent--
	p.printf("}\n")
	return nil
}

func (p *Printer) printBlock(b *Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		p.printStmt(s)
	}
	if b.Tail != nil {
		p.printIndent()
		p.printExpr(b.Tail)
		p.printf("\n")
	}
}

func (p *Printer) printNested(b *Block) {
	p.printf("{\n")
	p.indent++
	p.printBlock(b)
	p.indent--
	p.printIndent()
	p.printf("}")
}

func (p *Printer) printStmt(s *Stmt) {
	p.printIndent()

	switch s.Kind {
	case StmtLet:
		data := s.Data.(LetData)
		if data.Mutable {
			p.printf("let mut %s", data.Name)
		} else {
			p.printf("let %s", data.Name)
		}
		if data.Value != nil {
			p.printf(" = ")
			p.printExpr(data.Value)
		}
		p.printf(";\n")

	case StmtExpr:
		data := s.Data.(ExprStmtData)
		p.printExpr(data.Expr)
		p.printf(";\n")

	case StmtWhile:
		data := s.Data.(WhileData)
		p.printf("while ")
		p.printExpr(data.Cond)
		p.printf(" ")
		p.printNested(data.Body)
		p.printf("\n")

	case StmtForEach:
		data := s.Data.(ForEachData)
		if data.Enumerate {
			p.printf("for (%s, %s) in ", data.Index, mutName(data.Mutable, data.Binding))
			p.printExpr(data.Iterable)
			p.printf(".iter().enumerate() ")
		} else {
			p.printf("for %s in ", mutName(data.Mutable, data.Binding))
			p.printExpr(data.Iterable)
			p.printf(" ")
		}
		p.printNested(data.Body)
		p.printf("\n")

	case StmtIfMatch:
		p.printIfMatch(s.Data.(IfMatchData))
		p.printf("\n")

	case StmtReturn:
		data := s.Data.(ReturnData)
		p.printf("return")
		if data.Value != nil {
			p.printf(" ")
			p.printExpr(data.Value)
		}
		p.printf(";\n")

	default:
		p.printf("<unknown stmt %d>\n", s.Kind)
	}
}

func (p *Printer) printIfMatch(data IfMatchData) {
	switch data.Scrutinee {
	case ScrutineeBool:
		for i, arm := range data.Arms {
			switch {
			case i == 0:
				p.printf("if ")
				p.printExpr(data.Value)
				p.printf(" ")
			default:
				p.printf(" else ")
			}
			p.printNested(arm.Body)
		}
	case ScrutineeOption:
		if data.IfLet {
			for i, arm := range data.Arms {
				if i == 0 {
					p.printf("if let Some(%s) = ", mutName(arm.Pattern.Mutable, arm.Pattern.Binding))
					p.printExpr(data.Value)
					p.printf(" ")
				} else {
					p.printf(" else ")
				}
				p.printNested(arm.Body)
			}
			return
		}
		fallthrough
	default:
		p.printf("match ")
		p.printExpr(data.Value)
		p.printf(" {\n")
		p.indent++
		for _, arm := range data.Arms {
			p.printIndent()
			p.printPattern(arm.Pattern)
			p.printf(" => ")
			p.printNested(arm.Body)
			p.printf(",\n")
		}
		p.indent--
		p.printIndent()
		p.printf("}")
	}
}

func (p *Printer) printPattern(pat Pattern) {
	switch pat.Kind {
	case PatSome:
		p.printf("Some(%s)", mutName(pat.Mutable, pat.Binding))
	case PatNone:
		p.printf("None")
	case PatTrue:
		p.printf("true")
	case PatFalse:
		p.printf("false")
	case PatLiteral:
		p.printExpr(pat.Literal)
	default:
		p.printf("_")
	}
}

func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.printf("<nil>")
		return
	}
	switch e.Kind {
	case ExprLiteral:
		data := e.Data.(LiteralData)
		switch data.Kind {
		case LiteralString:
			p.printf("%s", strconv.Quote(data.Text))
		case LiteralUnit:
			p.printf("()")
		default:
			p.printf("%s", data.Text)
		}

	case ExprIdent:
		p.printf("%s", e.Data.(IdentData).Name)

	case ExprPath:
		p.printf("%s", strings.Join(e.Data.(PathData).Segments, "::"))

	case ExprUnary:
		data := e.Data.(UnaryData)
		p.printf("%s", data.Op)
		if data.Op == "&mut" {
			p.printf(" ")
		}
		p.printExpr(data.Operand)

	case ExprBinary:
		data := e.Data.(BinaryData)
		p.printOperand(data.Left)
		p.printf(" %s ", data.Op)
		p.printOperand(data.Right)

	case ExprCall:
		data := e.Data.(CallData)
		p.printExpr(data.Callee)
		p.printArgs(data.Args)

	case ExprMethodCall:
		data := e.Data.(MethodCallData)
		p.printOperand(data.Receiver)
		p.printf(".%s", data.Method)
		p.printArgs(data.Args)

	case ExprField:
		data := e.Data.(FieldData)
		p.printOperand(data.Receiver)
		p.printf(".%s", data.Field)

	case ExprIndex:
		data := e.Data.(IndexData)
		p.printOperand(data.Receiver)
		p.printf("[")
		p.printExpr(data.Index)
		p.printf("]")

	case ExprFormat:
		data := e.Data.(FormatData)
		var sb strings.Builder
		for i, part := range data.Parts {
			sb.WriteString(strings.NewReplacer("{", "{{", "}", "}}").Replace(part))
			if i < len(data.Args) {
				sb.WriteString("{}")
			}
		}
		p.printf("format!(%s", strconv.Quote(sb.String()))
		for _, arg := range data.Args {
			p.printf(", ")
			p.printExpr(arg)
		}
		p.printf(")")

	case ExprClosure:
		data := e.Data.(ClosureData)
		if data.Move {
			p.printf("move ")
		}
		p.printf("|%s| ", strings.Join(data.Params, ", "))
		if len(data.Captures) > 0 {
			p.printf("/* captures %s */ ", strings.Join(data.Captures, ", "))
		}
		p.printNested(data.Body)

	case ExprOptionMatch:
		data := e.Data.(OptionMatchData)
		p.printf("if let Some(%s) = ", mutName(data.Mutable, data.Binding))
		p.printExpr(data.Scrutinee)
		p.printf(" ")
		p.printNested(data.Some)
		p.printf(" else ")
		p.printNested(data.None)

	case ExprNewShared:
		p.printf("Arc::new(Mutex::new(")
		p.printExpr(e.Data.(NewSharedData).Inner)
		p.printf("))")

	case ExprRange:
		data := e.Data.(RangeData)
		p.printOperand(data.Start)
		if data.Inclusive {
			p.printf("..=")
		} else {
			p.printf("..")
		}
		p.printOperand(data.End)

	case ExprCast:
		data := e.Data.(CastData)
		p.printOperand(data.Value)
		p.printf(" as %s", data.Type)

	default:
		p.printf("<unknown expr %d>", e.Kind)
	}
}

// printOperand parenthesises compound operands.
func (p *Printer) printOperand(e *Expr) {
	if e != nil && (e.Kind == ExprBinary || e.Kind == ExprRange || e.Kind == ExprCast) {
		p.printf("(")
		p.printExpr(e)
		p.printf(")")
		return
	}
	p.printExpr(e)
}

func (p *Printer) printArgs(args []*Expr) {
	p.printf("(")
	for i, a := range args {
		if i > 0 {
			p.printf(", ")
		}
		p.printExpr(a)
	}
	p.printf(")")
}

func (p *Printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		p.printf("    ")
	}
}

func (p *Printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

// ExprString returns a string representation of an expression.
func ExprString(e *Expr) string {
	var buf bytes.Buffer
	NewPrinter(&buf).printExpr(e)
	return buf.String()
}

// StmtString returns a string representation of a statement.
func StmtString(s *Stmt) string {
	var buf bytes.Buffer
	NewPrinter(&buf).printStmt(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func mutName(mutable bool, name string) string {
	if mutable {
		return "mut " + name
	}
	return name
}
