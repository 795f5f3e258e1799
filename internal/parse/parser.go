// Package parse turns source text into the syntax arena the analysis
// engine walks. The engine itself never depends on this package; it is the
// glue between files on disk and the opaque node graph.
package parse

import (
	"github.com/lukedgr/nodejstools/internal/diag"
	"github.com/lukedgr/nodejstools/internal/source"
	"github.com/lukedgr/nodejstools/internal/syntax"
)

// Options configures one ParseFile call.
type Options struct {
	Reporter diag.Reporter
	// MaxErrors aborts the parse once that many syntax errors were
	// reported. Zero means 20.
	MaxErrors int
}

// ParseFile parses file into a fresh tree sharing strings. The tree is
// always returned, possibly partial, so downstream analysis can proceed on
// whatever parsed.
func ParseFile(file *source.File, strings *source.Interner, opts Options) *syntax.Tree {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.MaxErrors == 0 {
		opts.MaxErrors = 20
	}
	p := &parser{
		tree:     syntax.NewTree(file.ID, strings),
		scan:     newScanner(file, opts.Reporter),
		reporter: opts.Reporter,
		maxErr:   opts.MaxErrors,
	}
	p.advance()
	root := p.tree.New(syntax.Node{
		Kind: syntax.NodeModule,
		Span: source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))},
	})
	p.tree.Root = root
	for p.tok.Kind != tokEOF && p.errs < p.maxErr {
		if stmt := p.stmt(); stmt.IsValid() {
			p.tree.AddKid(root, stmt)
		}
	}
	return p.tree
}

type parser struct {
	tree     *syntax.Tree
	scan     *scanner
	reporter diag.Reporter
	maxErr   int
	errs     int
	tok      token
}

func (p *parser) advance() {
	p.tok = p.scan.next()
}

func (p *parser) errorf(code diag.Code, sp source.Span, msg string) {
	p.errs++
	diag.ReportError(p.reporter, code, sp, msg)
}

func (p *parser) at(text string) bool {
	return (p.tok.Kind == tokPunct || p.tok.Kind == tokKeyword) && p.tok.Text == text
}

func (p *parser) eat(text string) bool {
	if p.at(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(text string, code diag.Code) bool {
	if p.eat(text) {
		return true
	}
	p.errorf(code, p.tok.Span, "expected "+text+", found "+p.describe())
	return false
}

func (p *parser) describe() string {
	switch p.tok.Kind {
	case tokEOF:
		return "end of file"
	case tokString:
		return "string literal"
	default:
		return "'" + p.tok.Text + "'"
	}
}

// skipToSync drops tokens until a statement boundary, keeping one syntax
// error from cascading.
func (p *parser) skipToSync() {
	for p.tok.Kind != tokEOF && !p.at(";") && !p.at("}") {
		p.advance()
	}
	p.eat(";")
}

func (p *parser) intern(text string) source.StringID {
	return p.tree.Strings.Intern(text)
}

func (p *parser) stmt() syntax.NodeID {
	switch {
	case p.at("var"):
		return p.varDecl()
	case p.at("function"):
		return p.funcNode(true)
	case p.at("return"):
		return p.returnStmt()
	case p.at("{"):
		return p.block()
	default:
		return p.exprStmt()
	}
}

func (p *parser) varDecl() syntax.NodeID {
	start := p.tok.Span
	p.advance() // var
	if p.tok.Kind != tokIdent {
		p.errorf(diag.SynExpectIdentifier, p.tok.Span, "expected identifier after var, found "+p.describe())
		p.skipToSync()
		return syntax.NoNodeID
	}
	name := p.intern(p.tok.Text)
	sp := start.Cover(p.tok.Span)
	p.advance()

	decl := p.tree.New(syntax.Node{Kind: syntax.NodeVarDecl, Span: sp, Name: name})
	if p.eat("=") {
		init := p.expr()
		p.tree.AddKid(decl, init)
		p.tree.Get(decl).Span = sp.Cover(p.tree.Get(init).Span)
	}
	p.expect(";", diag.SynUnexpectedToken)
	return decl
}

func (p *parser) funcNode(declaration bool) syntax.NodeID {
	start := p.tok.Span
	p.advance() // function

	var name source.StringID
	if p.tok.Kind == tokIdent {
		name = p.intern(p.tok.Text)
		p.advance()
	} else if declaration {
		p.errorf(diag.SynExpectIdentifier, p.tok.Span, "function declaration needs a name")
	}

	params := p.tree.New(syntax.Node{Kind: syntax.NodeParamList, Span: p.tok.Span})
	p.expect("(", diag.SynUnclosedParen)
	for p.tok.Kind == tokIdent {
		pn := p.tree.New(syntax.Node{Kind: syntax.NodeParam, Span: p.tok.Span, Name: p.intern(p.tok.Text)})
		p.tree.AddKid(params, pn)
		p.advance()
		if !p.eat(",") {
			break
		}
	}
	p.expect(")", diag.SynUnclosedParen)

	body := p.block()
	fn := p.tree.New(syntax.Node{Kind: syntax.NodeFunc, Span: start, Name: name})
	p.tree.AddKid(fn, params)
	p.tree.AddKid(fn, body)
	if b := p.tree.Get(body); b != nil {
		p.tree.Get(fn).Span = start.Cover(b.Span)
	}
	return fn
}

func (p *parser) block() syntax.NodeID {
	start := p.tok.Span
	blk := p.tree.New(syntax.Node{Kind: syntax.NodeBlock, Span: start})
	if !p.expect("{", diag.SynUnclosedBrace) {
		return blk
	}
	for p.tok.Kind != tokEOF && !p.at("}") && p.errs < p.maxErr {
		if stmt := p.stmt(); stmt.IsValid() {
			p.tree.AddKid(blk, stmt)
		}
	}
	end := p.tok.Span
	p.expect("}", diag.SynUnclosedBrace)
	p.tree.Get(blk).Span = start.Cover(end)
	return blk
}

func (p *parser) returnStmt() syntax.NodeID {
	start := p.tok.Span
	p.advance() // return
	ret := p.tree.New(syntax.Node{Kind: syntax.NodeReturn, Span: start})
	if !p.at(";") && !p.at("}") && p.tok.Kind != tokEOF {
		val := p.expr()
		p.tree.AddKid(ret, val)
		p.tree.Get(ret).Span = start.Cover(p.tree.Get(val).Span)
	}
	p.expect(";", diag.SynUnexpectedToken)
	return ret
}

// exprStmt parses an expression statement, rewriting "target = value" into
// an assignment when the target is an ident or member access.
func (p *parser) exprStmt() syntax.NodeID {
	start := p.tok.Span
	lhs := p.expr()
	if p.eat("=") {
		target := p.tree.Get(lhs)
		if target.Kind != syntax.NodeIdent && target.Kind != syntax.NodeMember {
			p.errorf(diag.SynBadAssignTarget, target.Span, "cannot assign to this expression")
			p.skipToSync()
			return syntax.NoNodeID
		}
		rhs := p.expr()
		assign := p.tree.New(syntax.Node{
			Kind: syntax.NodeAssign,
			Span: start.Cover(p.tree.Get(rhs).Span),
		})
		p.tree.AddKid(assign, lhs)
		p.tree.AddKid(assign, rhs)
		p.expect(";", diag.SynUnexpectedToken)
		return assign
	}
	stmt := p.tree.New(syntax.Node{Kind: syntax.NodeExprStmt, Span: p.tree.Get(lhs).Span})
	p.tree.AddKid(stmt, lhs)
	p.expect(";", diag.SynUnexpectedToken)
	return stmt
}

// Binary operator precedence, loosest first.
var binaryLevels = [][]struct {
	text string
	op   syntax.Op
}{
	{{"||", syntax.OpOr}},
	{{"&&", syntax.OpAnd}},
	{{"==", syntax.OpEq}, {"!=", syntax.OpNeq}},
	{{"<", syntax.OpLt}, {">", syntax.OpGt}},
	{{"+", syntax.OpAdd}, {"-", syntax.OpSub}},
	{{"*", syntax.OpMul}, {"/", syntax.OpDiv}},
}

func (p *parser) expr() syntax.NodeID {
	return p.binary(0)
}

func (p *parser) binary(level int) syntax.NodeID {
	if level >= len(binaryLevels) {
		return p.postfix()
	}
	left := p.binary(level + 1)
	for {
		matched := false
		for _, cand := range binaryLevels[level] {
			if p.tok.Kind == tokPunct && p.tok.Text == cand.text {
				p.advance()
				right := p.binary(level + 1)
				node := p.tree.New(syntax.Node{
					Kind: syntax.NodeBinary,
					Span: p.tree.Get(left).Span.Cover(p.tree.Get(right).Span),
					Op:   cand.op,
				})
				p.tree.AddKid(node, left)
				p.tree.AddKid(node, right)
				left = node
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
	}
}

func (p *parser) postfix() syntax.NodeID {
	node := p.primary()
	for {
		switch {
		case p.at("("):
			p.advance()
			call := p.tree.New(syntax.Node{Kind: syntax.NodeCall, Span: p.tree.Get(node).Span})
			p.tree.AddKid(call, node)
			for !p.at(")") && p.tok.Kind != tokEOF {
				p.tree.AddKid(call, p.expr())
				if !p.eat(",") {
					break
				}
			}
			end := p.tok.Span
			p.expect(")", diag.SynUnclosedParen)
			p.tree.Get(call).Span = p.tree.Get(call).Span.Cover(end)
			node = call

		case p.at("."):
			p.advance()
			if p.tok.Kind != tokIdent {
				p.errorf(diag.SynExpectIdentifier, p.tok.Span, "expected property name after '.'")
				return node
			}
			member := p.tree.New(syntax.Node{
				Kind: syntax.NodeMember,
				Span: p.tree.Get(node).Span.Cover(p.tok.Span),
				Name: p.intern(p.tok.Text),
			})
			p.tree.AddKid(member, node)
			p.advance()
			node = member

		default:
			return node
		}
	}
}

func (p *parser) primary() syntax.NodeID {
	sp := p.tok.Span
	switch {
	case p.tok.Kind == tokNumber:
		n := p.tree.New(syntax.Node{Kind: syntax.NodeNumber, Span: sp, Num: p.tok.Num})
		p.advance()
		return n

	case p.tok.Kind == tokString:
		n := p.tree.New(syntax.Node{Kind: syntax.NodeString, Span: sp, Str: p.intern(p.tok.Text)})
		p.advance()
		return n

	case p.at("true"), p.at("false"):
		n := p.tree.New(syntax.Node{Kind: syntax.NodeBool, Span: sp, Flag: p.tok.Text == "true"})
		p.advance()
		return n

	case p.at("null"):
		n := p.tree.New(syntax.Node{Kind: syntax.NodeNull, Span: sp})
		p.advance()
		return n

	case p.at("function"):
		return p.funcNode(false)

	case p.at("("):
		p.advance()
		inner := p.expr()
		p.expect(")", diag.SynUnclosedParen)
		return inner

	case p.at("["):
		return p.arrayOrComp()

	case p.tok.Kind == tokIdent:
		n := p.tree.New(syntax.Node{Kind: syntax.NodeIdent, Span: sp, Name: p.intern(p.tok.Text)})
		p.advance()
		return n

	default:
		p.errorf(diag.SynUnexpectedToken, sp, "unexpected "+p.describe())
		p.advance()
		// Error placeholder: null never changes inference results.
		return p.tree.New(syntax.Node{Kind: syntax.NodeNull, Span: sp})
	}
}

// arrayOrComp parses "[...]" as either an array literal or a comprehension
// of the form "[for (x of xs) expr]".
func (p *parser) arrayOrComp() syntax.NodeID {
	start := p.tok.Span
	p.advance() // [

	if p.at("for") {
		p.advance()
		p.expect("(", diag.SynUnclosedParen)
		if p.tok.Kind != tokIdent {
			p.errorf(diag.SynExpectIdentifier, p.tok.Span, "expected loop binding in comprehension")
			p.skipToSync()
			return p.tree.New(syntax.Node{Kind: syntax.NodeNull, Span: start})
		}
		binding := p.intern(p.tok.Text)
		p.advance()
		if !p.eat("of") {
			p.errorf(diag.SynForMissingOf, p.tok.Span, "expected 'of' in comprehension")
		}
		iterable := p.expr()
		p.expect(")", diag.SynUnclosedParen)
		element := p.expr()
		end := p.tok.Span
		p.expect("]", diag.SynUnclosedBracket)

		comp := p.tree.New(syntax.Node{
			Kind: syntax.NodeComp,
			Span: start.Cover(end),
			Name: binding,
		})
		p.tree.AddKid(comp, iterable)
		p.tree.AddKid(comp, element)
		return comp
	}

	arr := p.tree.New(syntax.Node{Kind: syntax.NodeArray, Span: start})
	for !p.at("]") && p.tok.Kind != tokEOF {
		p.tree.AddKid(arr, p.expr())
		if !p.eat(",") {
			break
		}
	}
	end := p.tok.Span
	p.expect("]", diag.SynUnclosedBracket)
	p.tree.Get(arr).Span = start.Cover(end)
	return arr
}
