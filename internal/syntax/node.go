package syntax

import (
	"github.com/lukedgr/nodejstools/internal/source"
)

// NodeKind enumerates the syntax constructs of the analyzed language subset.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota

	// Structure
	NodeModule // Kids: top-level statements
	NodeBlock  // Kids: statements

	// Statements
	NodeVarDecl  // Name: binding; Kids[0]: optional initializer
	NodeAssign   // Kids[0]: target (ident/member), Kids[1]: value
	NodeExprStmt // Kids[0]: expression
	NodeReturn   // Kids[0]: optional expression

	// Declarations / callables
	NodeFunc      // Name: optional; Kids[0]: param list, Kids[1]: body block
	NodeParamList // Kids: params
	NodeParam     // Name: parameter binding

	// Expressions
	NodeIdent  // Name
	NodeMember // Kids[0]: object; Name: property
	NodeCall   // Kids[0]: callee; Kids[1:]: arguments
	NodeBinary // Op; Kids[0], Kids[1]
	NodeArray  // Kids: elements
	NodeComp   // Name: loop binding; Kids[0]: iterable, Kids[1]: element expr
	NodeNumber // Num
	NodeString // Str
	NodeBool   // Flag
	NodeNull
)

func (k NodeKind) String() string {
	switch k {
	case NodeModule:
		return "module"
	case NodeBlock:
		return "block"
	case NodeVarDecl:
		return "var"
	case NodeAssign:
		return "assign"
	case NodeExprStmt:
		return "expr-stmt"
	case NodeReturn:
		return "return"
	case NodeFunc:
		return "func"
	case NodeParamList:
		return "params"
	case NodeParam:
		return "param"
	case NodeIdent:
		return "ident"
	case NodeMember:
		return "member"
	case NodeCall:
		return "call"
	case NodeBinary:
		return "binary"
	case NodeArray:
		return "array"
	case NodeComp:
		return "comprehension"
	case NodeNumber:
		return "number"
	case NodeString:
		return "string"
	case NodeBool:
		return "bool"
	case NodeNull:
		return "null"
	default:
		return "invalid"
	}
}

// Op enumerates binary operators.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLt
	OpGt
	OpEq
	OpNeq
	OpAnd
	OpOr
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

// Node is one syntax construct. Payload fields are interpreted per kind;
// the engine treats nodes as an opaque graph and only the walker assigns
// meaning to them.
type Node struct {
	Kind NodeKind
	Span source.Span
	Name source.StringID
	Op   Op
	Num  float64
	Str  source.StringID
	Flag bool
	Kids []NodeID
}
