package formula

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/aretw0/calcgame/pkg/domain"
)

// node is the wire form of an Expr. Exactly one of the kind fields is set.
type node struct {
	Const *domain.Number `json:"const,omitempty"`
	Var   string         `json:"var,omitempty"`
	Op    string         `json:"op,omitempty"`
	Call  string         `json:"call,omitempty"`
	Left  *node          `json:"left,omitempty"`
	Right *node          `json:"right,omitempty"`
	Arg   *node          `json:"arg,omitempty"`
}

// MarshalExpr encodes a tree as nested JSON objects.
func MarshalExpr(e Expr) ([]byte, error) {
	n, err := toNode(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

// UnmarshalExpr decodes a tree written by MarshalExpr. Symbols are not checked
// against any registry; evaluate with the registry the tree was parsed with.
func UnmarshalExpr(data []byte) (Expr, error) {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to decode formula: %w", err)
	}
	return fromNode(&n)
}

func toNode(e Expr) (*node, error) {
	switch v := e.(type) {
	case Constant:
		value := v.Value
		return &node{Const: &value}, nil
	case Variable:
		return &node{Var: v.Name}, nil
	case BinaryOp:
		left, err := toNode(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := toNode(v.Right)
		if err != nil {
			return nil, err
		}
		return &node{Op: string(v.Operator), Left: left, Right: right}, nil
	case UnaryCall:
		arg, err := toNode(v.Arg)
		if err != nil {
			return nil, err
		}
		return &node{Call: v.Function, Arg: arg}, nil
	}
	return nil, malformed("cannot encode node type %T", e)
}

func fromNode(n *node) (Expr, error) {
	if n == nil {
		return nil, malformed("empty node")
	}
	switch {
	case n.Const != nil:
		return Constant{Value: *n.Const}, nil
	case n.Var != "":
		return Variable{Name: n.Var}, nil
	case n.Op != "":
		sym, size := utf8.DecodeRuneInString(n.Op)
		if size != len(n.Op) {
			return nil, malformed("operator %q is not a single symbol", n.Op)
		}
		left, err := fromNode(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromNode(n.Right)
		if err != nil {
			return nil, err
		}
		return BinaryOp{Left: left, Operator: sym, Right: right}, nil
	case n.Call != "":
		arg, err := fromNode(n.Arg)
		if err != nil {
			return nil, err
		}
		return UnaryCall{Arg: arg, Function: n.Call}, nil
	}
	return nil, malformed("node has no kind")
}
