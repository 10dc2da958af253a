/*
 * Copyright 2024 The WeaveGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package engine

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	exprVm "github.com/expr-lang/expr/vm"
	"github.com/weavego/weavego/api/types"
)

// ExprPatternPrefix expr表达式切入点前缀
// a pattern starting with this prefix is compiled as an expr expression over
// the call shape instead of the structural grammar
const ExprPatternPrefix = "expr:"

// Matcher is a compiled pointcut pattern. Matches is pure and total: it never
// fails for a well-formed shape and identical inputs always yield identical
// results. Patterns see the call shape only, never argument values.
//
// Matcher 是编译后的切入点表达式。Matches 是纯函数：相同输入始终返回相同结果，
// 只针对调用形状求值，参数值不参与匹配。
type Matcher interface {
	//Matches 判断调用形状是否属于该切入点
	Matches(shape types.Shape) bool
}

// CompilePattern compiles a pointcut pattern into a Matcher.
//
// Structural grammar:
//
//	[visibility] [returnType] [scopePath.]operation(args)
//
//   - visibility: public/protected/private/package or `*`; omitted means any
//   - returnType: accepted and ignored, call shapes carry no return type
//   - scopePath: dot-separated segments; `*` matches exactly one segment,
//     `..` matches zero or more segments; omitted means any scope
//   - operation: literal or `*`
//   - args: `(..)` any arity; `()` zero; a comma list of `*` tokens matching
//     one argument each, optionally ending with `..` for "that many or more"
//
// 例如：public * examples.calculator.*.*(..)
//
// Alternatively a pattern `expr: <expression>` is compiled with expr-lang over
// the variables visibility, scope, operation and arity.
//
// 例如：expr: visibility == "public" && arity == 2
//
// Malformed patterns fail here with types.ErrMalformedPattern, never at
// dispatch time.
func CompilePattern(pattern string) (Matcher, error) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty pattern", types.ErrMalformedPattern)
	}
	if strings.HasPrefix(trimmed, ExprPatternPrefix) {
		return compileExprPattern(strings.TrimPrefix(trimmed, ExprPatternPrefix))
	}
	return compileStructuralPattern(trimmed)
}

// exprMatcher expr表达式匹配器
type exprMatcher struct {
	program *exprVm.Program
}

func compileExprPattern(expression string) (Matcher, error) {
	expression = strings.TrimSpace(expression)
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrMalformedPattern, err.Error())
	}
	return &exprMatcher{program: program}, nil
}

func (m *exprMatcher) Matches(shape types.Shape) bool {
	//每次创建新的VM，保证并发安全
	vm := exprVm.VM{}
	result, err := vm.Run(m.program, map[string]interface{}{
		"visibility": shape.Visibility,
		"scope":      shape.Scope,
		"operation":  shape.Operation,
		"arity":      shape.Arity,
	})
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

// structuralMatcher 结构化表达式匹配器
type structuralMatcher struct {
	//visibility 可见性token，`*`表示任意
	visibility string
	//scopeSegments 作用域段，`*`匹配一个段，`..`匹配零个或者多个段
	scopeSegments []string
	//operation 操作名称，`*`表示任意
	operation string
	//minArity 最小参数个数
	minArity int
	//openArity true时匹配 >=minArity 的任意参数个数
	openArity bool
}

func compileStructuralPattern(pattern string) (Matcher, error) {
	open := strings.LastIndex(pattern, "(")
	if open < 0 || !strings.HasSuffix(pattern, ")") {
		return nil, fmt.Errorf("%w: missing argument list. pattern=%s", types.ErrMalformedPattern, pattern)
	}
	argSpec := pattern[open+1 : len(pattern)-1]
	head := strings.TrimSpace(pattern[:open])
	if head == "" {
		return nil, fmt.Errorf("%w: missing operation. pattern=%s", types.ErrMalformedPattern, pattern)
	}

	m := &structuralMatcher{visibility: "*"}
	if err := m.parseArgs(argSpec); err != nil {
		return nil, fmt.Errorf("%w: %s. pattern=%s", types.ErrMalformedPattern, err.Error(), pattern)
	}

	fields := strings.Fields(head)
	path := fields[len(fields)-1]
	modifiers := fields[:len(fields)-1]
	switch len(modifiers) {
	case 0:
	case 1:
		//单个修饰token：可见性字面量按可见性处理，否则按返回类型处理（忽略）
		if isVisibilityToken(modifiers[0]) {
			m.visibility = modifiers[0]
		}
	case 2:
		//两个修饰token：可见性 + 返回类型（忽略）
		if modifiers[0] != "*" && !isVisibilityToken(modifiers[0]) {
			return nil, fmt.Errorf("%w: invalid visibility %q. pattern=%s", types.ErrMalformedPattern, modifiers[0], pattern)
		}
		m.visibility = modifiers[0]
	default:
		return nil, fmt.Errorf("%w: too many modifier tokens. pattern=%s", types.ErrMalformedPattern, pattern)
	}

	segments, err := tokenizePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s. pattern=%s", types.ErrMalformedPattern, err.Error(), pattern)
	}
	operation := segments[len(segments)-1]
	if operation == ".." {
		return nil, fmt.Errorf("%w: operation must be a literal or *. pattern=%s", types.ErrMalformedPattern, pattern)
	}
	m.operation = operation
	if scope := segments[:len(segments)-1]; len(scope) == 0 {
		//省略作用域时匹配任意作用域
		m.scopeSegments = []string{".."}
	} else {
		m.scopeSegments = scope
	}
	return m, nil
}

// parseArgs 解析参数列表token
func (m *structuralMatcher) parseArgs(argSpec string) error {
	argSpec = strings.TrimSpace(argSpec)
	if argSpec == "" {
		return nil
	}
	if argSpec == ".." {
		m.openArity = true
		return nil
	}
	tokens := strings.Split(argSpec, ",")
	for i, token := range tokens {
		token = strings.TrimSpace(token)
		if token == ".." {
			if i != len(tokens)-1 {
				return fmt.Errorf("`..` is only allowed as the last argument token")
			}
			m.openArity = true
		} else if token == "" {
			return fmt.Errorf("empty argument token")
		} else {
			//`*` 或者类型字面量都精确匹配一个参数
			m.minArity++
		}
	}
	return nil
}

func (m *structuralMatcher) Matches(shape types.Shape) bool {
	if m.visibility != "*" && m.visibility != shape.Visibility {
		return false
	}
	if m.operation != "*" && m.operation != shape.Operation {
		return false
	}
	if m.openArity {
		if shape.Arity < m.minArity {
			return false
		}
	} else if shape.Arity != m.minArity {
		return false
	}
	var scopeParts []string
	if shape.Scope != "" {
		scopeParts = strings.Split(shape.Scope, ".")
	}
	return matchSegments(m.scopeSegments, scopeParts)
}

// matchSegments 递归匹配作用域段
func matchSegments(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}
	if pattern[0] == ".." {
		for i := 0; i <= len(parts); i++ {
			if matchSegments(pattern[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	if pattern[0] == "*" || pattern[0] == parts[0] {
		return matchSegments(pattern[1:], parts[1:])
	}
	return false
}

// tokenizePath 把点号分隔的路径拆分成段token，`..`作为独立token
func tokenizePath(path string) ([]string, error) {
	var segments []string
	var current strings.Builder
	for i := 0; i < len(path); i++ {
		if path[i] != '.' {
			current.WriteByte(path[i])
			continue
		}
		if current.Len() > 0 {
			segments = append(segments, current.String())
			current.Reset()
		}
		if i+1 < len(path) && path[i+1] == '.' {
			segments = append(segments, "..")
			i++
			//`..`后面的分隔点可省略：a..b 与 a...b 等价处理为 a .. b
			if i+1 < len(path) && path[i+1] == '.' {
				i++
			}
		} else if i == 0 || i == len(path)-1 {
			return nil, fmt.Errorf("dangling separator in path %q", path)
		}
	}
	if current.Len() > 0 {
		segments = append(segments, current.String())
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	for _, seg := range segments {
		if seg == "*" || seg == ".." {
			continue
		}
		if strings.ContainsAny(seg, "*(") {
			return nil, fmt.Errorf("invalid path segment %q", seg)
		}
	}
	//`..`后必须还有操作名
	if segments[len(segments)-1] == ".." {
		return nil, fmt.Errorf("path %q ends with `..`", path)
	}
	return segments, nil
}

func isVisibilityToken(token string) bool {
	switch token {
	case types.Public, types.Protected, types.Private, types.Package, "*":
		return true
	default:
		return false
	}
}
