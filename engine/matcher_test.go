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
	"errors"
	"testing"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/test/assert"
)

func shapeOf(visibility, scope, operation string, arity int) types.Shape {
	return types.Shape{Visibility: visibility, Scope: scope, Operation: operation, Arity: arity}
}

func mustCompile(t *testing.T, pattern string) Matcher {
	t.Helper()
	m, err := CompilePattern(pattern)
	assert.Nil(t, err)
	assert.NotNil(t, m)
	return m
}

func TestCompilePatternMalformed(t *testing.T) {
	patterns := []string{
		"",
		"   ",
		"noArgList",
		"sum(..",
		"(..)",
		"examples..(..)",
		".sum(..)",
		"examples.sum.(..)",
		"public static final * sum(..)",
		"internal * sum(..)",
		"examples.*(*,..,*)",
		"examples.*(,)",
		"exam*ples.sum(..)",
		"expr: visibility ==",
	}
	for _, pattern := range patterns {
		_, err := CompilePattern(pattern)
		assert.True(t, errors.Is(err, types.ErrMalformedPattern), "pattern=%s", pattern)
	}
}

func TestMatchOperationAndVisibility(t *testing.T) {
	m := mustCompile(t, "public sum(..)")
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 2)))
	assert.True(t, m.Matches(shapeOf(types.Public, "", "sum", 0)))
	assert.False(t, m.Matches(shapeOf(types.Private, "examples.calculator", "sum", 2)))
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.calculator", "multiply", 2)))

	//省略可见性则匹配任意可见性
	m = mustCompile(t, "sum(..)")
	assert.True(t, m.Matches(shapeOf(types.Private, "a.b", "sum", 1)))
	assert.True(t, m.Matches(shapeOf(types.Public, "a.b", "sum", 1)))
}

func TestMatchReturnTypeIgnored(t *testing.T) {
	//返回类型token不参与匹配
	m := mustCompile(t, "public int examples.calculator.divide(..)")
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "divide", 2)))

	m = mustCompile(t, "public * examples.calculator.divide(..)")
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "divide", 2)))

	//单个非可见性token按返回类型处理
	m = mustCompile(t, "int examples.calculator.divide(..)")
	assert.True(t, m.Matches(shapeOf(types.Private, "examples.calculator", "divide", 2)))
}

func TestMatchScopeSingleWildcard(t *testing.T) {
	// `*` 精确匹配一个作用域段
	m := mustCompile(t, "examples.*.sum(..)")
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 2)))
	assert.False(t, m.Matches(shapeOf(types.Public, "examples", "sum", 2)))
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.calculator.basic", "sum", 2)))
}

func TestMatchScopeDeepWildcard(t *testing.T) {
	// `..` 匹配零个或者多个作用域段
	m := mustCompile(t, "examples..sum(..)")
	assert.True(t, m.Matches(shapeOf(types.Public, "examples", "sum", 2)))
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 2)))
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator.basic", "sum", 2)))
	assert.False(t, m.Matches(shapeOf(types.Public, "other.calculator", "sum", 2)))

	m = mustCompile(t, "examples..calculator.*(..)")
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 2)))
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.demo.calculator", "multiply", 2)))
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.demo", "sum", 2)))
}

func TestMatchOmittedScope(t *testing.T) {
	//省略作用域则匹配任意作用域
	m := mustCompile(t, "public * *(..)")
	assert.True(t, m.Matches(shapeOf(types.Public, "", "sum", 0)))
	assert.True(t, m.Matches(shapeOf(types.Public, "a.b.c", "anything", 5)))
	assert.False(t, m.Matches(shapeOf(types.Private, "a.b.c", "anything", 5)))
}

func TestMatchArity(t *testing.T) {
	//空参数列表匹配零个参数
	m := mustCompile(t, "examples.calculator.reset()")
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "reset", 0)))
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.calculator", "reset", 1)))

	//token列表精确匹配参数个数
	m = mustCompile(t, "examples.calculator.sum(*, *)")
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 2)))
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 1)))
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 3)))

	//末尾`..`匹配不少于前缀个数的参数
	m = mustCompile(t, "examples.calculator.sum(*, ..)")
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 0)))
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 1)))
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 4)))

	//类型字面量token同样只按个数匹配
	m = mustCompile(t, "examples.calculator.sum(int, int)")
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 2)))
}

func TestMatchIsPureAndRepeatable(t *testing.T) {
	m := mustCompile(t, "public * examples..*(..)")
	shape := shapeOf(types.Public, "examples.calculator", "sum", 2)
	first := m.Matches(shape)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, m.Matches(shape))
	}
	assert.True(t, first)
}

func TestExprPattern(t *testing.T) {
	m := mustCompile(t, `expr: visibility == "public" && arity == 2`)
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 2)))
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.calculator", "reset", 0)))
	assert.False(t, m.Matches(shapeOf(types.Private, "examples.calculator", "sum", 2)))

	m = mustCompile(t, `expr: scope startsWith "examples." && operation matches "^(sum|multiply)$"`)
	assert.True(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 2)))
	assert.True(t, m.Matches(shapeOf(types.Private, "examples.demo", "multiply", 3)))
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.calculator", "divide", 2)))

	//非布尔结果视为不匹配
	m = mustCompile(t, "expr: arity + 1")
	assert.False(t, m.Matches(shapeOf(types.Public, "examples.calculator", "sum", 2)))
}
