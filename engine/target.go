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

	"github.com/weavego/weavego/api/types"
)

// FuncTarget is a function-backed target: a named scope holding a set of
// operations, each implemented by a plain Go function. It is the simplest
// way to put existing functions behind the interception engine.
//
// FuncTarget 是基于函数的目标对象：一个命名作用域持有一组操作，
// 每个操作由普通Go函数实现。它是把现有函数接入拦截引擎的最简单方式。
type FuncTarget struct {
	scope      string
	operations map[string]funcOperation
}

type funcOperation struct {
	info types.OperationInfo
	fn   types.OperationFunc
}

// NewFuncTarget 创建一个函数目标对象，scope是目标的作用域路径
func NewFuncTarget(scope string) *FuncTarget {
	return &FuncTarget{
		scope:      scope,
		operations: make(map[string]funcOperation),
	}
}

// RegisterOperation registers a named operation. Visibility and arity become
// part of the invocation shape seen by pointcut matching. An arity of -1
// accepts any number of arguments.
//
// RegisterOperation 注册一个命名操作。可见性和参数个数构成切入点匹配
// 看到的调用形状。arity为-1表示接受任意个数的参数。
func (t *FuncTarget) RegisterOperation(name string, visibility string, arity int, fn types.OperationFunc) error {
	if _, ok := t.operations[name]; ok {
		return fmt.Errorf("the operation already exists. operation=%s,scope=%s", name, t.scope)
	}
	if fn == nil {
		return fmt.Errorf("operation function is nil. operation=%s,scope=%s", name, t.scope)
	}
	t.operations[name] = funcOperation{
		info: types.OperationInfo{
			Name:       name,
			Visibility: visibility,
			Arity:      arity,
		},
		fn: fn,
	}
	return nil
}

// MustRegisterOperation 同 RegisterOperation，失败时panic。用于程序初始化阶段
func (t *FuncTarget) MustRegisterOperation(name string, visibility string, arity int, fn types.OperationFunc) *FuncTarget {
	if err := t.RegisterOperation(name, visibility, arity, fn); err != nil {
		panic(err)
	}
	return t
}

func (t *FuncTarget) Scope() string {
	return t.scope
}

func (t *FuncTarget) Operation(name string) (types.OperationInfo, bool) {
	operation, ok := t.operations[name]
	return operation.info, ok
}

// Call 执行操作函数。参数个数与注册的arity不符时返回错误，不执行函数
func (t *FuncTarget) Call(name string, args []interface{}) (interface{}, error) {
	operation, ok := t.operations[name]
	if !ok {
		return nil, fmt.Errorf("%w: operation=%s,scope=%s", types.ErrOperationNotFound, name, t.scope)
	}
	if operation.info.Arity >= 0 && len(args) != operation.info.Arity {
		return nil, fmt.Errorf("argument count mismatch. operation=%s,expected=%d,got=%d", name, operation.info.Arity, len(args))
	}
	return operation.fn(args)
}
