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

package types

import (
	"github.com/gofrs/uuid/v5"
)

// Outcome 连接点的执行结果状态
// outcome state of a join point
type Outcome int

const (
	//Pending 目标操作尚未完成
	Pending Outcome = iota
	//Returned 目标操作正常返回
	Returned
	//Threw 目标操作返回错误
	Threw
)

func (o Outcome) String() string {
	switch o {
	case Returned:
		return "RETURNED"
	case Threw:
		return "THREW"
	default:
		return "PENDING"
	}
}

// JoinPoint is one concrete occurrence of an intercepted operation invocation.
// The engine creates one JoinPoint per dispatch immediately before the before
// advice runs and discards it after the after advice completes. The outcome
// transitions Pending to exactly one of Returned or Threw, set once by the
// engine; advice only observes it.
//
// JoinPoint 是被拦截操作调用的一次具体发生。
// 引擎在每次分发时、before增强点执行之前创建一个 JoinPoint，after增强点执行完后丢弃。
// outcome 由引擎设置且只设置一次：从 Pending 变为 Returned 或 Threw 之一，增强点只读取。
type JoinPoint struct {
	//Id 调用ID，uuid生成
	Id string
	//Scope 目标声明作用域
	Scope string
	//Operation 操作名称
	Operation string
	//Visibility 操作可见性
	Visibility string
	//Args 调用参数，按声明顺序
	Args []interface{}

	outcome Outcome
	result  interface{}
	err     error
}

// NewJoinPoint 创建一个新的连接点实例，并通过uuid生成调用ID
func NewJoinPoint(scope string, operation string, visibility string, args []interface{}) *JoinPoint {
	uuId, _ := uuid.NewV4()
	return &JoinPoint{
		Id:         uuId.String(),
		Scope:      scope,
		Operation:  operation,
		Visibility: visibility,
		Args:       args,
	}
}

// Shape 返回该连接点的静态调用形状，用于切入点匹配
func (jp *JoinPoint) Shape() Shape {
	return Shape{
		Visibility: jp.Visibility,
		Scope:      jp.Scope,
		Operation:  jp.Operation,
		Arity:      len(jp.Args),
	}
}

// Outcome 返回当前执行结果状态
func (jp *JoinPoint) Outcome() Outcome {
	return jp.outcome
}

// Result 返回目标操作的返回值，只有 Outcome()==Returned 时有意义
func (jp *JoinPoint) Result() interface{} {
	return jp.result
}

// Error 返回目标操作的错误，只有 Outcome()==Threw 时非nil
func (jp *JoinPoint) Error() error {
	return jp.err
}

// SetReturned 标记目标操作正常返回。由拦截引擎调用，每次分发最多调用一次
func (jp *JoinPoint) SetReturned(result interface{}) {
	if jp.outcome == Pending {
		jp.outcome = Returned
		jp.result = result
	}
}

// SetThrew 标记目标操作返回错误。由拦截引擎调用，每次分发最多调用一次
func (jp *JoinPoint) SetThrew(err error) {
	if jp.outcome == Pending {
		jp.outcome = Threw
		jp.err = err
	}
}
