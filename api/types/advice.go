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

// The interfaces below provide the AOP (Aspect Oriented Programming) mechanism of the engine.
//
//   - They allow adding extra behavior around target operation invocations without modifying the target's logic.
//   - They allow separating common behaviors (such as logging, metrics, validation) from the business logic.
//
// 以下接口提供引擎的 AOP(面向切面编程，Aspect Oriented Programming)机制。
//
//   - 它允许在不修改目标对象逻辑的情况下，围绕目标操作调用添加额外的行为。
//   - 它允许把一些公共的行为（例如：日志、指标、校验）从业务逻辑中分离出来。

// Phase 增强点执行阶段
// advice phase
type Phase string

const (
	//PhaseBefore 目标操作执行之前
	PhaseBefore Phase = "Before"
	//PhaseAfterReturning 目标操作正常返回之后
	PhaseAfterReturning Phase = "AfterReturning"
	//PhaseAfterThrowing 目标操作返回错误之后
	PhaseAfterThrowing Phase = "AfterThrowing"
)

// Advice is the base interface for advice
// Advice 增强点接口的基类
type Advice interface {
	//Order returns the execution order, the smaller the value, the higher the priority
	//Order 返回执行顺序，值越小，优先级越高
	Order() int
}

// BeforeAdvice is the interface for advice that runs before the target operation.
// If Before returns an error, the dispatch stops immediately: the target
// operation does not run and the error propagates to the caller wrapped in
// *AdviceExecutionError.
//
// BeforeAdvice 目标操作执行之前的增强点接口。
// 如果 Before 返回错误，本次分发立即终止：目标操作不会执行，
// 错误包装为 *AdviceExecutionError 传播给调用方。
type BeforeAdvice interface {
	Advice
	//Before 目标操作执行之前的增强点
	Before(jp *JoinPoint) error
}

// AfterReturningAdvice is the interface for advice that runs after the target
// operation returned normally. If AfterReturning returns an error, that error
// replaces the original return value for the caller and later advice in the
// phase is skipped.
//
// AfterReturningAdvice 目标操作正常返回之后的增强点接口。
// 如果 AfterReturning 返回错误，该错误代替原返回值传播给调用方，
// 同阶段后续增强点不再执行。
type AfterReturningAdvice interface {
	Advice
	//AfterReturning 目标操作正常返回之后的增强点
	AfterReturning(jp *JoinPoint, result interface{}) error
}

// AfterThrowingAdvice is the interface for advice that runs after the target
// operation returned an error. The advice observes the error; it cannot
// suppress or replace it, the original error always re-propagates to the
// caller.
//
// AfterThrowingAdvice 目标操作返回错误之后的增强点接口。
// 增强点只观察错误，不能吞掉或者替换错误，原始错误始终传播给调用方。
type AfterThrowingAdvice interface {
	Advice
	//AfterThrowing 目标操作返回错误之后的增强点
	AfterThrowing(jp *JoinPoint, err error)
}

// AdviceComponent is an advice that can be declared in the bindings DSL and
// instantiated by type through the component registry.
// 实现方式参考`builtin/advice`包
//
// AdviceComponent 可以通过绑定DSL声明、由组件注册器按type实例化的增强点组件。
type AdviceComponent interface {
	Advice
	//New 创建一个组件新实例
	//每个绑定都会创建一个新的实例，数据是独立的
	New() AdviceComponent
	//Type 组件类型，类型不能重复
	//用于绑定DSL，advice.type配置，初始化对应的组件
	Type() string
	//Init 组件初始化，一般做一些组件参数配置或者脚本编译操作
	//绑定DSL里的增强点初始化会调用一次
	Init(config Config, configuration Configuration) error
	//Destroy 销毁，做一些资源释放操作
	Destroy()
}

// AdviceList 增强点列表
type AdviceList []Advice

// GetAdvices splits the list by phase interface. An advice may implement more
// than one phase interface and then appears in each matching list.
//
// GetAdvices 按阶段接口拆分列表。一个增强点可以实现多个阶段接口，会出现在每个对应的列表中。
func (list AdviceList) GetAdvices() (before []BeforeAdvice, returning []AfterReturningAdvice, throwing []AfterThrowingAdvice) {
	for _, item := range list {
		if a, ok := item.(BeforeAdvice); ok {
			before = append(before, a)
		}
		if a, ok := item.(AfterReturningAdvice); ok {
			returning = append(returning, a)
		}
		if a, ok := item.(AfterThrowingAdvice); ok {
			throwing = append(throwing, a)
		}
	}
	return
}

// beforeFunc BeforeAdvice 的函数适配器
type beforeFunc struct {
	order int
	fn    func(jp *JoinPoint) error
}

// NewBeforeFunc 通过函数创建一个 BeforeAdvice
func NewBeforeFunc(order int, fn func(jp *JoinPoint) error) BeforeAdvice {
	return &beforeFunc{order: order, fn: fn}
}

func (f *beforeFunc) Order() int {
	return f.order
}

func (f *beforeFunc) Before(jp *JoinPoint) error {
	return f.fn(jp)
}

// afterReturningFunc AfterReturningAdvice 的函数适配器
type afterReturningFunc struct {
	order int
	fn    func(jp *JoinPoint, result interface{}) error
}

// NewAfterReturningFunc 通过函数创建一个 AfterReturningAdvice
func NewAfterReturningFunc(order int, fn func(jp *JoinPoint, result interface{}) error) AfterReturningAdvice {
	return &afterReturningFunc{order: order, fn: fn}
}

func (f *afterReturningFunc) Order() int {
	return f.order
}

func (f *afterReturningFunc) AfterReturning(jp *JoinPoint, result interface{}) error {
	return f.fn(jp, result)
}

// afterThrowingFunc AfterThrowingAdvice 的函数适配器
type afterThrowingFunc struct {
	order int
	fn    func(jp *JoinPoint, err error)
}

// NewAfterThrowingFunc 通过函数创建一个 AfterThrowingAdvice
func NewAfterThrowingFunc(order int, fn func(jp *JoinPoint, err error)) AfterThrowingAdvice {
	return &afterThrowingFunc{order: order, fn: fn}
}

func (f *afterThrowingFunc) Order() int {
	return f.order
}

func (f *afterThrowingFunc) AfterThrowing(jp *JoinPoint, err error) {
	f.fn(jp, err)
}
