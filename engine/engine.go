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

// Package engine provides the core functionality of the WeaveGo interception
// engine. It includes the pointcut matcher, the advice registry and the
// dispatcher that runs advice around real target operations.
//
// Package engine 提供 WeaveGo 拦截引擎的核心功能。
// 它包括切入点匹配器、增强点注册表和围绕真实目标操作执行增强点的分发器。
//
// The engine package is responsible for:
// engine 包负责：
//   - Compiling pointcut patterns into shape matchers (CompilePattern)
//     把切入点表达式编译成形状匹配器（CompilePattern）
//   - Owning pointcut definitions and advice bindings (AdviceRegistry)
//     持有切入点定义和增强点绑定（AdviceRegistry）
//   - Dispatching intercepted invocations (Engine.Invoke)
//     分发被拦截的调用（Engine.Invoke）
//   - Wrapping targets in transparent proxies (Engine.Wrap)
//     把目标对象包装成透明代理（Engine.Wrap）
//   - Loading pointcut and advice declarations from the bindings DSL
//     从绑定DSL加载切入点和增强点声明
//
// Dispatch flow per invocation:
// 每次调用的分发流程：
//
//	build JoinPoint -> resolve advice -> run before advice in order ->
//	invoke the real operation -> run afterReturning or afterThrowing advice ->
//	return the real result or error to the caller
//
// Exactly one of the after phases runs per invocation. Before advice always
// runs first and at most once.
package engine

import (
	"errors"
	"fmt"

	"github.com/weavego/weavego/api/types"
)

var ErrNilTarget = errors.New("target is nil")

// Engine is the interception engine: the runtime stand-in between a caller
// and a real target operation. It consults the advice registry via the
// pointcut matcher, runs before advice, invokes the real operation and runs
// after advice, faithfully propagating the real result or error.
//
// The engine has no per-invocation state of its own: each dispatch owns its
// JoinPoint, so concurrent invocations through the same engine are
// independent.
//
// Engine 是拦截引擎：调用方和真实目标操作之间的运行时替身。
// 它通过切入点匹配器查询增强点注册表，执行before增强点，调用真实操作，
// 再执行after增强点，忠实传播真实的返回值或错误。
//
// 引擎自身没有每次调用的状态：每次分发拥有自己的 JoinPoint，
// 通过同一引擎的并发调用相互独立。
type Engine struct {
	// Config is the engine configuration.
	Config types.Config
	// adviceRegistry owns pointcut definitions and advice bindings.
	adviceRegistry *AdviceRegistry
}

// New creates a new interception engine with the given configuration.
// Zero-value configuration fields fall back to the package defaults.
//
// New 使用给定配置创建一个新的拦截引擎。配置的零值字段使用包默认值。
func New(config types.Config) *Engine {
	if config.Logger == nil {
		config.Logger = types.DefaultLogger()
	}
	if config.ComponentsRegistry == nil {
		config.ComponentsRegistry = Registry
	}
	if config.Parser == nil {
		config.Parser = &JsonParser{}
	}
	return &Engine{
		Config:         config,
		adviceRegistry: NewAdviceRegistry(),
	}
}

// DefinePointcut 定义一个命名切入点，见 AdviceRegistry.DefinePointcut
func (e *Engine) DefinePointcut(name string, pattern string) error {
	return e.adviceRegistry.DefinePointcut(name, pattern)
}

// Pointcuts 返回所有已定义的切入点
func (e *Engine) Pointcuts() []types.Pointcut {
	return e.adviceRegistry.Pointcuts()
}

// RegisterAdvice 把增强点绑定到已定义的切入点，见 AdviceRegistry.RegisterAdvice
func (e *Engine) RegisterAdvice(pointcutName string, advice types.Advice) error {
	return e.adviceRegistry.RegisterAdvice(pointcutName, advice)
}

// RegisterAdviceWithOrder 使用显式顺序绑定增强点
func (e *Engine) RegisterAdviceWithOrder(pointcutName string, order int, advice types.Advice) error {
	return e.adviceRegistry.RegisterAdviceWithOrder(pointcutName, order, advice)
}

// RegisterBefore 通过函数绑定一个before增强点
func (e *Engine) RegisterBefore(pointcutName string, order int, fn func(jp *types.JoinPoint) error) error {
	return e.adviceRegistry.RegisterBefore(pointcutName, order, fn)
}

// RegisterAfterReturning 通过函数绑定一个afterReturning增强点
func (e *Engine) RegisterAfterReturning(pointcutName string, order int, fn func(jp *types.JoinPoint, result interface{}) error) error {
	return e.adviceRegistry.RegisterAfterReturning(pointcutName, order, fn)
}

// RegisterAfterThrowing 通过函数绑定一个afterThrowing增强点
func (e *Engine) RegisterAfterThrowing(pointcutName string, order int, fn func(jp *types.JoinPoint, err error)) error {
	return e.adviceRegistry.RegisterAfterThrowing(pointcutName, order, fn)
}

// ResolveAdviceFor 返回匹配调用形状的增强点，按阶段分组
func (e *Engine) ResolveAdviceFor(shape types.Shape) ResolvedAdvice {
	return e.adviceRegistry.ResolveAdviceFor(shape)
}

// LoadBindings parses a bindings DSL document with the configured parser and
// applies it, see ApplyBindings.
//
// LoadBindings 使用配置的解析器解析绑定DSL文档并应用，见 ApplyBindings。
func (e *Engine) LoadBindings(dsl []byte) error {
	def, err := e.Config.Parser.DecodeBindings(dsl)
	if err != nil {
		return err
	}
	return e.ApplyBindings(def)
}

// ApplyBindings defines the declared pointcuts, instantiates the declared
// advice components through the component registry and binds them. A binding
// order of 0 uses the component's own Order(). Any failure aborts loading:
// configuration errors surface here, not during dispatch.
//
// ApplyBindings 定义声明的切入点，通过组件注册器实例化声明的增强点组件并绑定。
// 绑定order为0时使用组件自身的 Order()。任何失败都会中止加载：
// 配置错误在这里暴露，不会出现在分发阶段。
func (e *Engine) ApplyBindings(def types.Bindings) error {
	for _, pointcut := range def.Pointcuts {
		if err := e.DefinePointcut(pointcut.Name, pointcut.Pattern); err != nil {
			return err
		}
	}
	for _, binding := range def.Advice {
		component, err := e.Config.ComponentsRegistry.NewAdvice(binding.Type)
		if err != nil {
			return err
		}
		if err = component.Init(e.Config, binding.Configuration); err != nil {
			return fmt.Errorf("init advice component failed. type=%s: %w", binding.Type, err)
		}
		order := binding.Order
		if order == 0 {
			order = component.Order()
		}
		if err = e.adviceRegistry.RegisterAdviceWithOrder(binding.Pointcut, order, component); err != nil {
			return err
		}
	}
	return nil
}

// Invoke dispatches one operation invocation on the target through the
// interception engine.
//
// The caller observes exactly what a direct call would produce: the real
// return value on success and the unchanged target error on failure. Only
// advice errors from the before and afterReturning phases replace the
// outcome, wrapped in *types.AdviceExecutionError.
//
// Invoke 通过拦截引擎分发一次目标操作调用。
//
// 调用方观察到的结果与直接调用完全一致：成功时是真实返回值，
// 失败时是未被修改的目标错误。只有before和afterReturning阶段的增强点错误
// 会代替结果传播，包装为 *types.AdviceExecutionError。
func (e *Engine) Invoke(target types.Target, operation string, args ...interface{}) (interface{}, error) {
	if e == nil || e.adviceRegistry == nil {
		return nil, types.ErrEngineNotInitialized
	}
	if target == nil {
		return nil, ErrNilTarget
	}
	info, ok := target.Operation(operation)
	if !ok {
		return nil, fmt.Errorf("%w: operation=%s,scope=%s", types.ErrOperationNotFound, operation, target.Scope())
	}

	jp := types.NewJoinPoint(target.Scope(), operation, info.Visibility, args)
	//每次分发解析一次
	resolved := e.adviceRegistry.ResolveAdviceFor(jp.Shape())

	e.onDebug(types.In, jp, nil)

	//before增强点，快速失败：出错则目标操作和after增强点都不执行
	for _, binding := range resolved.Before {
		if err := binding.Advice.Before(jp); err != nil {
			wrapped := &types.AdviceExecutionError{Phase: types.PhaseBefore, Pointcut: binding.Pointcut, Cause: err}
			e.onDebug(types.Out, jp, wrapped)
			return nil, wrapped
		}
	}

	result, err := e.callTarget(target, operation, args)
	if err != nil {
		jp.SetThrew(err)
		//afterThrowing增强点只观察错误
		for _, binding := range resolved.AfterThrowing {
			binding.Advice.AfterThrowing(jp, err)
		}
		e.onDebug(types.Out, jp, err)
		//原始错误原样传播
		return nil, err
	}

	jp.SetReturned(result)
	for _, binding := range resolved.AfterReturning {
		if adviceErr := binding.Advice.AfterReturning(jp, result); adviceErr != nil {
			wrapped := &types.AdviceExecutionError{Phase: types.PhaseAfterReturning, Pointcut: binding.Pointcut, Cause: adviceErr}
			e.onDebug(types.Out, jp, wrapped)
			return nil, wrapped
		}
	}
	e.onDebug(types.Out, jp, nil)
	return result, nil
}

// Wrap returns a proxy standing in for the target. The proxy implements the
// same Target interface, so callers use the same calling convention as
// calling the target directly while every call routes through Invoke.
//
// Wrap 返回目标对象的代理。代理实现相同的 Target 接口，
// 调用方的调用方式与直接调用目标一致，每次调用都经过 Invoke 分发。
func (e *Engine) Wrap(target types.Target) types.Target {
	return &proxyTarget{engine: e, target: target}
}

// Stop 释放引擎持有的所有增强点组件并清空注册表
func (e *Engine) Stop() {
	e.adviceRegistry.Destroy()
}

// callTarget 执行真实目标操作
func (e *Engine) callTarget(target types.Target, operation string, args []interface{}) (result interface{}, err error) {
	defer func() {
		//捕捉异常
		if caught := recover(); caught != nil {
			err = fmt.Errorf("%v", caught)
		}
	}()
	return target.Call(operation, args)
}

// onDebug 调用配置的OnDebug回调函数
func (e *Engine) onDebug(flowType string, jp *types.JoinPoint, err error) {
	if e.Config.OnDebug != nil {
		e.Config.OnDebug(flowType, jp, err)
	}
}

// proxyTarget 目标对象的透明代理
type proxyTarget struct {
	engine *Engine
	target types.Target
}

func (p *proxyTarget) Scope() string {
	return p.target.Scope()
}

func (p *proxyTarget) Operation(name string) (types.OperationInfo, bool) {
	return p.target.Operation(name)
}

func (p *proxyTarget) Call(name string, args []interface{}) (interface{}, error) {
	return p.engine.Invoke(p.target, name, args...)
}
