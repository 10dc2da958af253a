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
	"sort"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/weavego/weavego/api/types"
)

// BeforeBinding 解析结果中的一个before增强点
type BeforeBinding struct {
	//Pointcut 绑定的切入点名称
	Pointcut string
	//Advice 增强点
	Advice types.BeforeAdvice
}

// AfterReturningBinding 解析结果中的一个afterReturning增强点
type AfterReturningBinding struct {
	Pointcut string
	Advice   types.AfterReturningAdvice
}

// AfterThrowingBinding 解析结果中的一个afterThrowing增强点
type AfterThrowingBinding struct {
	Pointcut string
	Advice   types.AfterThrowingAdvice
}

// ResolvedAdvice holds the advice matching one call shape, grouped by phase.
// Each group is ordered by (order, registration index).
//
// ResolvedAdvice 保存匹配某个调用形状的增强点，按阶段分组。
// 每组按（order，注册顺序）排序。
type ResolvedAdvice struct {
	Before         []BeforeBinding
	AfterReturning []AfterReturningBinding
	AfterThrowing  []AfterThrowingBinding
}

// pointcutDef 编译后的切入点定义
type pointcutDef struct {
	name    string
	pattern string
	matcher Matcher
}

// adviceEntry 注册的增强点条目
// 注册时对阶段接口断言一次，分发时不再反射
type adviceEntry struct {
	pointcut          *pointcutDef
	advice            types.Advice
	order             int
	registrationIndex int
	before            types.BeforeAdvice
	afterReturning    types.AfterReturningAdvice
	afterThrowing     types.AfterThrowingAdvice
}

// registrySnapshot 注册表的不可变快照，分发路径只读取快照
type registrySnapshot struct {
	//entries 按(order,注册顺序)排序
	entries []*adviceEntry
}

// AdviceRegistry owns all pointcut definitions and the advice bound to them.
// Mutation happens under a lock and publishes a new immutable snapshot;
// ResolveAdviceFor reads the snapshot atomically, so concurrent registration
// never exposes a partially updated advice list to active dispatches.
//
// AdviceRegistry 持有全部切入点定义和绑定的增强点。
// 修改在锁内进行并发布新的不可变快照；ResolveAdviceFor 原子读取快照，
// 并发注册不会让进行中的分发看到部分更新的增强点列表。
type AdviceRegistry struct {
	lock      sync.Mutex
	pointcuts map[string]*pointcutDef
	entries   []*adviceEntry
	// snapshotPtr provides lock-free atomic access to the resolved snapshot
	// snapshotPtr 提供对快照的无锁原子访问，避免分发路径的锁竞争
	snapshotPtr unsafe.Pointer
}

// NewAdviceRegistry 创建一个新的增强点注册表实例
func NewAdviceRegistry() *AdviceRegistry {
	r := &AdviceRegistry{
		pointcuts: make(map[string]*pointcutDef),
	}
	r.storeSnapshot(&registrySnapshot{})
	return r
}

// DefinePointcut compiles and stores a named pointcut.
// Fails with types.ErrDuplicatePointcut if the name is already defined and
// with types.ErrMalformedPattern if the pattern does not compile. Pattern
// errors surface here, at configuration time, never during dispatch.
//
// DefinePointcut 编译并保存一个命名切入点。
// 名称冲突返回 types.ErrDuplicatePointcut，表达式非法返回 types.ErrMalformedPattern。
// 表达式错误在配置阶段暴露，不会出现在分发阶段。
func (r *AdviceRegistry) DefinePointcut(name string, pattern string) error {
	matcher, err := CompilePattern(pattern)
	if err != nil {
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.pointcuts[name]; ok {
		return fmt.Errorf("%w: name=%s", types.ErrDuplicatePointcut, name)
	}
	r.pointcuts[name] = &pointcutDef{name: name, pattern: pattern, matcher: matcher}
	return nil
}

// Pointcuts 返回所有已定义的切入点
func (r *AdviceRegistry) Pointcuts() []types.Pointcut {
	r.lock.Lock()
	defer r.lock.Unlock()
	var result []types.Pointcut
	for _, def := range r.pointcuts {
		result = append(result, types.Pointcut{Name: def.name, Pattern: def.pattern})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// RegisterAdvice binds an advice to a defined pointcut using the advice's own
// Order(). Fails with types.ErrUnknownPointcut if the pointcut is undefined.
//
// RegisterAdvice 把增强点绑定到已定义的切入点，使用增强点自身的 Order()。
// 切入点未定义时返回 types.ErrUnknownPointcut。
func (r *AdviceRegistry) RegisterAdvice(pointcutName string, advice types.Advice) error {
	return r.RegisterAdviceWithOrder(pointcutName, advice.Order(), advice)
}

// RegisterAdviceWithOrder binds an advice with an explicit order, overriding
// the advice's own Order(). Advice with equal order runs in registration order.
//
// RegisterAdviceWithOrder 使用显式顺序绑定增强点，覆盖增强点自身的 Order()。
// 顺序相同的增强点按注册顺序执行。
func (r *AdviceRegistry) RegisterAdviceWithOrder(pointcutName string, order int, advice types.Advice) error {
	entry := &adviceEntry{advice: advice, order: order}
	if a, ok := advice.(types.BeforeAdvice); ok {
		entry.before = a
	}
	if a, ok := advice.(types.AfterReturningAdvice); ok {
		entry.afterReturning = a
	}
	if a, ok := advice.(types.AfterThrowingAdvice); ok {
		entry.afterThrowing = a
	}
	if entry.before == nil && entry.afterReturning == nil && entry.afterThrowing == nil {
		return fmt.Errorf("advice implements no advice phase interface. pointcut=%s", pointcutName)
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	def, ok := r.pointcuts[pointcutName]
	if !ok {
		return fmt.Errorf("%w: name=%s", types.ErrUnknownPointcut, pointcutName)
	}
	entry.pointcut = def
	entry.registrationIndex = len(r.entries)
	r.entries = append(r.entries, entry)
	r.rebuildSnapshot()
	return nil
}

// RegisterBefore 通过函数绑定一个before增强点
func (r *AdviceRegistry) RegisterBefore(pointcutName string, order int, fn func(jp *types.JoinPoint) error) error {
	return r.RegisterAdviceWithOrder(pointcutName, order, types.NewBeforeFunc(order, fn))
}

// RegisterAfterReturning 通过函数绑定一个afterReturning增强点
func (r *AdviceRegistry) RegisterAfterReturning(pointcutName string, order int, fn func(jp *types.JoinPoint, result interface{}) error) error {
	return r.RegisterAdviceWithOrder(pointcutName, order, types.NewAfterReturningFunc(order, fn))
}

// RegisterAfterThrowing 通过函数绑定一个afterThrowing增强点
func (r *AdviceRegistry) RegisterAfterThrowing(pointcutName string, order int, fn func(jp *types.JoinPoint, err error)) error {
	return r.RegisterAdviceWithOrder(pointcutName, order, types.NewAfterThrowingFunc(order, fn))
}

// ResolveAdviceFor evaluates every defined pointcut against the shape and
// returns the matching advice grouped by phase, each group ordered by
// (order, registration index). Read-only and safe to call repeatedly and
// concurrently; every call is authoritative.
//
// ResolveAdviceFor 用调用形状逐个求值所有切入点，返回按阶段分组的匹配增强点，
// 每组按（order，注册顺序）排序。只读，可以重复并发调用，每次调用结果都是权威的。
func (r *AdviceRegistry) ResolveAdviceFor(shape types.Shape) ResolvedAdvice {
	snapshot := r.loadSnapshot()
	var resolved ResolvedAdvice
	for _, entry := range snapshot.entries {
		if !entry.pointcut.matcher.Matches(shape) {
			continue
		}
		if entry.before != nil {
			resolved.Before = append(resolved.Before, BeforeBinding{Pointcut: entry.pointcut.name, Advice: entry.before})
		}
		if entry.afterReturning != nil {
			resolved.AfterReturning = append(resolved.AfterReturning, AfterReturningBinding{Pointcut: entry.pointcut.name, Advice: entry.afterReturning})
		}
		if entry.afterThrowing != nil {
			resolved.AfterThrowing = append(resolved.AfterThrowing, AfterThrowingBinding{Pointcut: entry.pointcut.name, Advice: entry.afterThrowing})
		}
	}
	return resolved
}

// Destroy releases every bound advice component and clears the registry.
// Advice registered through the func helpers has nothing to release.
//
// Destroy 释放所有绑定的增强点组件并清空注册表。
// 通过函数助手注册的增强点没有需要释放的资源。
func (r *AdviceRegistry) Destroy() {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, entry := range r.entries {
		if component, ok := entry.advice.(types.AdviceComponent); ok {
			component.Destroy()
		}
	}
	r.entries = nil
	r.pointcuts = make(map[string]*pointcutDef)
	r.storeSnapshot(&registrySnapshot{})
}

// rebuildSnapshot 在锁内重建并发布快照
func (r *AdviceRegistry) rebuildSnapshot() {
	sorted := make([]*adviceEntry, len(r.entries))
	copy(sorted, r.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].order != sorted[j].order {
			return sorted[i].order < sorted[j].order
		}
		return sorted[i].registrationIndex < sorted[j].registrationIndex
	})
	r.storeSnapshot(&registrySnapshot{entries: sorted})
}

func (r *AdviceRegistry) storeSnapshot(snapshot *registrySnapshot) {
	atomic.StorePointer(&r.snapshotPtr, unsafe.Pointer(snapshot))
}

func (r *AdviceRegistry) loadSnapshot() *registrySnapshot {
	return (*registrySnapshot)(atomic.LoadPointer(&r.snapshotPtr))
}
