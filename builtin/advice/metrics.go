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

package advice

import (
	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/api/types/metrics"
)

var (
	// Compile-time check Metrics implements types.AdviceComponent.
	_ types.AdviceComponent = (*Metrics)(nil)
	// Compile-time check Metrics implements types.BeforeAdvice.
	_ types.BeforeAdvice = (*Metrics)(nil)
	// Compile-time check Metrics implements types.AfterReturningAdvice.
	_ types.AfterReturningAdvice = (*Metrics)(nil)
	// Compile-time check Metrics implements types.AfterThrowingAdvice.
	_ types.AfterThrowingAdvice = (*Metrics)(nil)
)

// Metrics is an advice that maintains dispatch counters for the operations
// its pointcut selects: currently executing, total, successful and failed
// dispatches. Counters are atomic and safe under concurrent dispatches.
//
// Metrics 是维护分发计数器的增强点：正在执行数、总数、成功数和失败数。
// 计数器是原子的，并发分发下安全。
type Metrics struct {
	metrics *metrics.DispatchMetrics
}

// Type 组件类型
func (x *Metrics) Type() string {
	return "metrics"
}

func (x *Metrics) New() types.AdviceComponent {
	return &Metrics{metrics: metrics.NewDispatchMetrics()}
}

// Init 初始化
func (x *Metrics) Init(config types.Config, configuration types.Configuration) error {
	if x.metrics == nil {
		x.metrics = metrics.NewDispatchMetrics()
	}
	return nil
}

// Order returns the execution order of this advice. Metrics runs with order
// 10, before the other built-in advice.
//
// Order 返回此增强点的执行顺序。Metrics 的顺序为 10，在其他内置增强点之前执行。
func (x *Metrics) Order() int {
	return 10
}

// Before 记录分发开始
func (x *Metrics) Before(jp *types.JoinPoint) error {
	x.metrics.IncrementCurrent()
	x.metrics.IncrementTotal()
	return nil
}

// AfterReturning 记录分发成功结束
func (x *Metrics) AfterReturning(jp *types.JoinPoint, result interface{}) error {
	x.metrics.IncrementSuccess()
	x.metrics.DecrementCurrent()
	return nil
}

// AfterThrowing 记录分发失败结束
func (x *Metrics) AfterThrowing(jp *types.JoinPoint, err error) {
	x.metrics.IncrementFailed()
	x.metrics.DecrementCurrent()
}

// Get returns a copy of the current metrics.
// Get 返回当前指标的副本。
func (x *Metrics) Get() metrics.DispatchMetrics {
	if x.metrics == nil {
		return metrics.DispatchMetrics{}
	}
	return x.metrics.Get()
}

// Reset resets all metrics to zero.
func (x *Metrics) Reset() {
	if x.metrics != nil {
		x.metrics.Reset()
	}
}

// Destroy 销毁
func (x *Metrics) Destroy() {
}
