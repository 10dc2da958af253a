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

// Package advice provides the built-in advice components of WeaveGo.
// The components can be bound to pointcuts through the Go API or declared by
// type in the bindings DSL, keeping cross-cutting concerns separate from the
// target object's business logic.
//
// Package advice 提供 WeaveGo 的内置增强点组件。
// 组件可以通过 Go API 绑定到切入点，也可以在绑定DSL里按type声明，
// 让横切关注点与目标对象的业务逻辑分离。
//
// Available Built-in Advice:
// 可用的内置增强点：
//
//   - Log: logs operation name and arguments before execution, the return
//     value after success and the error message after failure
//     Log：执行前记录操作名和参数，成功后记录返回值，失败后记录错误信息
//
//   - Metrics: maintains atomic dispatch counters (current/total/success/failed)
//     Metrics：维护原子分发计数器（current/total/success/failed）
//
//   - Js: advice logic expressed as JavaScript functions, executed by goja
//     Js：用 JavaScript 函数表达的增强点逻辑，由 goja 执行
//
// Advice Execution Order:
// 增强点执行顺序：
//
// Advice runs in order based on the Order() method, smaller first:
// 增强点根据 Order() 方法按顺序执行，值小的先执行：
//  1. Metrics (order: 10)
//  2. Js (order: 100)
//  3. Log (order: 900)
package advice

import (
	"github.com/weavego/weavego/api/types"
)

// Registry 本包增强点组件注册列表
var Registry = new(types.SafeAdviceSlice)

func init() {
	Registry.Add(&Log{}, &Metrics{}, &Js{})
}
