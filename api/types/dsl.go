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

// Bindings 绑定定义
// declares pointcuts and the advice bound to them. This is the in-file form of
// the registration surface: loading a Bindings document performs the same
// DefinePointcut/RegisterAdvice calls the Go API exposes.
type Bindings struct {
	//切入点定义
	//每个对象代表一个命名的切入点
	Pointcuts []Pointcut `json:"pointcuts"`
	//增强点绑定定义
	//每个对象代表一个绑定到切入点的增强点组件
	Advice []AdviceBinding `json:"advice"`
}

// Pointcut 切入点定义
type Pointcut struct {
	//Name 切入点的唯一标识符，可以是任意字符串
	Name string `json:"name"`
	//Pattern 切入点表达式
	//结构化表达式，例如：public * examples.calculator.*.*(..)
	//或者expr表达式，例如：expr: visibility == "public" && arity == 2
	Pattern string `json:"pattern"`
}

// AdviceBinding 增强点绑定定义
type AdviceBinding struct {
	//Pointcut 绑定的切入点名称，必须在Pointcuts中定义
	Pointcut string `json:"pointcut"`
	//Type 增强点组件的类型，决定了增强点的逻辑和行为。
	//它应该与组件注册器中注册的组件类型之一匹配
	Type string `json:"type"`
	//Order 执行顺序，值越小，优先级越高。相同Order按注册顺序执行
	//为0时使用组件自身的默认顺序
	Order int `json:"order"`
	//Configuration 包含了组件的配置参数，具体内容取决于组件类型。
	//例如，一个log组件可能有一个`prefix`字段，定义了日志前缀，
	//而一个js组件有一个`jsScript`字段，定义了增强点逻辑脚本。
	Configuration Configuration `json:"configuration,omitempty"`
}
