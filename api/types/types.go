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

// Visibility 目标操作的可见性，与切入点表达式的可见性token匹配
// visibility of a target operation, matched against the visibility token of a pointcut pattern
const (
	Public    = "public"
	Protected = "protected"
	Private   = "private"
	Package   = "package"
)

// flow direction type
// 流向 调用流入、流出拦截引擎方向
const (
	In  = "IN"
	Out = "OUT"
)

// 脚本类型
const (
	Js        = "Js"
	AllScript = "All"
)

// ScriptFuncSeparator 脚本函数名分割符
const ScriptFuncSeparator = "#"

// Script 脚本 用于注册原生函数或者使用go定义的自定义函数
type Script struct {
	//Type 脚本类型，默认Js
	Type string
	//Content 脚本内容或者自定义函数
	Content interface{}
}

// Configuration 增强点组件配置类型
type Configuration map[string]interface{}

// Shape describes the static call shape of an operation invocation.
// Pointcut patterns are evaluated against a Shape only: argument values never
// participate in matching.
//
// Shape 描述一次操作调用的静态形状。切入点表达式只针对 Shape 求值，参数值不参与匹配。
type Shape struct {
	//Visibility 操作可见性，取值：public/protected/private/package
	Visibility string
	//Scope 声明作用域，点号分隔。例如：examples.calculator.Calculator
	Scope string
	//Operation 操作名称
	Operation string
	//Arity 参数个数
	Arity int
}

// OperationInfo 目标对象声明的单个操作的元信息
type OperationInfo struct {
	//Name 操作名称
	Name string
	//Visibility 操作可见性
	Visibility string
	//Arity 参数个数
	Arity int
}

// OperationFunc 操作实现函数
type OperationFunc func(args []interface{}) (interface{}, error)

// Target is the capability interface the interception engine requires from a
// business object. A target exposes named, typed operations by declaration and
// by invocation; it stays unaware of the interception machinery.
//
// Target 是拦截引擎对业务对象的能力要求接口。
// 目标对象通过声明和按名调用两种能力暴露操作，自身对拦截机制无感知。
type Target interface {
	//Scope 返回声明作用域标识，点号分隔。例如：examples.calculator.Calculator
	Scope() string
	//Operation 按名称返回操作元信息，操作不存在时第二个返回值为false
	Operation(name string) (OperationInfo, bool)
	//Call 执行真实操作
	//返回值和错误必须与未拦截调用完全一致
	Call(name string, args []interface{}) (interface{}, error)
}

// AdviceComponentRegistry 增强点组件注册器
// DSL加载时通过组件type查找并实例化增强点组件
type AdviceComponentRegistry interface {
	//Register 注册组件，如果`component.Type()`已经存在则返回一个`已存在`错误
	Register(component AdviceComponent) error
	//Unregister 删除组件
	Unregister(componentType string) error
	//NewAdvice 通过componentType创建一个新的增强点组件实例
	NewAdvice(componentType string) (AdviceComponent, error)
	//GetComponents 获取所有注册组件列表
	GetComponents() map[string]AdviceComponent
}

// Parser 绑定定义文件DSL解析器
// 默认使用json方式，如果使用其他方式定义绑定，可以实现该接口
type Parser interface {
	// DecodeBindings 从描述文件解析绑定定义结构体
	//parses pointcut and advice bindings from an input source.
	DecodeBindings(dsl []byte) (Bindings, error)
	//EncodeBindings 把绑定定义结构体转换成描述文件
	EncodeBindings(def interface{}) ([]byte, error)
}

// Metadata 键值对元数据
type Metadata map[string]string

// NewMetadata 创建一个新的元数据实例
func NewMetadata() Metadata {
	return make(Metadata)
}

// BuildMetadata 通过map，创建一个新的元数据实例
func BuildMetadata(data Metadata) Metadata {
	metadata := make(Metadata)
	for k, v := range data {
		metadata[k] = v
	}
	return metadata
}

// Copy 复制
func (md Metadata) Copy() Metadata {
	return BuildMetadata(md)
}

// Has 是否存在某个key
func (md Metadata) Has(key string) bool {
	_, ok := md[key]
	return ok
}

// GetValue 通过key获取值
func (md Metadata) GetValue(key string) string {
	return md[key]
}

// PutValue 设置值
func (md Metadata) PutValue(key, value string) {
	if key != "" {
		md[key] = value
	}
}

// Values 获取所有值
func (md Metadata) Values() map[string]string {
	return md
}
