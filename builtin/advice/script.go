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
	"errors"
	"fmt"
	"strings"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/utils/js"
	"github.com/weavego/weavego/utils/maps"
)

// 增强点函数名
const (
	JsFuncBefore         = "Before"
	JsFuncAfterReturning = "AfterReturning"
	JsFuncAfterThrowing  = "AfterThrowing"
)

var (
	// Compile-time check Js implements types.AdviceComponent.
	_ types.AdviceComponent = (*Js)(nil)
	// Compile-time check Js implements types.BeforeAdvice.
	_ types.BeforeAdvice = (*Js)(nil)
	// Compile-time check Js implements types.AfterReturningAdvice.
	_ types.AfterReturningAdvice = (*Js)(nil)
	// Compile-time check Js implements types.AfterThrowingAdvice.
	_ types.AfterThrowingAdvice = (*Js)(nil)
)

// JsConfiguration 组件配置
type JsConfiguration struct {
	//BeforeScript 函数体，目标操作执行之前执行
	//函数参数：joinPoint
	//抛出异常则终止分发，目标操作不执行
	BeforeScript string
	//AfterReturningScript 函数体，目标操作正常返回之后执行
	//函数参数：joinPoint、result
	//抛出异常则异常代替原返回值传播给调用方
	AfterReturningScript string
	//AfterThrowingScript 函数体，目标操作返回错误之后执行
	//函数参数：joinPoint、error(字符串)
	//抛出异常只记录日志，原始错误继续传播
	AfterThrowingScript string
}

// Js is an advice whose logic is expressed as JavaScript function bodies and
// executed by the goja engine. Scripts can read the join point (id, scope,
// operation, visibility, args), the global properties through the `global`
// variable and call udf functions registered in the configuration.
//
// Js 是用 JavaScript 函数体表达逻辑的增强点，由 goja 引擎执行。
// 脚本可以读取连接点（id、scope、operation、visibility、args），
// 通过`global`变量访问全局属性，调用配置里注册的udf函数。
//
// 脚本示例：
//
//	"configuration": {
//	  "beforeScript": "if (joinPoint.args.length > 2) { throw 'too many args'; }",
//	  "afterReturningScript": "global.lastResult = result;"
//	}
type Js struct {
	//组件配置
	Config   JsConfiguration
	jsEngine *js.GojaJsEngine
	logger   types.Logger
}

// Type 组件类型
func (x *Js) Type() string {
	return "js"
}

func (x *Js) New() types.AdviceComponent {
	return &Js{Config: JsConfiguration{}}
}

// Init 初始化，编译脚本
func (x *Js) Init(config types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	script := x.buildScript()
	if script == "" {
		return errors.New("js advice requires at least one script")
	}
	jsEngine, err := js.NewGojaJsEngine(config, script, nil)
	if err != nil {
		return err
	}
	x.jsEngine = jsEngine
	x.logger = types.NewLogger(config.Logger)
	return nil
}

// Order returns the execution order of this advice. Js runs with order 100.
//
// Order 返回此增强点的执行顺序。Js 的顺序为 100。
func (x *Js) Order() int {
	return 100
}

// Before 执行BeforeScript
func (x *Js) Before(jp *types.JoinPoint) error {
	if strings.TrimSpace(x.Config.BeforeScript) == "" {
		return nil
	}
	_, err := x.jsEngine.Execute(JsFuncBefore, jsJoinPoint(jp))
	return err
}

// AfterReturning 执行AfterReturningScript
func (x *Js) AfterReturning(jp *types.JoinPoint, result interface{}) error {
	if strings.TrimSpace(x.Config.AfterReturningScript) == "" {
		return nil
	}
	_, err := x.jsEngine.Execute(JsFuncAfterReturning, jsJoinPoint(jp), result)
	return err
}

// AfterThrowing 执行AfterThrowingScript
// 脚本自身的异常只记录日志，不影响原始错误的传播
func (x *Js) AfterThrowing(jp *types.JoinPoint, err error) {
	if strings.TrimSpace(x.Config.AfterThrowingScript) == "" {
		return
	}
	if _, scriptErr := x.jsEngine.Execute(JsFuncAfterThrowing, jsJoinPoint(jp), err.Error()); scriptErr != nil {
		x.logger.Printf("js afterThrowing script error: %s", scriptErr.Error())
	}
}

// Destroy 销毁
func (x *Js) Destroy() {
	if x.jsEngine != nil {
		x.jsEngine.Stop()
	}
}

// buildScript 把配置的函数体拼装成完整脚本
func (x *Js) buildScript() string {
	var builder strings.Builder
	if strings.TrimSpace(x.Config.BeforeScript) != "" {
		builder.WriteString(fmt.Sprintf("function %s(joinPoint) { %s }\n", JsFuncBefore, x.Config.BeforeScript))
	}
	if strings.TrimSpace(x.Config.AfterReturningScript) != "" {
		builder.WriteString(fmt.Sprintf("function %s(joinPoint, result) { %s }\n", JsFuncAfterReturning, x.Config.AfterReturningScript))
	}
	if strings.TrimSpace(x.Config.AfterThrowingScript) != "" {
		builder.WriteString(fmt.Sprintf("function %s(joinPoint, error) { %s }\n", JsFuncAfterThrowing, x.Config.AfterThrowingScript))
	}
	return builder.String()
}

// jsJoinPoint 把连接点转换成脚本可读的map
func jsJoinPoint(jp *types.JoinPoint) map[string]interface{} {
	return map[string]interface{}{
		"id":         jp.Id,
		"scope":      jp.Scope,
		"operation":  jp.Operation,
		"visibility": jp.Visibility,
		"args":       jp.Args,
	}
}
