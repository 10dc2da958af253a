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
	"github.com/weavego/weavego/utils/maps"
	"github.com/weavego/weavego/utils/str"
)

var (
	// Compile-time check Log implements types.AdviceComponent.
	_ types.AdviceComponent = (*Log)(nil)
	// Compile-time check Log implements types.BeforeAdvice.
	_ types.BeforeAdvice = (*Log)(nil)
	// Compile-time check Log implements types.AfterReturningAdvice.
	_ types.AfterReturningAdvice = (*Log)(nil)
	// Compile-time check Log implements types.AfterThrowingAdvice.
	_ types.AfterThrowingAdvice = (*Log)(nil)
)

// LogConfiguration 组件配置
type LogConfiguration struct {
	//Prefix 每行日志的前缀
	Prefix string
}

// Log is a logging advice. It writes one line before the operation runs
// (operation name and arguments), one line after a normal return (the return
// value) and one line after a failure (the error message), all through
// config.Logger. It never alters the dispatch: the advice observes and
// returns nil.
//
// Log 是日志增强点。操作执行前记录一行（操作名和参数），正常返回后记录一行（返回值），
// 失败后记录一行（错误信息），都通过 config.Logger 输出。
// 它不改变分发流程：只观察，始终返回nil。
type Log struct {
	//组件配置
	Config LogConfiguration
	logger types.Logger
}

// Type 组件类型
func (x *Log) Type() string {
	return "log"
}

func (x *Log) New() types.AdviceComponent {
	return &Log{Config: LogConfiguration{Prefix: "<<<ASPECT>>>"}}
}

// Init 初始化
func (x *Log) Init(config types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	if x.Config.Prefix == "" {
		x.Config.Prefix = "<<<ASPECT>>>"
	}
	x.logger = types.NewLogger(config.Logger)
	return nil
}

// Order returns the execution order of this advice. Log runs with order 900,
// after the other built-in advice.
//
// Order 返回此增强点的执行顺序。Log 的顺序为 900，在其他内置增强点之后执行。
func (x *Log) Order() int {
	return 900
}

// Before 操作执行之前记录操作名和参数
func (x *Log) Before(jp *types.JoinPoint) error {
	x.logger.Printf("%s Before execution: %s", x.Config.Prefix, jp.Operation)
	if len(jp.Args) > 0 {
		x.logger.Printf("%s Args: %s", x.Config.Prefix, str.JoinArgs(jp.Args))
	}
	return nil
}

// AfterReturning 操作正常返回之后记录返回值
func (x *Log) AfterReturning(jp *types.JoinPoint, result interface{}) error {
	x.logger.Printf("%s Method returned successfully.", x.Config.Prefix)
	x.logger.Printf("%s Return: %s", x.Config.Prefix, str.ToString(result))
	return nil
}

// AfterThrowing 操作返回错误之后记录错误信息
func (x *Log) AfterThrowing(jp *types.JoinPoint, err error) {
	x.logger.Printf("%s Exception caught: %s", x.Config.Prefix, err.Error())
}

// Destroy 销毁
func (x *Log) Destroy() {
}
