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
	"sync"
	"testing"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/test/assert"
)

// captureLogger 收集日志行用于断言
type captureLogger struct {
	lock  sync.Mutex
	lines []string
}

func (l *captureLogger) Printf(format string, v ...interface{}) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func newJoinPoint(operation string, args ...interface{}) *types.JoinPoint {
	return types.NewJoinPoint("examples.calculator", operation, types.Public, args)
}

func TestRegistryComponents(t *testing.T) {
	components := Registry.Components()
	assert.Equal(t, 3, len(components))
	componentTypes := make(map[string]bool)
	for _, component := range components {
		componentTypes[component.Type()] = true
	}
	assert.True(t, componentTypes["log"])
	assert.True(t, componentTypes["metrics"])
	assert.True(t, componentTypes["js"])
}

func TestLogAdvice(t *testing.T) {
	logger := &captureLogger{}
	config := types.NewConfig(types.WithLogger(logger))

	logAdvice := new(Log).New().(*Log)
	assert.Nil(t, logAdvice.Init(config, types.Configuration{}))
	assert.Equal(t, 900, logAdvice.Order())

	jp := newJoinPoint("sum", 5, 3)
	assert.Nil(t, logAdvice.Before(jp))
	jp.SetReturned(8)
	assert.Nil(t, logAdvice.AfterReturning(jp, 8))

	assert.Equal(t, 4, len(logger.lines))
	assert.Equal(t, "<<<ASPECT>>> Before execution: sum", logger.lines[0])
	assert.Equal(t, "<<<ASPECT>>> Args: 5, 3", logger.lines[1])
	assert.Equal(t, "<<<ASPECT>>> Method returned successfully.", logger.lines[2])
	assert.Equal(t, "<<<ASPECT>>> Return: 8", logger.lines[3])

	logger.lines = nil
	jp = newJoinPoint("divide", 2, 0)
	assert.Nil(t, logAdvice.Before(jp))
	jp.SetThrew(errors.New("division by zero"))
	logAdvice.AfterThrowing(jp, jp.Error())
	assert.Equal(t, "<<<ASPECT>>> Exception caught: division by zero", logger.lines[len(logger.lines)-1])
}

func TestLogAdviceCustomPrefix(t *testing.T) {
	logger := &captureLogger{}
	config := types.NewConfig(types.WithLogger(logger))

	logAdvice := new(Log).New().(*Log)
	assert.Nil(t, logAdvice.Init(config, types.Configuration{"prefix": "[audit]"}))

	//无参数操作不输出Args行
	assert.Nil(t, logAdvice.Before(newJoinPoint("reset")))
	assert.Equal(t, 1, len(logger.lines))
	assert.Equal(t, "[audit] Before execution: reset", logger.lines[0])
}

func TestMetricsAdvice(t *testing.T) {
	metricsAdvice := new(Metrics).New().(*Metrics)
	assert.Nil(t, metricsAdvice.Init(types.NewConfig(), nil))
	assert.Equal(t, 10, metricsAdvice.Order())

	jp := newJoinPoint("sum", 1, 2)
	assert.Nil(t, metricsAdvice.Before(jp))
	assert.Equal(t, int64(1), metricsAdvice.Get().Current)
	assert.Nil(t, metricsAdvice.AfterReturning(jp, 3))

	jp = newJoinPoint("divide", 1, 0)
	assert.Nil(t, metricsAdvice.Before(jp))
	metricsAdvice.AfterThrowing(jp, errors.New("division by zero"))

	got := metricsAdvice.Get()
	assert.Equal(t, int64(0), got.Current)
	assert.Equal(t, int64(2), got.Total)
	assert.Equal(t, int64(1), got.Success)
	assert.Equal(t, int64(1), got.Failed)

	metricsAdvice.Reset()
	assert.Equal(t, int64(0), metricsAdvice.Get().Total)
}

func TestJsAdviceBefore(t *testing.T) {
	jsAdvice := new(Js).New().(*Js)
	config := types.NewConfig()
	assert.Nil(t, jsAdvice.Init(config, types.Configuration{
		"beforeScript": "if (joinPoint.args[1] === 0) { throw 'zero divisor rejected'; }",
	}))
	defer jsAdvice.Destroy()
	assert.Equal(t, 100, jsAdvice.Order())

	assert.Nil(t, jsAdvice.Before(newJoinPoint("divide", 4, 2)))

	err := jsAdvice.Before(newJoinPoint("divide", 4, 0))
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "zero divisor rejected"))

	//未配置的阶段不执行脚本
	assert.Nil(t, jsAdvice.AfterReturning(newJoinPoint("divide", 4, 2), 2))
}

func TestJsAdviceAfterReturning(t *testing.T) {
	jsAdvice := new(Js).New().(*Js)
	assert.Nil(t, jsAdvice.Init(types.NewConfig(), types.Configuration{
		"afterReturningScript": "if (result > 100) { throw 'result out of range'; }",
	}))
	defer jsAdvice.Destroy()

	jp := newJoinPoint("sum", 50, 50)
	assert.Nil(t, jsAdvice.AfterReturning(jp, 100))

	err := jsAdvice.AfterReturning(jp, 101)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "result out of range"))
}

func TestJsAdviceAfterThrowingSwallowsScriptError(t *testing.T) {
	logger := &captureLogger{}
	jsAdvice := new(Js).New().(*Js)
	assert.Nil(t, jsAdvice.Init(types.NewConfig(types.WithLogger(logger)), types.Configuration{
		"afterThrowingScript": "throw 'script blew up';",
	}))
	defer jsAdvice.Destroy()

	//脚本异常只记录日志
	jsAdvice.AfterThrowing(newJoinPoint("divide", 1, 0), errors.New("division by zero"))
	assert.Equal(t, 1, len(logger.lines))
	assert.True(t, strings.Contains(logger.lines[0], "script blew up"))
}

func TestJsAdviceGlobalProperties(t *testing.T) {
	properties := types.NewMetadata()
	properties.PutValue("maxOperand", "100")
	config := types.NewConfig(types.WithProperties(properties))

	jsAdvice := new(Js).New().(*Js)
	assert.Nil(t, jsAdvice.Init(config, types.Configuration{
		"beforeScript": "if (String(joinPoint.args[0]) === global.maxOperand) { throw 'operand at limit'; }",
	}))
	defer jsAdvice.Destroy()

	assert.Nil(t, jsAdvice.Before(newJoinPoint("sum", 99, 1)))
	assert.NotNil(t, jsAdvice.Before(newJoinPoint("sum", 100, 1)))
}

func TestJsAdviceRequiresScript(t *testing.T) {
	jsAdvice := new(Js).New().(*Js)
	err := jsAdvice.Init(types.NewConfig(), types.Configuration{})
	assert.NotNil(t, err)
}
