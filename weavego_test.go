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

package weavego

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/engine"
	"github.com/weavego/weavego/test/assert"
)

var bindingsFile = `
{
  "pointcuts": [
    {
      "name": "calculatorOps",
      "pattern": "public * examples.calculator.*(..)"
    }
  ],
  "advice": [
    {
      "pointcut": "calculatorOps",
      "type": "metrics"
    },
    {
      "pointcut": "calculatorOps",
      "type": "js",
      "configuration": {
        "beforeScript": "if (joinPoint.args[1] === 0 && joinPoint.operation === 'divide') { throw 'division by zero rejected before dispatch'; }"
      }
    }
  ]
}
`

func newCalculatorTarget(t *testing.T) types.Target {
	t.Helper()
	target := engine.NewFuncTarget("examples.calculator")
	assert.Nil(t, target.RegisterOperation("sum", types.Public, 2, func(args []interface{}) (interface{}, error) {
		return args[0].(int) + args[1].(int), nil
	}))
	assert.Nil(t, target.RegisterOperation("divide", types.Public, 2, func(args []interface{}) (interface{}, error) {
		if args[1].(int) == 0 {
			return nil, errors.New("division by zero")
		}
		return args[0].(int) / args[1].(int), nil
	}))
	return target
}

func TestEnginePool(t *testing.T) {
	defer Stop()

	eng, err := New("calculator01", []byte(bindingsFile))
	assert.Nil(t, err)
	assert.NotNil(t, eng)

	//相同id返回已有实例
	same, err := New("calculator01", nil)
	assert.Nil(t, err)
	assert.Equal(t, eng, same)

	got, ok := Get("calculator01")
	assert.True(t, ok)
	assert.Equal(t, eng, got)

	Del("calculator01")
	_, ok = Get("calculator01")
	assert.False(t, ok)
}

func TestEnginePoolLoadError(t *testing.T) {
	defer Stop()

	_, err := New("broken", []byte(`{"pointcuts":[{"name":"bad","pattern":"no parens"}]}`))
	assert.True(t, errors.Is(err, types.ErrMalformedPattern))
	//加载失败的引擎不入池
	_, ok := Get("broken")
	assert.False(t, ok)
}

func TestEndToEndDispatch(t *testing.T) {
	defer Stop()

	eng, err := New("calculator02", []byte(bindingsFile))
	assert.Nil(t, err)

	proxy := eng.Wrap(newCalculatorTarget(t))

	result, err := proxy.Call("sum", []interface{}{5, 3})
	assert.Nil(t, err)
	assert.Equal(t, 8, result)

	result, err = proxy.Call("divide", []interface{}{4, 2})
	assert.Nil(t, err)
	assert.Equal(t, 2, result)

	//js增强点在before阶段拒绝，目标操作不执行
	_, err = proxy.Call("divide", []interface{}{2, 0})
	var executionErr *types.AdviceExecutionError
	assert.True(t, errors.As(err, &executionErr))
	assert.Equal(t, types.PhaseBefore, executionErr.Phase)
	assert.Equal(t, "calculatorOps", executionErr.Pointcut)
}

func TestEndToEndConcurrentDispatch(t *testing.T) {
	defer Stop()

	eng, err := New("calculator03", []byte(bindingsFile))
	assert.Nil(t, err)
	proxy := eng.Wrap(newCalculatorTarget(t))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 1; j <= 10; j++ {
				result, callErr := proxy.Call("sum", []interface{}{i, j})
				assert.Nil(t, callErr)
				assert.Equal(t, i+j, result, fmt.Sprintf("i=%d j=%d", i, j))
			}
		}(i)
	}
	wg.Wait()
}

func TestProgrammaticRegistration(t *testing.T) {
	defer Stop()

	eng, err := New("calculator04", nil)
	assert.Nil(t, err)
	assert.Nil(t, eng.DefinePointcut("sumOnly", "examples.calculator.sum(*, *)"))

	var before, returned int
	assert.Nil(t, eng.RegisterBefore("sumOnly", 100, func(jp *types.JoinPoint) error {
		before++
		return nil
	}))
	assert.Nil(t, eng.RegisterAfterReturning("sumOnly", 100, func(jp *types.JoinPoint, result interface{}) error {
		returned++
		return nil
	}))

	target := newCalculatorTarget(t)
	result, err := eng.Invoke(target, "sum", 1, 2)
	assert.Nil(t, err)
	assert.Equal(t, 3, result)
	//divide不匹配sumOnly
	_, err = eng.Invoke(target, "divide", 4, 2)
	assert.Nil(t, err)
	assert.Equal(t, 1, before)
	assert.Equal(t, 1, returned)
}
