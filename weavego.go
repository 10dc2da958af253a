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

// Package weavego provides a lightweight, embedded method-interception engine.
//
// Cross-cutting behavior (logging, metrics, validation) is declared once as
// advice, bound to pointcuts that describe which operations to intercept, and
// the engine weaves it around real calls without touching the target code.
//
// # Usage
//
// Declare pointcuts and advice bindings in a bindings document:
//
//	{
//	  "pointcuts": [
//	    {
//	      "name": "serviceOps",
//	      "pattern": "public * examples.calculator.*(..)"
//	    }
//	  ],
//	  "advice": [
//	    {
//	      "pointcut": "serviceOps",
//	      "type": "log",
//	      "configuration": {
//	        "prefix": "<<<ASPECT>>>"
//	      }
//	    }
//	  ]
//	}
//
// pointcuts: named patterns selecting operations by visibility, scope path,
// operation name and arity. Patterns prefixed with "expr:" use expression
// matching instead of the structural grammar.
//
// advice: built-in or custom advice components bound to the pointcuts.
//
// Create an engine instance:
//
//	eng, err := weavego.New("calculator", []byte(bindingsFile))
//
// Put a target behind it:
//
//	target := engine.NewFuncTarget("examples.calculator")
//	target.MustRegisterOperation("sum", types.Public, 2, func(args []interface{}) (interface{}, error) {
//		return args[0].(int) + args[1].(int), nil
//	})
//
// Invoke through the engine:
//
//	result, err := eng.Invoke(target, "sum", 5, 3)
//
// Or through a transparent proxy with the target's own calling convention:
//
//	proxy := eng.Wrap(target)
//	result, err := proxy.Call("sum", []interface{}{5, 3})
//
// Advice can also be registered programmatically:
//
//	_ = eng.RegisterBefore("serviceOps", 100, func(jp *types.JoinPoint) error {
//		return nil
//	})
//
// Get an engine instance by id:
//
//	eng, ok := weavego.Get("calculator")
package weavego

import (
	"sync"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/engine"
)

var DefaultWeaveGo = &WeaveGo{}

// WeaveGo 拦截引擎实例池
type WeaveGo struct {
	engines sync.Map
}

// New creates an interception engine, loads the bindings document into it and
// stores it in the pool under the given id. If the id already exists the
// existing engine is returned unchanged.
//
// New 创建一个拦截引擎，加载绑定文档并以指定id存入实例池。
// id已存在时原样返回已有引擎。
func (w *WeaveGo) New(id string, bindings []byte, opts ...types.Option) (*engine.Engine, error) {
	if v, ok := w.engines.Load(id); ok {
		return v.(*engine.Engine), nil
	}
	config := types.NewConfig(opts...)
	eng := engine.New(config)
	if len(bindings) > 0 {
		if err := eng.LoadBindings(bindings); err != nil {
			eng.Stop()
			return nil, err
		}
	}
	if id != "" {
		w.engines.Store(id, eng)
	}
	return eng, nil
}

// Get 获取指定id引擎实例
func (w *WeaveGo) Get(id string) (*engine.Engine, bool) {
	v, ok := w.engines.Load(id)
	if ok {
		return v.(*engine.Engine), ok
	}
	return nil, false
}

// Del 删除并停止指定id引擎实例
func (w *WeaveGo) Del(id string) {
	v, ok := w.engines.Load(id)
	if ok {
		v.(*engine.Engine).Stop()
		w.engines.Delete(id)
	}
}

// Stop 释放所有引擎实例
func (w *WeaveGo) Stop() {
	w.engines.Range(func(key, value any) bool {
		if item, ok := value.(*engine.Engine); ok {
			item.Stop()
		}
		w.engines.Delete(key)
		return true
	})
}

// New 创建一个拦截引擎并存入默认实例池
func New(id string, bindings []byte, opts ...types.Option) (*engine.Engine, error) {
	return DefaultWeaveGo.New(id, bindings, opts...)
}

// Get 获取指定id引擎实例
func Get(id string) (*engine.Engine, bool) {
	return DefaultWeaveGo.Get(id)
}

// Del 删除并停止指定id引擎实例
func Del(id string) {
	DefaultWeaveGo.Del(id)
}

// Stop 释放所有引擎实例
func Stop() {
	DefaultWeaveGo.Stop()
}
