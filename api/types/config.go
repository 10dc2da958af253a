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

import (
	"time"
)

// Config defines the configuration for the interception engine.
type Config struct {
	// OnDebug is a callback function for dispatch debug information.
	// - flowType: The event type, either IN (the call entered the engine) or OUT (the call left the engine).
	// - joinPoint: The join point of the current dispatch. For OUT events the outcome is already set.
	// - err: Error information, if any. For OUT events this is the error the caller will observe.
	OnDebug func(flowType string, joinPoint *JoinPoint, err error)
	// ScriptMaxExecutionTime is the maximum execution time for scripts, defaulting to 2000 milliseconds.
	ScriptMaxExecutionTime time.Duration
	// ComponentsRegistry is the advice component registry, defaulting to `engine.Registry`.
	ComponentsRegistry AdviceComponentRegistry
	// Parser is the bindings DSL parser interface, defaulting to `engine.JsonParser`.
	Parser Parser
	// Logger is the logging interface, defaulting to `DefaultLogger()`.
	Logger Logger
	// Properties are global properties in key-value format.
	// Script advice can read them through the global.propertyKey variable.
	Properties Metadata
	// Udf is a map for registering custom Golang functions and native scripts that can be called at runtime by script advice.
	// Function names can be repeated for different script types.
	Udf map[string]interface{}
}

// RegisterUdf registers a custom function. Function names can be repeated for different script types.
func (c *Config) RegisterUdf(name string, value interface{}) {
	if c.Udf == nil {
		c.Udf = make(map[string]interface{})
	}
	if script, ok := value.(Script); ok {
		// Resolve function name conflicts for different script types.
		name = script.Type + ScriptFuncSeparator + name
	}
	c.Udf[name] = value
}

// NewConfig creates a new Config with default values and applies the provided options.
func NewConfig(opts ...Option) Config {
	c := &Config{
		ScriptMaxExecutionTime: time.Millisecond * 2000,
		Logger:                 DefaultLogger(),
		Properties:             NewMetadata(),
	}

	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}
