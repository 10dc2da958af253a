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

import "errors"

const (
	// Global config.Properties key,call them through the global.xx method in scripts
	Global = "global"
)

// configuration-time errors. They abort setup and are never raised during dispatch.
// 配置阶段错误。配置阶段失败，分发阶段不会出现。
var (
	// ErrMalformedPattern is the error returned when a pointcut pattern fails to parse
	ErrMalformedPattern = errors.New("malformed pointcut pattern")
	// ErrDuplicatePointcut is the error returned when a pointcut name is already defined
	ErrDuplicatePointcut = errors.New("pointcut already defined")
	// ErrUnknownPointcut is the error returned when advice references an undefined pointcut
	ErrUnknownPointcut = errors.New("unknown pointcut")
)

// dispatch-time errors
var (
	// ErrOperationNotFound is the error returned when the target does not declare the invoked operation
	ErrOperationNotFound = errors.New("operation not found on target")
	// ErrEngineNotInitialized is the error returned when the interception engine is not initialized
	ErrEngineNotInitialized = errors.New("interception engine not initialized")
)

// AdviceExecutionError wraps an error returned by a Before or AfterReturning
// advice. It aborts the current dispatch only; remaining advice in the same
// phase does not run. Target operation errors are never wrapped this way.
//
// AdviceExecutionError 包装 Before 或 AfterReturning 增强点返回的错误。
// 它只终止当前分发，同阶段剩余增强点不再执行。目标操作的错误不会被包装。
type AdviceExecutionError struct {
	//Phase 出错的阶段
	Phase Phase
	//Pointcut 增强点绑定的切入点名称
	Pointcut string
	//Cause 增强点返回的原始错误
	Cause error
}

func (e *AdviceExecutionError) Error() string {
	return "advice execution failed. phase=" + string(e.Phase) + ",pointcut=" + e.Pointcut + ": " + e.Cause.Error()
}

func (e *AdviceExecutionError) Unwrap() error {
	return e.Cause
}
