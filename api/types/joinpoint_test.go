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
	"errors"
	"testing"

	"github.com/weavego/weavego/test/assert"
)

func TestNewJoinPoint(t *testing.T) {
	jp := NewJoinPoint("examples.calculator", "sum", Public, []interface{}{5, 3})
	assert.NotEqual(t, "", jp.Id)
	assert.Equal(t, "examples.calculator", jp.Scope)
	assert.Equal(t, "sum", jp.Operation)
	assert.Equal(t, Public, jp.Visibility)
	assert.Equal(t, Pending, jp.Outcome())
	assert.Nil(t, jp.Result())
	assert.Nil(t, jp.Error())

	shape := jp.Shape()
	assert.Equal(t, "examples.calculator", shape.Scope)
	assert.Equal(t, "sum", shape.Operation)
	assert.Equal(t, Public, shape.Visibility)
	assert.Equal(t, 2, shape.Arity)

	//每个连接点id唯一
	other := NewJoinPoint("examples.calculator", "sum", Public, []interface{}{5, 3})
	assert.NotEqual(t, jp.Id, other.Id)
}

func TestJoinPointOutcomeTransitions(t *testing.T) {
	jp := NewJoinPoint("examples.calculator", "sum", Public, nil)
	jp.SetReturned(8)
	assert.Equal(t, Returned, jp.Outcome())
	assert.Equal(t, 8, jp.Result())

	//结果只能设置一次
	jp.SetReturned(9)
	assert.Equal(t, 8, jp.Result())
	jp.SetThrew(errors.New("late"))
	assert.Equal(t, Returned, jp.Outcome())
	assert.Nil(t, jp.Error())

	jp = NewJoinPoint("examples.calculator", "divide", Public, nil)
	failure := errors.New("division by zero")
	jp.SetThrew(failure)
	assert.Equal(t, Threw, jp.Outcome())
	assert.Equal(t, failure, jp.Error())
	jp.SetReturned(1)
	assert.Equal(t, Threw, jp.Outcome())
	assert.Nil(t, jp.Result())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "PENDING", Pending.String())
	assert.Equal(t, "RETURNED", Returned.String())
	assert.Equal(t, "THREW", Threw.String())
}

func TestMetadata(t *testing.T) {
	md := NewMetadata()
	md.PutValue("k1", "v1")
	assert.True(t, md.Has("k1"))
	assert.Equal(t, "v1", md.GetValue("k1"))

	copied := md.Copy()
	copied.PutValue("k1", "changed")
	assert.Equal(t, "v1", md.GetValue("k1"))

	built := BuildMetadata(map[string]string{"k2": "v2"})
	assert.Equal(t, "v2", built.GetValue("k2"))
	assert.False(t, built.Has("missing"))
}
