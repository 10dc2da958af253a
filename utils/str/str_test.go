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

package str

import (
	"errors"
	"testing"

	"github.com/weavego/weavego/test/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "hello", ToString("hello"))
	assert.Equal(t, "8", ToString(8))
	assert.Equal(t, "3.14", ToString(3.14))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "boom", ToString(errors.New("boom")))
	assert.Equal(t, `{"a":1}`, ToString(map[string]interface{}{"a": 1}))
}

func TestJoinArgs(t *testing.T) {
	assert.Equal(t, "", JoinArgs(nil))
	assert.Equal(t, "5", JoinArgs([]interface{}{5}))
	assert.Equal(t, "5, 3", JoinArgs([]interface{}{5, 3}))
	assert.Equal(t, "a, 1, true", JoinArgs([]interface{}{"a", 1, true}))
}
