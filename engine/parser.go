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

package engine

import (
	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/utils/json"
)

// JsonParser Json方式解析绑定DSL
type JsonParser struct {
}

func (p *JsonParser) DecodeBindings(dsl []byte) (types.Bindings, error) {
	var def types.Bindings
	err := json.Unmarshal(dsl, &def)
	return def, err
}

func (p *JsonParser) EncodeBindings(def interface{}) ([]byte, error) {
	v, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}
	//格式化Json
	return json.Format(v)
}
