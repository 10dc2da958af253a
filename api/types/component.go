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

import "sync"

// SafeAdviceSlice 安全的增强点组件列表切片
type SafeAdviceSlice struct {
	//组件列表
	components []AdviceComponent
	sync.Mutex
}

// Add 线程安全地添加元素
func (p *SafeAdviceSlice) Add(components ...AdviceComponent) {
	p.Lock()
	defer p.Unlock()
	for _, component := range components {
		p.components = append(p.components, component)
	}
}

// Components 获取组件列表
func (p *SafeAdviceSlice) Components() []AdviceComponent {
	p.Lock()
	defer p.Unlock()
	return p.components
}
