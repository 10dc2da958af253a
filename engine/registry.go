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
	"errors"
	"fmt"
	"sync"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/builtin/advice"
)

// Registry is the default registry for advice components.
var Registry = new(AdviceComponentRegistry)

// init registers built-in components to the default component registry.
func init() {
	for _, component := range advice.Registry.Components() {
		_ = Registry.Register(component)
	}
}

// AdviceComponentRegistry is a registry for advice components referenced by
// type from the bindings DSL.
type AdviceComponentRegistry struct {
	// components is a map of advice components, keyed by component type.
	components map[string]types.AdviceComponent
	// RWMutex is a read/write mutex lock.
	sync.RWMutex
}

// Register adds an advice component to the registry.
func (r *AdviceComponentRegistry) Register(component types.AdviceComponent) error {
	r.Lock()
	defer r.Unlock()
	if r.components == nil {
		r.components = make(map[string]types.AdviceComponent)
	}
	if _, ok := r.components[component.Type()]; ok {
		return errors.New("the component already exists. componentType=" + component.Type())
	}
	r.components[component.Type()] = component

	return nil
}

// Unregister removes a component from the registry by its type.
func (r *AdviceComponentRegistry) Unregister(componentType string) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.components[componentType]; ok {
		delete(r.components, componentType)
		return nil
	}
	return fmt.Errorf("component not found. componentType=%s", componentType)
}

// NewAdvice creates a new instance of an advice component by its type.
func (r *AdviceComponentRegistry) NewAdvice(componentType string) (types.AdviceComponent, error) {
	r.RLock()
	defer r.RUnlock()
	if component, ok := r.components[componentType]; ok {
		return component.New(), nil
	}
	return nil, fmt.Errorf("component not found. componentType=%s", componentType)
}

// GetComponents returns all registered advice components.
func (r *AdviceComponentRegistry) GetComponents() map[string]types.AdviceComponent {
	r.RLock()
	defer r.RUnlock()
	var components = make(map[string]types.AdviceComponent)
	for k, v := range r.components {
		components[k] = v
	}
	return components
}
