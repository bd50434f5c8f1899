// Copyright 2025 The reprotoc Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolver

// CompositeResolver sequentially consults a list of sub-resolvers,
// concatenating results, per spec.md §4.5.
type CompositeResolver struct {
	Resolvers []Resolver
}

func NewCompositeResolver(resolvers ...Resolver) *CompositeResolver {
	return &CompositeResolver{Resolvers: resolvers}
}

func (c *CompositeResolver) Resolve(required RequiredPackage) ([]Resolved, error) {
	var out []Resolved
	for _, r := range c.Resolvers {
		res, err := r.Resolve(required)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

func (c *CompositeResolver) ResolveByPrefix(prefix []string) ([]ResolvedByPrefix, error) {
	var out []ResolvedByPrefix
	for _, r := range c.Resolvers {
		res, err := r.ResolveByPrefix(prefix)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}
