/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package analytics

import "sort"

// counter counts string keys while remembering first-encountered
// order, so ties in any derived ranking are reproducible.
type counter struct {
	keys   []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) Add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

func (c *counter) Get(key string) int {
	return c.counts[key]
}

func (c *counter) Len() int {
	return len(c.keys)
}

// Keys returns keys in first-encountered order.
func (c *counter) Keys() []string {
	return c.keys
}

type keyCount struct {
	Key   string
	Count int
}

// Sorted returns (key, count) pairs descending by count; equal counts
// keep first-encountered order.
func (c *counter) Sorted() []keyCount {
	out := make([]keyCount, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, keyCount{Key: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// orderedSet is a string set with deterministic (insertion) iteration
// order.
type orderedSet struct {
	keys []string
	seen map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) Add(key string) {
	if !s.seen[key] {
		s.seen[key] = true
		s.keys = append(s.keys, key)
	}
}

func (s *orderedSet) Has(key string) bool {
	return s.seen[key]
}

func (s *orderedSet) Len() int {
	return len(s.keys)
}

// Values returns members in insertion order. The returned slice is
// never nil.
func (s *orderedSet) Values() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}
