// Package memory provides a bounded, insertion-ordered store of agent
// interactions. When the store is full, the oldest entry is evicted.
package memory
