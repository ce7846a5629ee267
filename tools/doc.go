// Package tools defines the Tool type exposed to a language model: its wire
// descriptor, argument decoding, executor binding and a name-unique registry.
package tools
