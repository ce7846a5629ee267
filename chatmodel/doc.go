// Package chatmodel carries the conversation identity through context.Context.
package chatmodel
