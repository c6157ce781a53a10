// Package scheduler owns the ready queue and picks the next task with stride
// scheduling: the ready task with the smallest stride runs next and, on
// being fetched, advances its stride by BigStride/priority. Heavier tasks
// advance more slowly and therefore run proportionally more often.
//
// Equal strides are served in insertion order.
package scheduler
