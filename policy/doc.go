// Package policy gates system calls by name. A nil *Policy allows
// everything; otherwise the block list wins over the allow list, and Mode
// decides what happens to calls the lists let through.
package policy
