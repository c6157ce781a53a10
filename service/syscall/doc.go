// Package syscall decodes trapped system calls and forwards them to the
// kernel. Every call is counted for the calling task before it is handled,
// then checked against the policy gate. Failures are reported to the task
// as -1.
package syscall
