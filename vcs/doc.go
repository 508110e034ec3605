// Package vcs reads git metadata describing how a program was run: the current
// commit and the uncommitted modifications. Directories outside of a repository
// are reported with ok set to false, never as errors.
package vcs
