// Package filesystem provides the operating system backed file system
// capabilities consumed by the inspection and launch services.
package filesystem
