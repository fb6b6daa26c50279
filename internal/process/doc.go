// Package process runs external programs with an explicit environment and a
// time budget, and classifies their failures.
package process
