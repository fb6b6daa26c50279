// Package pathfix runs commands and repairs the host PATH once when a
// command fails only because its executable could not be found.
//
// GUI launchers on some platforms start applications with a minimal PATH.
// The first "not found" failure on such a platform triggers one derivation of
// the user's shell environment; its PATH replaces the host process PATH and
// the command is retried with the derived environment. A successful repair is
// permanent for the life of the process.
package pathfix
