// Package storage provides the file I/O used around a schedule run.
//
// It reads line-oriented listings (the staff directory) and writes generated
// files wholesale. Writes go through a temporary file in the target directory
// and are renamed into place, so an interrupted run never leaves a half-written
// calendar behind. Paths starting with "~/" are expanded to the home directory.
package storage
