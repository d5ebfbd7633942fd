// Package editor implements one text-editing session: the command processor
// that turns host input into buffer edits, the undo/redo history, IME
// composition, clipboard integration and the render snapshot a host draws.
//
// A Session is driven from the host's update goroutine and is not safe for
// concurrent use. Hosts with several editors route events through the
// registry package.
package editor
