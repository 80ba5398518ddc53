package repl

import "errors"

// ErrEditDeclined is returned when the user backs out of an external
// editor session without saving.
var ErrEditDeclined = errors.New("decline edit")
