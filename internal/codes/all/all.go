// Package all registers every built-in design code. Import it for its
// side effects.
package all

import (
	_ "github.com/alexiusacademia/rcbeam/internal/codes/is456"
	_ "github.com/alexiusacademia/rcbeam/internal/codes/nscp"
)
