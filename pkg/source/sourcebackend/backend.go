package sourcebackend

import (
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/source"
)

func Default(groups []configdef.SourceGroup) source.Backend {
	return Synthetic(groups)
}

// Resolve picks a backend by name. Only the synthetic backend ships today
// so every name falls back to it.
func Resolve(t string, groups []configdef.SourceGroup) source.Backend {
	switch t {
	case "synthetic":
		return Synthetic(groups)
	default:
		return Default(groups)
	}
}
