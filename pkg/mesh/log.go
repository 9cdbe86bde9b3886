package mesh

import "go.uber.org/zap"

var log = zap.NewNop()

// SetLogger routes the package's debug output to l. A nil logger
// silences it. Call it once at startup, before meshes are shared.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}
