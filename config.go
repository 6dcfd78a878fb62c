package depot

import "go.uber.org/zap"

// Config holds global configuration for the depot package
var Config config = config{}

type config struct {
	log *zap.Logger
}

// SetLogger configures the logger used by worlds and dispatchers.
// Passing nil restores the no-op logger.
func (c *config) SetLogger(log *zap.Logger) {
	c.log = log
}

func (c *config) logger() *zap.Logger {
	if c.log == nil {
		return zap.NewNop()
	}
	return c.log
}
