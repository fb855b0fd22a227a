package utils

import (
	"io"

	"github.com/silahub/site/internal/logger"
)

// CloseLogged closes c and logs, rather than returns, any error. Use it for
// shutdown paths where nothing else can be done about a failed close.
func CloseLogged(name string, c io.Closer, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", name), logger.Error(err))
		return
	}
	log.Debugf("%s closed", name)
}
