// Package logging builds the process-wide zap logger.
package logging

import "go.uber.org/zap"

func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
